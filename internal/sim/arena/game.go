package arena

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"riftarena.io/internal/protocol"
)

func (r *Room) startGame(now time.Time) {
	r.state = StatePlaying
	r.playing.Store(true)
	r.startedAt = now
	r.tick = 0

	r.resetPlayers()
	r.spawnOrbs()
	r.spawnBots()

	interval := time.Second / time.Duration(r.cfg.TickRateHz)
	r.ticker = time.NewTicker(interval)

	msg := protocol.GameStartedMsg{
		Type:            protocol.TypeGameStarted,
		ProtocolVersion: protocol.Version,
		World:           r.cfg.worldParams(),
		Players:         make([]protocol.EntitySnapshot, 0, len(r.players)),
		Bots:            make([]protocol.EntitySnapshot, 0, len(r.bots)),
		Orbs:            make([]protocol.OrbSnapshot, 0, len(r.orbs)),
		Rifts:           make([]protocol.RiftSnapshot, 0, len(r.rifts)),
	}
	for _, p := range r.players {
		msg.Players = append(msg.Players, p.snapshot())
	}
	for _, b := range r.bots {
		msg.Bots = append(msg.Bots, b.snapshot())
	}
	for _, o := range r.orbs {
		msg.Orbs = append(msg.Orbs, o.snapshot())
	}
	for _, rf := range r.rifts {
		msg.Rifts = append(msg.Rifts, rf.snapshot())
	}
	r.broadcast(msg)
}

// endGame broadcasts final standings, hands the summary to the match
// sink, and folds the room straight back to waiting.
func (r *Room) endGame(now time.Time) {
	duration := now.Sub(r.startedAt)

	ranks := r.rankings()
	r.broadcast(protocol.GameEndedMsg{
		Type:            protocol.TypeGameEnded,
		ProtocolVersion: protocol.Version,
		DurationMs:      duration.Milliseconds(),
		Rankings:        ranks,
	})

	if r.sink != nil {
		summary := MatchSummary{
			Code:       r.Code,
			StartedAt:  r.startedAt,
			DurationMs: duration.Milliseconds(),
			Rankings:   ranks,
		}
		if err := r.sink.RecordMatch(summary); err != nil {
			r.log.Printf("room %s: record match: %v", r.Code, err)
		}
	}

	r.ticker.Stop()
	r.ticker = nil
	r.state = StateWaiting
	r.playing.Store(false)
	r.tick = 0
	r.bots = nil
	r.orbs = nil
	r.resetPlayers()
}

// rankings orders all entities by score, humans and bots alike.
func (r *Room) rankings() []protocol.RankEntry {
	ents := make([]*Entity, 0, len(r.players)+len(r.bots))
	ents = append(ents, r.players...)
	ents = append(ents, r.bots...)
	sort.SliceStable(ents, func(i, j int) bool { return ents[i].Score > ents[j].Score })

	ranks := make([]protocol.RankEntry, 0, len(ents))
	for i, e := range ents {
		ranks = append(ranks, protocol.RankEntry{
			Place:  i + 1,
			ID:     e.ID,
			Name:   e.Name,
			Origin: string(e.Origin),
			Score:  e.Score,
		})
	}
	return ranks
}

// resetPlayers returns every player to lobby defaults: primary world,
// random position, start size, zero score.
func (r *Room) resetPlayers() {
	w, h := r.cfg.bounds("")
	for _, p := range r.players {
		p.X = r.rng.Float64() * w
		p.Y = r.rng.Float64() * h
		p.Size = r.cfg.StartSize
		p.Score = 0
		p.Alive = true
		p.RespawnAt = time.Time{}
		p.Dimension = ""
		p.DimensionUntil = time.Time{}
		p.InvulnUntil = time.Time{}
		p.lastMoveAt = time.Time{}
	}
}

// spawnOrbs fills every dimension to its invariant orb population.
func (r *Room) spawnOrbs() {
	r.orbs = r.orbs[:0]
	for i := 0; i < r.cfg.orbTarget(""); i++ {
		r.orbs = append(r.orbs, r.newOrb(""))
	}
	for _, tag := range r.cfg.dimensionTags() {
		for i := 0; i < r.cfg.orbTarget(tag); i++ {
			r.orbs = append(r.orbs, r.newOrb(tag))
		}
	}
}

func (r *Room) newOrb(dimension string) *Orb {
	w, h := r.cfg.bounds(dimension)
	return &Orb{
		ID:        uuid.NewString(),
		X:         r.rng.Float64() * w,
		Y:         r.rng.Float64() * h,
		Size:      r.cfg.OrbSize,
		Dimension: dimension,
	}
}
