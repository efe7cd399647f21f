package arena

import (
	"time"

	"riftarena.io/internal/protocol"
)

// safeStep guards the tick boundary: a panicking tick is logged and
// skipped so one room's bad state never takes the scheduler down.
func (r *Room) safeStep(now time.Time) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Printf("room %s: tick %d panic: %v", r.Code, r.tick, rec)
		}
	}()
	r.step(now)
}

// step runs one simulation tick. Order matters: dimension timers fire
// before movement, absorption sees post-movement positions, decay runs
// last so the size floor is the final word.
func (r *Room) step(now time.Time) {
	if r.state != StatePlaying {
		return
	}
	dt := 1.0 / float64(r.cfg.TickRateHz)

	r.tickDimensions(now)
	r.stepBots(now, dt)
	for _, b := range r.bots {
		if b.Alive {
			r.resolvePickups(b)
		}
	}
	r.resolveAbsorptions(now)
	r.processRespawns(now)
	r.applyDecay(dt)

	if now.Sub(r.startedAt) >= r.cfg.MatchDuration {
		r.endGame(now)
		return
	}

	r.tick++
	r.broadcastState()
	if r.cfg.OrbResyncEveryTicks > 0 && r.tick%uint64(r.cfg.OrbResyncEveryTicks) == 0 {
		r.broadcastOrbSync()
	}
}

// processRespawns revives entities whose delay has elapsed. Bots come
// back inside their home dimension to preserve per-dimension
// population balance; players return to the primary world.
func (r *Room) processRespawns(now time.Time) {
	for _, e := range r.allEntities() {
		if e.Alive || e.RespawnAt.IsZero() || now.Before(e.RespawnAt) {
			continue
		}
		dim := ""
		if e.Origin == OriginComputer {
			dim = e.HomeDimension
		}
		w, h := r.cfg.bounds(dim)
		e.Dimension = dim
		e.DimensionUntil = time.Time{}
		e.X = r.rng.Float64() * w
		e.Y = r.rng.Float64() * h
		e.Size = r.cfg.StartSize
		e.Alive = true
		e.RespawnAt = time.Time{}
		e.InvulnUntil = now.Add(r.cfg.InvulnWindow)
		if e.Origin == OriginComputer {
			e.NextDecisionAt = time.Time{}
		}

		r.broadcast(protocol.PlayerRespawnedMsg{
			Type:            protocol.TypePlayerRespawned,
			ProtocolVersion: protocol.Version,
			EntityID:        e.ID,
			X:               e.X,
			Y:               e.Y,
			Size:            e.Size,
			Dimension:       e.Dimension,
		})
	}
}

// applyDecay shrinks every alive entity toward the size floor. The
// rate is proportional to the excess above the floor and scaled by dt,
// so wall-clock decay speed is independent of the tick rate.
func (r *Room) applyDecay(dt float64) {
	for _, e := range r.allEntities() {
		if !e.Alive || e.Size <= r.cfg.SizeFloor {
			continue
		}
		e.Size -= r.cfg.DecayPerSec * (e.Size - r.cfg.SizeFloor) * dt
		if e.Size < r.cfg.SizeFloor {
			e.Size = r.cfg.SizeFloor
		}
	}
}

func (r *Room) allEntities() []*Entity {
	ents := make([]*Entity, 0, len(r.players)+len(r.bots))
	ents = append(ents, r.players...)
	ents = append(ents, r.bots...)
	return ents
}
