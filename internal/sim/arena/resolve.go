package arena

import (
	"math"
	"time"

	"riftarena.io/internal/protocol"
)

// resolvePickups collects every orb within reach of e, in e's own
// dimension. Each collected orb is replaced immediately so the
// per-dimension pool size is invariant.
func (r *Room) resolvePickups(e *Entity) {
	for i, o := range r.orbs {
		if o.Dimension != e.Dimension {
			continue
		}
		// Slack tolerates stale positions from network latency.
		if math.Hypot(e.X-o.X, e.Y-o.Y) >= e.Size+o.Size+r.cfg.PickupSlack {
			continue
		}

		e.Size += r.cfg.OrbGrowth
		e.Score += int(float64(r.cfg.OrbScore) * r.cfg.orbValueMult(e.Dimension))

		replacement := r.newOrb(o.Dimension)
		r.orbs[i] = replacement

		r.broadcast(protocol.OrbCollectedMsg{
			Type:            protocol.TypeOrbCollected,
			ProtocolVersion: protocol.Version,
			EntityID:        e.ID,
			OrbID:           o.ID,
			NewOrb:          replacement.snapshot(),
			Size:            e.Size,
			Score:           e.Score,
		})
	}
}

// resolveAbsorptions runs the full pairwise check over alive entities
// sharing a dimension. At most one absorption fires per pair per tick,
// and an entity killed mid-scan is excluded from later pairs.
func (r *Room) resolveAbsorptions(now time.Time) {
	ents := r.allEntities()
	for i := 0; i < len(ents); i++ {
		for j := i + 1; j < len(ents); j++ {
			a, b := ents[i], ents[j]
			if !a.Alive || !b.Alive || a.Dimension != b.Dimension {
				continue
			}

			larger, smaller := a, b
			if b.Size > a.Size {
				larger, smaller = b, a
			}
			// Ties never absorb: the larger side must exceed the
			// smaller by the configured ratio.
			if larger.Size <= smaller.Size*r.cfg.AbsorbRatio {
				continue
			}
			if math.Hypot(a.X-b.X, a.Y-b.Y) >= larger.Size*r.cfg.AbsorbRangeFactor {
				continue
			}
			// Invulnerability protects only the would-be victim; an
			// invulnerable entity may still consume others.
			if smaller.invulnerable(now) {
				continue
			}

			r.absorb(larger, smaller, now)
		}
	}
}

func (r *Room) absorb(absorber, victim *Entity, now time.Time) {
	victim.Alive = false
	victim.RespawnAt = now.Add(r.cfg.RespawnDelay)

	gained := int(float64(r.cfg.AbsorbScoreBase) * (victim.Size / absorber.Size))
	absorber.Size += r.cfg.AbsorbGrowthFactor * victim.Size
	absorber.Score += gained

	r.broadcast(protocol.PlayerAbsorbedMsg{
		Type:            protocol.TypePlayerAbsorbed,
		ProtocolVersion: protocol.Version,
		AbsorberID:      absorber.ID,
		AbsorbedID:      victim.ID,
		AbsorberSize:    absorber.Size,
		AbsorberScore:   absorber.Score,
		RespawnMs:       r.cfg.RespawnDelay.Milliseconds(),
	})
}
