package arena

import (
	"fmt"
	"math"
	"time"

	"riftarena.io/internal/protocol"
)

// placeRifts fixes one rift per dimension tag at its configured
// relative position in the primary world. Rifts never move or expire.
func (r *Room) placeRifts() {
	tags := r.cfg.dimensionTags()
	r.rifts = make([]Rift, 0, len(tags))
	for i, tag := range tags {
		d := r.cfg.Dimensions[tag]
		r.rifts = append(r.rifts, Rift{
			ID:        fmt.Sprintf("rift-%d", i+1),
			X:         d.RiftX * r.cfg.WorldWidth,
			Y:         d.RiftY * r.cfg.WorldHeight,
			Radius:    r.cfg.RiftRadius,
			Dimension: tag,
		})
	}
}

// tickDimensions advances dimension timers and rift transitions for
// every alive player. Bots never use rifts; their dimension is fixed.
func (r *Room) tickDimensions(now time.Time) {
	for _, p := range r.players {
		if !p.Alive {
			continue
		}
		if p.Dimension == "" {
			r.checkRiftEntry(p, now)
			continue
		}
		if !p.DimensionUntil.IsZero() && !now.Before(p.DimensionUntil) {
			r.exitDimension(p)
		}
	}
}

// checkRiftEntry moves a primary-world player into a dimension when
// they overlap a rift's trigger zone. The trigger scales with the
// player's size plus a fixed tolerance for stale client positions.
func (r *Room) checkRiftEntry(p *Entity, now time.Time) {
	for _, rf := range r.rifts {
		if math.Hypot(p.X-rf.X, p.Y-rf.Y) >= rf.Radius+p.Size+r.cfg.RiftTolerance {
			continue
		}
		r.enterDimension(p, rf.Dimension, now)
		return
	}
}

func (r *Room) enterDimension(p *Entity, tag string, now time.Time) {
	d, ok := r.cfg.Dimensions[tag]
	if !ok {
		return
	}
	p.Dimension = tag
	p.X = d.Width / 2
	p.Y = d.Height / 2
	p.DimensionUntil = now.Add(d.Countdown)
	p.InvulnUntil = now.Add(r.cfg.InvulnWindow)

	r.broadcast(protocol.RiftEnteredMsg{
		Type:            protocol.TypeRiftEntered,
		ProtocolVersion: protocol.Version,
		EntityID:        p.ID,
		Dimension:       tag,
		X:               p.X,
		Y:               p.Y,
		ExpiresMs:       d.Countdown.Milliseconds(),
	})
}

// exitDimension returns a player to the primary world at a random
// position. Invulnerability clears immediately: there is no grace
// period on the way out.
func (r *Room) exitDimension(p *Entity) {
	p.Dimension = ""
	p.DimensionUntil = time.Time{}
	p.InvulnUntil = time.Time{}
	p.X = r.rng.Float64() * r.cfg.WorldWidth
	p.Y = r.rng.Float64() * r.cfg.WorldHeight

	r.broadcast(protocol.RiftExitedMsg{
		Type:            protocol.TypeRiftExited,
		ProtocolVersion: protocol.Version,
		EntityID:        p.ID,
		X:               p.X,
		Y:               p.Y,
	})
}
