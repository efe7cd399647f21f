package arena

import (
	"fmt"
	"math"
	"time"
)

// spawnBots populates the primary world and every dimension with its
// configured bot count. A bot's home dimension never changes.
func (r *Room) spawnBots() {
	r.bots = r.bots[:0]
	n := 0
	add := func(dimension string, count int) {
		w, h := r.cfg.bounds(dimension)
		for i := 0; i < count; i++ {
			n++
			r.bots = append(r.bots, &Entity{
				ID:            fmt.Sprintf("bot-%d", n),
				Name:          fmt.Sprintf("Drone %d", n),
				Origin:        OriginComputer,
				X:             r.rng.Float64() * w,
				Y:             r.rng.Float64() * h,
				Size:          r.cfg.StartSize,
				Alive:         true,
				Dimension:     dimension,
				HomeDimension: dimension,
			})
		}
	}
	add("", r.cfg.BotCount)
	for _, tag := range r.cfg.dimensionTags() {
		add(tag, r.cfg.Dimensions[tag].Bots)
	}
}

// stepBots re-targets bots whose decision timer elapsed and advances
// every alive bot toward its target.
func (r *Room) stepBots(now time.Time, dt float64) {
	for _, b := range r.bots {
		if !b.Alive {
			continue
		}
		if now.After(b.NextDecisionAt) {
			r.decideBot(b, now)
		}
		r.moveBot(b, dt)
	}
}

// decideBot picks a new target: usually the nearest orb in the bot's
// own dimension, otherwise a random point in bounds. Decisions are
// re-evaluated on a randomized 1-3s interval rather than every tick.
func (r *Room) decideBot(b *Entity, now time.Time) {
	w, h := r.cfg.bounds(b.Dimension)
	if r.rng.Float64() < r.cfg.BotSeekProb {
		if o := r.nearestOrb(b); o != nil {
			b.TargetX, b.TargetY = o.X, o.Y
		} else {
			b.TargetX, b.TargetY = r.rng.Float64()*w, r.rng.Float64()*h
		}
	} else {
		b.TargetX, b.TargetY = r.rng.Float64()*w, r.rng.Float64()*h
	}
	spread := r.cfg.BotDecideMax - r.cfg.BotDecideMin
	wait := r.cfg.BotDecideMin
	if spread > 0 {
		wait += time.Duration(r.rng.Int63n(int64(spread)))
	}
	b.NextDecisionAt = now.Add(wait)
}

func (r *Room) moveBot(b *Entity, dt float64) {
	dx, dy := b.TargetX-b.X, b.TargetY-b.Y
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		return
	}
	step := r.speed(b.Size) * r.cfg.speedMult(b.Dimension) * dt
	if step > dist {
		step = dist
	}
	b.X += dx / dist * step
	b.Y += dy / dist * step

	w, h := r.cfg.bounds(b.Dimension)
	b.X = clamp(b.X, 0, w)
	b.Y = clamp(b.Y, 0, h)
}

func (r *Room) nearestOrb(b *Entity) *Orb {
	var best *Orb
	bestDist := math.MaxFloat64
	for _, o := range r.orbs {
		if o.Dimension != b.Dimension {
			continue
		}
		d := math.Hypot(b.X-o.X, b.Y-o.Y)
		if d < bestDist {
			best, bestDist = o, d
		}
	}
	return best
}

// speed shrinks as size grows: larger entities are slower, floored at
// a minimum so nobody stalls completely.
func (r *Room) speed(size float64) float64 {
	s := r.cfg.SpeedBase * (r.cfg.StartSize / size)
	if s < r.cfg.SpeedFloor {
		return r.cfg.SpeedFloor
	}
	if s > r.cfg.SpeedBase {
		return r.cfg.SpeedBase
	}
	return s
}
