package arena

import (
	"time"

	"riftarena.io/internal/protocol"
)

// Origin distinguishes how an entity is controlled. Resolver, decay and
// respawn logic treat both origins uniformly.
type Origin string

const (
	OriginHuman    Origin = "HUMAN"
	OriginComputer Origin = "COMPUTER"
)

// Entity is the shared physical state of a player or bot. For humans
// the ID is the connection identity; bots get generated ids.
type Entity struct {
	ID     string
	Name   string
	Origin Origin

	X    float64
	Y    float64
	Size float64

	Score int
	Alive bool

	// RespawnAt is zero while the entity is alive.
	RespawnAt time.Time

	// Dimension is "" in the primary world, otherwise a fixed tag.
	Dimension      string
	DimensionUntil time.Time
	InvulnUntil    time.Time

	// Computer-controlled steering. HomeDimension pins a bot to the
	// dimension it was populated into, across respawns.
	TargetX        float64
	TargetY        float64
	NextDecisionAt time.Time
	HomeDimension  string

	// Inbound movement throttle (humans only).
	lastMoveAt time.Time
}

func (e *Entity) invulnerable(now time.Time) bool {
	return now.Before(e.InvulnUntil)
}

func (e *Entity) snapshot() protocol.EntitySnapshot {
	return protocol.EntitySnapshot{
		ID:        e.ID,
		Name:      e.Name,
		Origin:    string(e.Origin),
		X:         e.X,
		Y:         e.Y,
		Size:      e.Size,
		Score:     e.Score,
		Alive:     e.Alive,
		Dimension: e.Dimension,
	}
}

// Orb is a collectible. The pool size per dimension never changes: a
// collected orb is replaced in the same tick it is removed.
type Orb struct {
	ID        string
	X         float64
	Y         float64
	Size      float64
	Dimension string
}

func (o *Orb) snapshot() protocol.OrbSnapshot {
	return protocol.OrbSnapshot{ID: o.ID, X: o.X, Y: o.Y, Size: o.Size, Dimension: o.Dimension}
}

// Rift is a fixed trigger zone in the primary world. Immutable for the
// room's lifetime.
type Rift struct {
	ID        string
	X         float64
	Y         float64
	Radius    float64
	Dimension string
}

func (r Rift) snapshot() protocol.RiftSnapshot {
	return protocol.RiftSnapshot{ID: r.ID, X: r.X, Y: r.Y, Radius: r.Radius, Dimension: r.Dimension}
}
