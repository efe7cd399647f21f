package arena

import (
	"testing"
	"time"
)

func TestRiftPlacement(t *testing.T) {
	cfg := testConfig()
	r := newTestRoom(t, cfg, nil)

	tags := cfg.dimensionTags()
	if len(r.rifts) != len(tags) {
		t.Fatalf("%d rifts for %d dimensions", len(r.rifts), len(tags))
	}
	for i, tag := range tags {
		d := cfg.Dimensions[tag]
		rf := r.rifts[i]
		if rf.Dimension != tag {
			t.Fatalf("rift %d targets %q, want %q", i, rf.Dimension, tag)
		}
		if rf.X != d.RiftX*cfg.WorldWidth || rf.Y != d.RiftY*cfg.WorldHeight {
			t.Fatalf("rift %d at (%v, %v)", i, rf.X, rf.Y)
		}
		if rf.Radius != cfg.RiftRadius {
			t.Fatalf("rift %d radius %v", i, rf.Radius)
		}
	}
}

func TestRiftEntryMovesToDimensionCenter(t *testing.T) {
	r := playingRoom(t, testConfig())
	now := time.Now()

	rf := r.rifts[0]
	p := addEntity(r, "p", 20, rf.X, rf.Y)

	r.tickDimensions(now)

	d := r.cfg.Dimensions[rf.Dimension]
	if p.Dimension != rf.Dimension {
		t.Fatalf("player in %q, want %q", p.Dimension, rf.Dimension)
	}
	if p.X != d.Width/2 || p.Y != d.Height/2 {
		t.Fatalf("player at (%v, %v), want dimension center", p.X, p.Y)
	}
	if !p.DimensionUntil.Equal(now.Add(d.Countdown)) {
		t.Fatalf("countdown expires at %v", p.DimensionUntil)
	}
	if !p.invulnerable(now) {
		t.Fatal("entry grants no invulnerability")
	}
}

func TestRiftEntryIdempotentWhileInside(t *testing.T) {
	r := playingRoom(t, testConfig())
	now := time.Now()

	rf := r.rifts[0]
	p := addEntity(r, "p", 20, rf.X, rf.Y)
	r.tickDimensions(now)

	// Move off center; a later tick before expiry must not re-trigger.
	p.X += 30
	until := p.DimensionUntil
	r.tickDimensions(now.Add(time.Second))
	if p.X != r.cfg.Dimensions[rf.Dimension].Width/2+30 {
		t.Fatal("player repositioned while already inside")
	}
	if !p.DimensionUntil.Equal(until) {
		t.Fatal("countdown restarted while already inside")
	}
}

func TestRiftTriggerScalesWithSize(t *testing.T) {
	r := playingRoom(t, testConfig())
	now := time.Now()

	rf := r.rifts[0]
	reach := rf.Radius + 20 + r.cfg.RiftTolerance

	outside := addEntity(r, "out", 20, rf.X+reach+1, rf.Y)
	r.tickDimensions(now)
	if outside.Dimension != "" {
		t.Fatal("triggered outside the zone")
	}

	outside.X = rf.X + reach - 1
	r.tickDimensions(now)
	if outside.Dimension != rf.Dimension {
		t.Fatal("not triggered inside the zone")
	}
}

func TestForcedExitClearsInvulnerability(t *testing.T) {
	r := playingRoom(t, testConfig())
	now := time.Now()

	p := addEntity(r, "p", 20, 100, 100)
	p.Dimension = "void"
	p.DimensionUntil = now.Add(-time.Millisecond)
	p.InvulnUntil = now.Add(time.Hour)

	r.tickDimensions(now)

	if p.Dimension != "" {
		t.Fatalf("still in %q after expiry", p.Dimension)
	}
	if !p.DimensionUntil.IsZero() {
		t.Fatal("countdown not cleared")
	}
	if p.invulnerable(now) {
		t.Fatal("invulnerability survived the exit")
	}
	if p.X < 0 || p.X > r.cfg.WorldWidth || p.Y < 0 || p.Y > r.cfg.WorldHeight {
		t.Fatalf("exit position (%v, %v) out of bounds", p.X, p.Y)
	}
}

func TestDimensionTimerNotExpiredYet(t *testing.T) {
	r := playingRoom(t, testConfig())
	now := time.Now()

	p := addEntity(r, "p", 20, 100, 100)
	p.Dimension = "void"
	p.DimensionUntil = now.Add(time.Second)

	r.tickDimensions(now)
	if p.Dimension != "void" {
		t.Fatal("ejected before the countdown expired")
	}
}

func TestDeadPlayersIgnoreRifts(t *testing.T) {
	r := playingRoom(t, testConfig())
	rf := r.rifts[0]
	p := addEntity(r, "p", 20, rf.X, rf.Y)
	p.Alive = false

	r.tickDimensions(time.Now())
	if p.Dimension != "" {
		t.Fatal("dead player entered a rift")
	}
}
