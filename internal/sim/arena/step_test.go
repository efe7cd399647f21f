package arena

import (
	"encoding/json"
	"testing"
	"time"

	"riftarena.io/internal/protocol"
)

func TestDecayShrinksTowardFloor(t *testing.T) {
	r := playingRoom(t, testConfig())
	e := addEntity(r, "a", 30, 100, 100)

	dt := 1.0 / float64(r.cfg.TickRateHz)
	want := 30 - r.cfg.DecayPerSec*(30-r.cfg.SizeFloor)*dt
	r.applyDecay(dt)
	if e.Size != want {
		t.Fatalf("size %v, want %v", e.Size, want)
	}
}

func TestDecayNeverCrossesFloor(t *testing.T) {
	r := playingRoom(t, testConfig())
	near := addEntity(r, "near", r.cfg.SizeFloor+0.001, 100, 100)
	at := addEntity(r, "at", r.cfg.SizeFloor, 200, 200)

	// A huge dt would overshoot the floor without the clamp.
	r.applyDecay(1e6)
	if near.Size != r.cfg.SizeFloor {
		t.Fatalf("near-floor size %v, want %v", near.Size, r.cfg.SizeFloor)
	}
	if at.Size != r.cfg.SizeFloor {
		t.Fatalf("at-floor size %v, want %v", at.Size, r.cfg.SizeFloor)
	}
}

func TestDecaySkipsDead(t *testing.T) {
	r := playingRoom(t, testConfig())
	e := addEntity(r, "a", 30, 100, 100)
	e.Alive = false

	r.applyDecay(1)
	if e.Size != 30 {
		t.Fatal("decay applied to a dead entity")
	}
}

func TestRespawnWaitsForDelay(t *testing.T) {
	r := playingRoom(t, testConfig())
	now := time.Now()
	e := addEntity(r, "a", 30, 100, 100)
	e.Alive = false
	e.RespawnAt = now.Add(time.Second)

	r.processRespawns(now)
	if e.Alive {
		t.Fatal("respawned before the delay elapsed")
	}
}

func TestPlayerRespawnsInPrimaryWorld(t *testing.T) {
	r := playingRoom(t, testConfig())
	now := time.Now()
	e := addEntity(r, "a", 60, 100, 100)
	e.Alive = false
	e.Dimension = "void"
	e.RespawnAt = now.Add(-time.Millisecond)

	r.processRespawns(now)
	if !e.Alive {
		t.Fatal("not respawned")
	}
	if e.Dimension != "" {
		t.Fatalf("respawned in dimension %q", e.Dimension)
	}
	if e.Size != r.cfg.StartSize {
		t.Fatalf("respawn size %v", e.Size)
	}
	if e.X < 0 || e.X > r.cfg.WorldWidth || e.Y < 0 || e.Y > r.cfg.WorldHeight {
		t.Fatalf("respawn position (%v, %v) out of bounds", e.X, e.Y)
	}
	if !e.RespawnAt.IsZero() {
		t.Fatal("respawn timestamp not cleared")
	}
	if !e.invulnerable(now) {
		t.Fatal("respawn grants no invulnerability window")
	}
}

func TestBotRespawnsInHomeDimension(t *testing.T) {
	r := playingRoom(t, testConfig())
	now := time.Now()
	b := &Entity{
		ID:            "bot-1",
		Origin:        OriginComputer,
		Size:          40,
		HomeDimension: "void",
		Dimension:     "void",
		RespawnAt:     now.Add(-time.Millisecond),
	}
	r.bots = append(r.bots, b)

	r.processRespawns(now)
	if !b.Alive || b.Dimension != "void" {
		t.Fatalf("bot respawn: alive=%v dimension=%q", b.Alive, b.Dimension)
	}
	d := r.cfg.Dimensions["void"]
	if b.X < 0 || b.X > d.Width || b.Y < 0 || b.Y > d.Height {
		t.Fatalf("bot respawn position (%v, %v) out of void bounds", b.X, b.Y)
	}
	if !b.NextDecisionAt.IsZero() {
		t.Fatal("bot decision timer not reset")
	}
}

func TestStepNoOpWhileWaiting(t *testing.T) {
	r := newTestRoom(t, testConfig(), nil)
	joinTestPlayer(t, r, "a")

	r.step(time.Now())
	if r.tick != 0 {
		t.Fatal("tick advanced in a waiting room")
	}
}

func TestStepBroadcastsState(t *testing.T) {
	r := newTestRoom(t, testConfig(), nil)
	outA := joinTestPlayer(t, r, "a")
	joinTestPlayer(t, r, "b")
	base := time.Now()
	r.handleStart("a", base)
	drainFor(t, outA, protocol.TypeState)

	r.step(base.Add(50 * time.Millisecond))
	if r.tick != 1 {
		t.Fatalf("tick = %d after one step", r.tick)
	}

	b := drainFor(t, outA, protocol.TypeState)
	if b == nil {
		t.Fatal("no STATE broadcast after tick")
	}
	var msg protocol.StateMsg
	if err := json.Unmarshal(b, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Tick != 1 {
		t.Fatalf("STATE tick %d, want 1", msg.Tick)
	}
	if len(msg.Entities) != 2+len(r.bots) {
		t.Fatalf("STATE carries %d entities, want %d", len(msg.Entities), 2+len(r.bots))
	}
}

func TestOrbResyncCadence(t *testing.T) {
	cfg := testConfig()
	cfg.OrbResyncEveryTicks = 2
	r := newTestRoom(t, cfg, nil)
	outA := joinTestPlayer(t, r, "a")
	joinTestPlayer(t, r, "b")
	base := time.Now()
	r.handleStart("a", base)
	drainFor(t, outA, protocol.TypeOrbSync)

	r.step(base.Add(50 * time.Millisecond))
	if b := drainFor(t, outA, protocol.TypeOrbSync); b != nil {
		t.Fatal("ORB_SYNC on an off-cadence tick")
	}
	r.step(base.Add(100 * time.Millisecond))
	b := drainFor(t, outA, protocol.TypeOrbSync)
	if b == nil {
		t.Fatal("no ORB_SYNC on the cadence tick")
	}
	var msg protocol.OrbSyncMsg
	if err := json.Unmarshal(b, &msg); err != nil {
		t.Fatal(err)
	}
	if len(msg.Orbs) != len(r.orbs) {
		t.Fatalf("ORB_SYNC carries %d orbs, want %d", len(msg.Orbs), len(r.orbs))
	}
}

func TestMatchEndsAfterDuration(t *testing.T) {
	sink := &recordSink{}
	r := newTestRoom(t, testConfig(), sink)
	outA := joinTestPlayer(t, r, "a")
	joinTestPlayer(t, r, "b")
	base := time.Now()
	r.handleStart("a", base)

	r.playerByID("a").Score = 120
	r.playerByID("b").Score = 80

	r.step(base.Add(r.cfg.MatchDuration))

	if r.state != StateWaiting {
		t.Fatalf("state = %s after match end", r.state)
	}
	if r.ticker != nil {
		t.Fatal("tick timer still running")
	}
	if r.bots != nil || r.orbs != nil {
		t.Fatal("world not cleared")
	}
	for _, p := range r.players {
		if p.Score != 0 || p.Size != r.cfg.StartSize {
			t.Fatalf("player %s not reset", p.ID)
		}
	}

	b := drainFor(t, outA, protocol.TypeGameEnded)
	if b == nil {
		t.Fatal("no GAME_ENDED broadcast")
	}
	var msg protocol.GameEndedMsg
	if err := json.Unmarshal(b, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.DurationMs != r.cfg.MatchDuration.Milliseconds() {
		t.Fatalf("duration %d ms", msg.DurationMs)
	}
	if len(msg.Rankings) == 0 || msg.Rankings[0].ID != "a" {
		t.Fatalf("rankings do not lead with the top scorer: %+v", msg.Rankings)
	}
	for i := 1; i < len(msg.Rankings); i++ {
		if msg.Rankings[i].Score > msg.Rankings[i-1].Score {
			t.Fatal("rankings not sorted by score")
		}
		if msg.Rankings[i].Place != i+1 {
			t.Fatalf("rank %d has place %d", i, msg.Rankings[i].Place)
		}
	}

	recorded := sink.recorded()
	if len(recorded) != 1 {
		t.Fatalf("sink recorded %d matches", len(recorded))
	}
	if recorded[0].Code != r.Code || recorded[0].DurationMs != msg.DurationMs {
		t.Fatalf("bad match summary: %+v", recorded[0])
	}
}

func TestMatchContinuesBeforeDuration(t *testing.T) {
	r := newTestRoom(t, testConfig(), nil)
	joinTestPlayer(t, r, "a")
	joinTestPlayer(t, r, "b")
	base := time.Now()
	r.handleStart("a", base)

	r.step(base.Add(r.cfg.MatchDuration - time.Second))
	if r.state != StatePlaying {
		t.Fatal("match ended early")
	}
}
