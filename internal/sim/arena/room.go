package arena

import (
	"log"
	"math/rand"
	"sync/atomic"
	"time"

	"riftarena.io/internal/protocol"
)

// Lifecycle states. "ended" is transient: endGame folds the room back
// to waiting within the same tick, so it is never observable here.
type State string

const (
	StateWaiting State = "waiting"
	StatePlaying State = "playing"
)

// Room is a single-owner simulation instance. All room state is
// mutated only on the room goroutine; callers reach it through the
// command inbox, never through shared memory.
type Room struct {
	cfg  Config
	log  *log.Logger
	sink MatchSink

	Code string

	state     State
	hostID    string
	players   []*Entity
	bots      []*Entity
	orbs      []*Orb
	rifts     []Rift
	startedAt time.Time
	tick      uint64

	rng  *rand.Rand
	subs map[string]chan []byte

	ticker *time.Ticker

	inbox chan any
	quit  chan struct{}
	done  chan struct{}

	members atomic.Int32
	playing atomic.Bool
}

type joinCmd struct {
	id   string
	name string
	out  chan []byte
	resp chan JoinResult
}

type leaveCmd struct {
	id   string
	resp chan LeaveResult
}

type startCmd struct{ id string }

type moveCmd struct {
	id   string
	x, y float64
	at   time.Time
}

type newGameCmd struct{ id string }

// JoinResult reports the outcome of a join attempt. ErrCode is empty
// on success and a protocol error code otherwise.
type JoinResult struct {
	ErrCode string
	HostID  string
	Members []protocol.RoomMember
}

// LeaveResult tells the directory what the departure did to the room.
type LeaveResult struct {
	Removed bool
	Empty   bool
	NewHost string
}

func newRoom(code string, cfg Config, sink MatchSink, logger *log.Logger) *Room {
	r := &Room{
		cfg:   cfg,
		log:   logger,
		sink:  sink,
		Code:  code,
		state: StateWaiting,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		subs:  make(map[string]chan []byte),
		inbox: make(chan any, 256),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	r.placeRifts()
	return r
}

// Run is the room's single thread of execution. The tick channel is
// nil while the room is waiting, so the select simply never fires it.
func (r *Room) Run() {
	defer close(r.done)
	defer func() {
		if r.ticker != nil {
			r.ticker.Stop()
		}
	}()
	for {
		var tickC <-chan time.Time
		if r.ticker != nil {
			tickC = r.ticker.C
		}
		select {
		case <-r.quit:
			return
		case cmd := <-r.inbox:
			r.dispatch(cmd)
		case now := <-tickC:
			r.safeStep(now)
		}
	}
}

// Stop cancels the room's tick timer and terminates its goroutine. The
// directory calls it only after the room is out of the lookup maps.
func (r *Room) Stop() {
	select {
	case <-r.quit:
	default:
		close(r.quit)
	}
}

// Done is closed when the room goroutine has exited.
func (r *Room) Done() <-chan struct{} { return r.done }

// Members is the connection count, readable without entering the room
// goroutine (quick-match scans and metrics).
func (r *Room) Members() int { return int(r.members.Load()) }

// State is a coarse mirror of the lifecycle state for quick-match
// scans and metrics; the authoritative value lives on the room
// goroutine.
func (r *Room) State() State {
	if r.playing.Load() {
		return StatePlaying
	}
	return StateWaiting
}

func (r *Room) dispatch(cmd any) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Printf("room %s: command panic: %v", r.Code, rec)
		}
	}()
	now := time.Now()
	switch c := cmd.(type) {
	case joinCmd:
		c.resp <- r.handleJoin(c.id, c.name, c.out)
	case leaveCmd:
		c.resp <- r.handleLeave(c.id)
	case startCmd:
		r.handleStart(c.id, now)
	case moveCmd:
		r.handleMove(c.id, c.x, c.y, c.at)
	case newGameCmd:
		r.handleNewGame(c.id)
	}
}

func (r *Room) send(cmd any) bool {
	select {
	case r.inbox <- cmd:
		return true
	case <-r.done:
		return false
	}
}

// Join adds a connection to the room and subscribes its out channel.
func (r *Room) Join(id, name string, out chan []byte) JoinResult {
	resp := make(chan JoinResult, 1)
	if !r.send(joinCmd{id: id, name: name, out: out, resp: resp}) {
		return JoinResult{ErrCode: errRoomGone}
	}
	select {
	case res := <-resp:
		return res
	case <-r.done:
		return JoinResult{ErrCode: errRoomGone}
	}
}

// Leave removes a connection. Safe to call for ids not in the room.
func (r *Room) Leave(id string) LeaveResult {
	resp := make(chan LeaveResult, 1)
	if !r.send(leaveCmd{id: id, resp: resp}) {
		return LeaveResult{}
	}
	select {
	case res := <-resp:
		return res
	case <-r.done:
		return LeaveResult{}
	}
}

// Start begins the match if the caller is the host and enough players
// are present. Failures are reported to the caller's subscription.
func (r *Room) Start(id string) { r.send(startCmd{id: id}) }

// Move applies a movement message. Invalid or throttled moves are
// dropped without feedback.
func (r *Room) Move(id string, x, y float64) {
	r.send(moveCmd{id: id, x: x, y: y, at: time.Now()})
}

// RequestNewGame resets a waiting room's players (host only).
func (r *Room) RequestNewGame(id string) { r.send(newGameCmd{id: id}) }
