package arena

import (
	"math"
	"time"

	"riftarena.io/internal/protocol"
)

const errRoomGone = protocol.ErrRoomNotFound

func (r *Room) handleJoin(id, name string, out chan []byte) JoinResult {
	if r.state != StateWaiting {
		return JoinResult{ErrCode: protocol.ErrRoomInProgress}
	}
	if len(r.players) >= r.cfg.RoomCapacity {
		return JoinResult{ErrCode: protocol.ErrRoomFull}
	}

	if len(name) > r.cfg.MaxNameLen {
		name = name[:r.cfg.MaxNameLen]
	}
	w, h := r.cfg.bounds("")
	p := &Entity{
		ID:     id,
		Name:   name,
		Origin: OriginHuman,
		X:      r.rng.Float64() * w,
		Y:      r.rng.Float64() * h,
		Size:   r.cfg.StartSize,
		Alive:  true,
	}
	r.players = append(r.players, p)
	if r.hostID == "" {
		r.hostID = id
	}
	r.members.Store(int32(len(r.players)))

	r.broadcast(protocol.PlayerJoinedMsg{
		Type:            protocol.TypePlayerJoined,
		ProtocolVersion: protocol.Version,
		Player:          protocol.RoomMember{ID: id, Name: name, Host: id == r.hostID},
	})
	r.subscribe(id, out)

	return JoinResult{HostID: r.hostID, Members: r.memberList()}
}

func (r *Room) handleLeave(id string) LeaveResult {
	idx := -1
	for i, p := range r.players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return LeaveResult{}
	}

	r.players = append(r.players[:idx], r.players[idx+1:]...)
	r.unsubscribe(id)
	r.members.Store(int32(len(r.players)))

	res := LeaveResult{Removed: true}
	if len(r.players) == 0 {
		res.Empty = true
		return res
	}

	if r.hostID == id {
		r.hostID = r.players[0].ID
		res.NewHost = r.hostID
	}
	r.broadcast(protocol.PlayerLeftMsg{
		Type:            protocol.TypePlayerLeft,
		ProtocolVersion: protocol.Version,
		PlayerID:        id,
		NewHostID:       res.NewHost,
	})
	return res
}

func (r *Room) handleStart(id string, now time.Time) {
	if r.state != StateWaiting {
		return
	}
	if id != r.hostID {
		r.sendError(id, protocol.ErrNotHost, "only the host can start the game")
		return
	}
	if len(r.players) < r.cfg.MinPlayers {
		r.sendError(id, protocol.ErrTooFewPlayers, "not enough players to start")
		return
	}
	r.startGame(now)
}

func (r *Room) handleMove(id string, x, y float64, now time.Time) {
	if r.state != StatePlaying {
		return
	}
	p := r.playerByID(id)
	if p == nil || !p.Alive {
		return
	}
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return
	}
	// Throttle: silently drop moves arriving faster than the minimum
	// interval so flooding earns nothing, not even an error.
	if !p.lastMoveAt.IsZero() && now.Sub(p.lastMoveAt) < r.cfg.MoveMinInterval {
		return
	}
	p.lastMoveAt = now

	w, h := r.cfg.bounds(p.Dimension)
	p.X = clamp(x, 0, w)
	p.Y = clamp(y, 0, h)

	// Immediate pickup check for low perceived latency. Absorption
	// stays tick-authoritative.
	r.resolvePickups(p)
}

func (r *Room) handleNewGame(id string) {
	if r.state != StateWaiting || id != r.hostID {
		return
	}
	r.resetPlayers()
	r.broadcastState()
}

func (r *Room) playerByID(id string) *Entity {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
