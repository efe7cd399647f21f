package arena

import (
	"encoding/json"

	"riftarena.io/internal/protocol"
)

func (r *Room) subscribe(id string, out chan []byte) {
	r.subs[id] = out
}

func (r *Room) unsubscribe(id string) {
	delete(r.subs, id)
}

// broadcast marshals once and fans out to every subscriber. Delivery
// is at-least-once with drop-under-backpressure; the periodic STATE
// and ORB_SYNC resyncs heal whatever a slow client missed.
func (r *Room) broadcast(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		r.log.Printf("room %s: marshal broadcast: %v", r.Code, err)
		return
	}
	for _, out := range r.subs {
		sendLatest(out, b)
	}
}

func (r *Room) sendTo(id string, v any) {
	out, ok := r.subs[id]
	if !ok {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	sendLatest(out, b)
}

func (r *Room) sendError(id, code, message string) {
	r.sendTo(id, protocol.ErrorMsg{
		Type:            protocol.TypeError,
		ProtocolVersion: protocol.Version,
		Code:            code,
		Message:         message,
	})
}

// sendLatest delivers without blocking the room goroutine: when the
// subscriber's queue is full, the oldest frame is dropped to make room.
func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}

func (r *Room) broadcastState() {
	ents := r.allEntities()
	msg := protocol.StateMsg{
		Type:            protocol.TypeState,
		ProtocolVersion: protocol.Version,
		Tick:            r.tick,
		Entities:        make([]protocol.EntitySnapshot, 0, len(ents)),
	}
	for _, e := range ents {
		msg.Entities = append(msg.Entities, e.snapshot())
	}
	r.broadcast(msg)
}

func (r *Room) broadcastOrbSync() {
	msg := protocol.OrbSyncMsg{
		Type:            protocol.TypeOrbSync,
		ProtocolVersion: protocol.Version,
		Tick:            r.tick,
		Orbs:            make([]protocol.OrbSnapshot, 0, len(r.orbs)),
	}
	for _, o := range r.orbs {
		msg.Orbs = append(msg.Orbs, o.snapshot())
	}
	r.broadcast(msg)
}

func (r *Room) memberList() []protocol.RoomMember {
	members := make([]protocol.RoomMember, 0, len(r.players))
	for _, p := range r.players {
		members = append(members, protocol.RoomMember{
			ID:   p.ID,
			Name: p.Name,
			Host: p.ID == r.hostID,
		})
	}
	return members
}
