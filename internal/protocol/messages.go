package protocol

// CREATE_ROOM (client -> server)
type CreateRoomMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Name            string `json:"name"`
}

// QUICK_MATCH (client -> server)
type QuickMatchMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Name            string `json:"name"`
}

// JOIN_ROOM (client -> server)
type JoinRoomMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Name            string `json:"name"`
	Code            string `json:"code"`
}

// LEAVE_ROOM (client -> server)
type LeaveRoomMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

// START_GAME (client -> server): host-only.
type StartGameMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

// MOVE (client -> server): absolute target position in the sender's
// current dimension. Throttled server-side; invalid moves are dropped
// silently rather than answered.
type MoveMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
}

// NEW_GAME (client -> server): host-only lobby reset.
type NewGameMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}
