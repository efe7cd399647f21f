package protocol

import "encoding/json"

const Version = "1.0"

// Inbound message types (client -> server).
const (
	TypeCreateRoom = "CREATE_ROOM"
	TypeQuickMatch = "QUICK_MATCH"
	TypeJoinRoom   = "JOIN_ROOM"
	TypeLeaveRoom  = "LEAVE_ROOM"
	TypeStartGame  = "START_GAME"
	TypeMove       = "MOVE"
	TypeNewGame    = "NEW_GAME"
)

// Outbound message types (server -> client).
const (
	TypeError           = "ERROR"
	TypeRoomCreated     = "ROOM_CREATED"
	TypeRoomJoined      = "ROOM_JOINED"
	TypePlayerJoined    = "PLAYER_JOINED"
	TypePlayerLeft      = "PLAYER_LEFT"
	TypeGameStarted     = "GAME_STARTED"
	TypeState           = "STATE"
	TypeOrbSync         = "ORB_SYNC"
	TypeOrbCollected    = "ORB_COLLECTED"
	TypePlayerAbsorbed  = "PLAYER_ABSORBED"
	TypeRiftEntered     = "RIFT_ENTERED"
	TypeRiftExited      = "RIFT_EXITED"
	TypePlayerRespawned = "PLAYER_RESPAWNED"
	TypeGameEnded       = "GAME_ENDED"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
