package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Lobby/room state.
	ErrBadName        = "E_BAD_NAME"
	ErrRoomNotFound   = "E_ROOM_NOT_FOUND"
	ErrRoomFull       = "E_ROOM_FULL"
	ErrRoomInProgress = "E_ROOM_IN_PROGRESS"
	ErrAlreadyInRoom  = "E_ALREADY_IN_ROOM"
	ErrNotInRoom      = "E_NOT_IN_ROOM"

	// Authorization.
	ErrNotHost       = "E_NOT_HOST"
	ErrTooFewPlayers = "E_TOO_FEW_PLAYERS"

	ErrInternal = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrBadName:         {},
	ErrRoomNotFound:    {},
	ErrRoomFull:        {},
	ErrRoomInProgress:  {},
	ErrAlreadyInRoom:   {},
	ErrNotInRoom:       {},
	ErrNotHost:         {},
	ErrTooFewPlayers:   {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
