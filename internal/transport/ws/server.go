package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"riftarena.io/internal/protocol"
	"riftarena.io/internal/sim/arena"
)

const (
	readDeadline  = 60 * time.Second
	writeDeadline = 5 * time.Second
	outQueue      = 32
)

type Server struct {
	dir *arena.Directory
	log *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(dir *arena.Directory, logger *log.Logger) *Server {
	return &Server{
		dir: dir,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		connID := uuid.NewString()
		out := make(chan []byte, outQueue)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine: the only writer on this connection.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			s.handleMessage(connID, msg, out)
		}

		// Cleanup: detach from whatever room holds the connection.
		s.dir.RemoveConnection(connID)
	}
}

func (s *Server) handleMessage(connID string, msg []byte, out chan []byte) {
	base, err := protocol.DecodeBase(msg)
	if err != nil || !protocol.IsInboundType(base.Type) {
		sendError(out, protocol.ErrProtoBadRequest, "unrecognized message")
		return
	}
	if base.ProtocolVersion != protocol.Version {
		sendError(out, protocol.ErrProtoBadRequest, "bad protocol_version")
		return
	}
	if err := protocol.ValidateInbound(base.Type, msg); err != nil {
		// Movement is dropped silently; everything else gets feedback.
		if base.Type != protocol.TypeMove {
			sendError(out, protocol.ErrProtoBadRequest, "invalid message shape")
		}
		return
	}

	switch base.Type {
	case protocol.TypeCreateRoom:
		var m protocol.CreateRoomMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return
		}
		room, res, errCode := s.dir.CreateRoom(connID, m.Name, out)
		if errCode != "" {
			sendError(out, errCode, "")
			return
		}
		sendJSON(out, protocol.RoomCreatedMsg{
			Type:            protocol.TypeRoomCreated,
			ProtocolVersion: protocol.Version,
			Code:            room.Code,
			PlayerID:        connID,
			HostID:          res.HostID,
		})

	case protocol.TypeQuickMatch:
		var m protocol.QuickMatchMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return
		}
		room, res, errCode := s.dir.QuickMatch(connID, m.Name, out)
		if errCode != "" {
			sendError(out, errCode, "")
			return
		}
		sendJSON(out, joinedMsg(room, connID, res))

	case protocol.TypeJoinRoom:
		var m protocol.JoinRoomMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return
		}
		room, res, errCode := s.dir.JoinRoom(connID, m.Name, m.Code, out)
		if errCode != "" {
			sendError(out, errCode, "")
			return
		}
		sendJSON(out, joinedMsg(room, connID, res))

	case protocol.TypeLeaveRoom:
		// No-op when the connection is not in a room.
		s.dir.RemoveConnection(connID)

	case protocol.TypeStartGame:
		room := s.dir.RoomFor(connID)
		if room == nil {
			sendError(out, protocol.ErrNotInRoom, "")
			return
		}
		room.Start(connID)

	case protocol.TypeMove:
		var m protocol.MoveMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return
		}
		room := s.dir.RoomFor(connID)
		if room == nil {
			return // silent: movement never earns an error
		}
		room.Move(connID, m.X, m.Y)

	case protocol.TypeNewGame:
		room := s.dir.RoomFor(connID)
		if room == nil {
			sendError(out, protocol.ErrNotInRoom, "")
			return
		}
		room.RequestNewGame(connID)
	}
}

func joinedMsg(room *arena.Room, connID string, res arena.JoinResult) protocol.RoomJoinedMsg {
	return protocol.RoomJoinedMsg{
		Type:            protocol.TypeRoomJoined,
		ProtocolVersion: protocol.Version,
		Code:            room.Code,
		PlayerID:        connID,
		HostID:          res.HostID,
		Members:         res.Members,
	}
}

func sendJSON(out chan []byte, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case out <- b:
	default:
	}
}

func sendError(out chan []byte, code, message string) {
	sendJSON(out, protocol.ErrorMsg{
		Type:            protocol.TypeError,
		ProtocolVersion: protocol.Version,
		Code:            code,
		Message:         message,
	})
}
