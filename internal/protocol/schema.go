package protocol

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

var inboundSchemas map[string]*jsonschema.Schema

var inboundSchemaFiles = map[string]string{
	TypeCreateRoom: "create_room.schema.json",
	TypeQuickMatch: "quick_match.schema.json",
	TypeJoinRoom:   "join_room.schema.json",
	TypeLeaveRoom:  "leave_room.schema.json",
	TypeStartGame:  "start_game.schema.json",
	TypeMove:       "move.schema.json",
	TypeNewGame:    "new_game.schema.json",
}

func init() {
	inboundSchemas = make(map[string]*jsonschema.Schema, len(inboundSchemaFiles))
	for typ, name := range inboundSchemaFiles {
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			panic(fmt.Sprintf("protocol: missing embedded schema %s: %v", name, err))
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(name, bytes.NewReader(data)); err != nil {
			panic(fmt.Sprintf("protocol: add schema %s: %v", name, err))
		}
		s, err := c.Compile(name)
		if err != nil {
			panic(fmt.Sprintf("protocol: compile schema %s: %v", name, err))
		}
		inboundSchemas[typ] = s
	}
}

// IsInboundType reports whether msgType names a client-originated message.
func IsInboundType(msgType string) bool {
	_, ok := inboundSchemaFiles[msgType]
	return ok
}

// ValidateInbound checks the shape of a raw client message against the
// schema for its declared type. It does not interpret any field beyond
// shape; semantic checks belong to the room handlers.
func ValidateInbound(msgType string, raw []byte) error {
	s, ok := inboundSchemas[msgType]
	if !ok {
		return fmt.Errorf("unknown message type %q", msgType)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return s.Validate(v)
}
