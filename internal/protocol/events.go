package protocol

// ERROR (server -> client)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message,omitempty"`
}

// RoomMember is the lobby view of a joined connection.
type RoomMember struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Host bool   `json:"host,omitempty"`
}

// ROOM_CREATED (server -> client): answer to CREATE_ROOM.
type RoomCreatedMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	PlayerID        string `json:"player_id"`
	HostID          string `json:"host_id"`
}

// ROOM_JOINED (server -> client): answer to JOIN_ROOM / QUICK_MATCH.
type RoomJoinedMsg struct {
	Type            string       `json:"type"`
	ProtocolVersion string       `json:"protocol_version"`
	Code            string       `json:"code"`
	PlayerID        string       `json:"player_id"`
	HostID          string       `json:"host_id"`
	Members         []RoomMember `json:"members"`
}

// PLAYER_JOINED (server -> room)
type PlayerJoinedMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	Player          RoomMember `json:"player"`
}

// PLAYER_LEFT (server -> room). NewHostID is set when the departing
// player was the host.
type PlayerLeftMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	PlayerID        string `json:"player_id"`
	NewHostID       string `json:"new_host_id,omitempty"`
}

// WorldParams describes the primary world and every dimension so that a
// client can size its playfields before the first snapshot arrives.
type WorldParams struct {
	TickRateHz int                        `json:"tick_rate_hz"`
	Width      float64                    `json:"width"`
	Height     float64                    `json:"height"`
	Dimensions map[string]DimensionParams `json:"dimensions"`
}

type DimensionParams struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	SpeedMult    float64 `json:"speed_mult"`
	OrbValueMult float64 `json:"orb_value_mult"`
	CountdownMs  int64   `json:"countdown_ms"`
}

// EntitySnapshot is the compact per-tick view of a player or bot.
type EntitySnapshot struct {
	ID        string  `json:"id"`
	Name      string  `json:"name,omitempty"`
	Origin    string  `json:"origin"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Size      float64 `json:"size"`
	Score     int     `json:"score"`
	Alive     bool    `json:"alive"`
	Dimension string  `json:"dimension,omitempty"`
}

type OrbSnapshot struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Size      float64 `json:"size"`
	Dimension string  `json:"dimension,omitempty"`
}

type RiftSnapshot struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Radius    float64 `json:"radius"`
	Dimension string  `json:"dimension"`
}

// GAME_STARTED (server -> room): full initial entity lists.
type GameStartedMsg struct {
	Type            string           `json:"type"`
	ProtocolVersion string           `json:"protocol_version"`
	World           WorldParams      `json:"world"`
	Players         []EntitySnapshot `json:"players"`
	Bots            []EntitySnapshot `json:"bots"`
	Orbs            []OrbSnapshot    `json:"orbs"`
	Rifts           []RiftSnapshot   `json:"rifts"`
}

// STATE (server -> room): per-tick snapshot of all players and bots.
// Orbs are reconciled separately via ORB_SYNC and ORB_COLLECTED.
type StateMsg struct {
	Type            string           `json:"type"`
	ProtocolVersion string           `json:"protocol_version"`
	Tick            uint64           `json:"tick"`
	Entities        []EntitySnapshot `json:"entities"`
}

// ORB_SYNC (server -> room): slower-cadence full resync of the orb
// population, healing client-side ghost orbs from lost events.
type OrbSyncMsg struct {
	Type            string        `json:"type"`
	ProtocolVersion string        `json:"protocol_version"`
	Tick            uint64        `json:"tick"`
	Orbs            []OrbSnapshot `json:"orbs"`
}

// ORB_COLLECTED (server -> room)
type OrbCollectedMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	EntityID        string      `json:"entity_id"`
	OrbID           string      `json:"orb_id"`
	NewOrb          OrbSnapshot `json:"new_orb"`
	Size            float64     `json:"size"`
	Score           int         `json:"score"`
}

// PLAYER_ABSORBED (server -> room)
type PlayerAbsorbedMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	AbsorberID      string  `json:"absorber_id"`
	AbsorbedID      string  `json:"absorbed_id"`
	AbsorberSize    float64 `json:"absorber_size"`
	AbsorberScore   int     `json:"absorber_score"`
	RespawnMs       int64   `json:"respawn_ms"`
}

// RIFT_ENTERED (server -> room)
type RiftEnteredMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	EntityID        string  `json:"entity_id"`
	Dimension       string  `json:"dimension"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	ExpiresMs       int64   `json:"expires_ms"`
}

// RIFT_EXITED (server -> room)
type RiftExitedMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	EntityID        string  `json:"entity_id"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
}

// PLAYER_RESPAWNED (server -> room)
type PlayerRespawnedMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	EntityID        string  `json:"entity_id"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Size            float64 `json:"size"`
	Dimension       string  `json:"dimension,omitempty"`
}

// RankEntry is one row of the final standings.
type RankEntry struct {
	Place  int    `json:"place"`
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Origin string `json:"origin"`
	Score  int    `json:"score"`
}

// GAME_ENDED (server -> room)
type GameEndedMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	DurationMs      int64       `json:"duration_ms"`
	Rankings        []RankEntry `json:"rankings"`
}
