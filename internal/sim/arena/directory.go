package arena

import (
	"crypto/rand"
	"log"
	"math/big"
	"sort"
	"strings"
	"sync"

	"riftarena.io/internal/protocol"
)

// Directory owns the room registry and the connection-to-room map. All
// lobby mutations go through it; rooms own their entities themselves.
type Directory struct {
	mu     sync.Mutex
	cfg    Config
	log    *log.Logger
	sink   MatchSink
	rooms  map[string]*Room
	byConn map[string]*Room
}

func NewDirectory(cfg Config, sink MatchSink, logger *log.Logger) *Directory {
	return &Directory{
		cfg:    cfg,
		log:    logger,
		sink:   sink,
		rooms:  make(map[string]*Room),
		byConn: make(map[string]*Room),
	}
}

// Ambiguous glyphs (0/O, 1/I) are excluded so codes survive being read
// aloud.
const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLen = 5

func generateCode() string {
	b := make([]byte, codeLen)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = codeChars[idx.Int64()]
	}
	return string(b)
}

func sanitizeName(name string, maxLen int) string {
	name = strings.TrimSpace(name)
	if len(name) > maxLen {
		name = name[:maxLen]
	}
	return name
}

// CreateRoom makes a room with a fresh unique code, starts its
// goroutine, and joins the creator as host.
func (d *Directory) CreateRoom(connID, name string, out chan []byte) (*Room, JoinResult, string) {
	name = sanitizeName(name, d.cfg.MaxNameLen)
	if name == "" {
		return nil, JoinResult{}, protocol.ErrBadName
	}

	d.mu.Lock()
	if _, ok := d.byConn[connID]; ok {
		d.mu.Unlock()
		return nil, JoinResult{}, protocol.ErrAlreadyInRoom
	}
	var r *Room
	for {
		code := generateCode()
		if _, exists := d.rooms[code]; exists {
			continue
		}
		r = newRoom(code, d.cfg, d.sink, d.log)
		d.rooms[code] = r
		break
	}
	d.byConn[connID] = r
	go r.Run()
	d.mu.Unlock()

	res := r.Join(connID, name, out)
	if res.ErrCode != "" {
		// Cannot happen for a freshly created room, but keep the maps
		// honest if it ever does.
		d.mu.Lock()
		delete(d.byConn, connID)
		delete(d.rooms, r.Code)
		d.mu.Unlock()
		r.Stop()
		return nil, JoinResult{}, res.ErrCode
	}
	d.log.Printf("room %s created by %s", r.Code, connID)
	return r, res, ""
}

// JoinRoom adds the connection to an existing waiting room.
func (d *Directory) JoinRoom(connID, name, code string, out chan []byte) (*Room, JoinResult, string) {
	name = sanitizeName(name, d.cfg.MaxNameLen)
	if name == "" {
		return nil, JoinResult{}, protocol.ErrBadName
	}
	code = strings.ToUpper(strings.TrimSpace(code))

	d.mu.Lock()
	if _, ok := d.byConn[connID]; ok {
		d.mu.Unlock()
		return nil, JoinResult{}, protocol.ErrAlreadyInRoom
	}
	r, ok := d.rooms[code]
	if !ok {
		d.mu.Unlock()
		return nil, JoinResult{}, protocol.ErrRoomNotFound
	}
	d.mu.Unlock()

	res := r.Join(connID, name, out)
	if res.ErrCode != "" {
		return nil, JoinResult{}, res.ErrCode
	}
	d.mu.Lock()
	d.byConn[connID] = r
	d.mu.Unlock()
	return r, res, ""
}

// QuickMatch joins the first waiting room under capacity, creating a
// fresh one when none qualifies.
func (d *Directory) QuickMatch(connID, name string, out chan []byte) (*Room, JoinResult, string) {
	sanitized := sanitizeName(name, d.cfg.MaxNameLen)
	if sanitized == "" {
		return nil, JoinResult{}, protocol.ErrBadName
	}

	d.mu.Lock()
	codes := make([]string, 0, len(d.rooms))
	for code := range d.rooms {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	var open *Room
	for _, code := range codes {
		r := d.rooms[code]
		if r.State() == StateWaiting && r.Members() < d.cfg.RoomCapacity {
			open = r
			break
		}
	}
	d.mu.Unlock()

	if open != nil {
		r, res, errCode := d.joinExisting(connID, sanitized, open, out)
		if errCode == "" {
			return r, res, ""
		}
		// The room filled or started between the scan and the join;
		// fall through to a fresh room.
	}
	return d.CreateRoom(connID, name, out)
}

func (d *Directory) joinExisting(connID, name string, r *Room, out chan []byte) (*Room, JoinResult, string) {
	d.mu.Lock()
	if _, ok := d.byConn[connID]; ok {
		d.mu.Unlock()
		return nil, JoinResult{}, protocol.ErrAlreadyInRoom
	}
	d.mu.Unlock()

	res := r.Join(connID, name, out)
	if res.ErrCode != "" {
		return nil, JoinResult{}, res.ErrCode
	}
	d.mu.Lock()
	d.byConn[connID] = r
	d.mu.Unlock()
	return r, res, ""
}

// RoomFor returns the room holding the connection, or nil.
func (d *Directory) RoomFor(connID string) *Room {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.byConn[connID]
}

// RemoveConnection detaches the connection from whatever room holds
// it, reassigning host inside the room and stopping the room once it
// empties.
func (d *Directory) RemoveConnection(connID string) {
	d.mu.Lock()
	r, ok := d.byConn[connID]
	if ok {
		delete(d.byConn, connID)
	}
	d.mu.Unlock()
	if !ok {
		return
	}

	res := r.Leave(connID)
	if res.Empty {
		d.mu.Lock()
		delete(d.rooms, r.Code)
		d.mu.Unlock()
		r.Stop()
		d.log.Printf("room %s removed (last player left)", r.Code)
	}
}

// Shutdown stops every room. Used on process exit.
func (d *Directory) Shutdown() {
	d.mu.Lock()
	rooms := make([]*Room, 0, len(d.rooms))
	for _, r := range d.rooms {
		rooms = append(rooms, r)
	}
	d.rooms = make(map[string]*Room)
	d.byConn = make(map[string]*Room)
	d.mu.Unlock()

	for _, r := range rooms {
		r.Stop()
	}
}

// Metrics is the operational view for /metrics and /status.
type Metrics struct {
	Rooms        int `json:"rooms"`
	RoomsPlaying int `json:"rooms_playing"`
	Connections  int `json:"connections"`
}

func (d *Directory) Metrics() Metrics {
	d.mu.Lock()
	defer d.mu.Unlock()
	m := Metrics{Rooms: len(d.rooms), Connections: len(d.byConn)}
	for _, r := range d.rooms {
		if r.State() == StatePlaying {
			m.RoomsPlaying++
		}
	}
	return m
}

// RoomInfo is the /status listing for a single room.
type RoomInfo struct {
	Code    string `json:"code"`
	State   string `json:"state"`
	Members int    `json:"members"`
}

func (d *Directory) Rooms() []RoomInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]RoomInfo, 0, len(d.rooms))
	for code, r := range d.rooms {
		out = append(out, RoomInfo{Code: code, State: string(r.State()), Members: r.Members()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
