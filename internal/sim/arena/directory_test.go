package arena

import (
	"encoding/json"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"riftarena.io/internal/protocol"
)

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()
	d := NewDirectory(testConfig(), nil, log.New(io.Discard, "", 0))
	t.Cleanup(d.Shutdown)
	return d
}

func waitForState(t *testing.T, r *Room, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("room %s never reached state %s", r.Code, want)
}

func waitForDone(t *testing.T, r *Room) {
	t.Helper()
	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("room %s goroutine did not exit", r.Code)
	}
}

func TestCreateRoomAssignsCode(t *testing.T) {
	d := newTestDirectory(t)
	r, res, errCode := d.CreateRoom("conn-a", "alice", make(chan []byte, 64))
	if errCode != "" {
		t.Fatalf("create: %s", errCode)
	}
	if len(r.Code) != codeLen {
		t.Fatalf("code %q has length %d", r.Code, len(r.Code))
	}
	for _, c := range r.Code {
		if !strings.ContainsRune(codeChars, c) {
			t.Fatalf("code %q uses glyph %q outside the charset", r.Code, c)
		}
	}
	if res.HostID != "conn-a" {
		t.Fatalf("host = %q", res.HostID)
	}
	if len(res.Members) != 1 || !res.Members[0].Host {
		t.Fatalf("members = %+v", res.Members)
	}

	m := d.Metrics()
	if m.Rooms != 1 || m.Connections != 1 || m.RoomsPlaying != 0 {
		t.Fatalf("metrics = %+v", m)
	}
}

func TestCreateRoomRejectsBadName(t *testing.T) {
	d := newTestDirectory(t)
	_, _, errCode := d.CreateRoom("conn-a", "   ", make(chan []byte, 64))
	if errCode != protocol.ErrBadName {
		t.Fatalf("expected %s, got %q", protocol.ErrBadName, errCode)
	}
	if m := d.Metrics(); m.Rooms != 0 {
		t.Fatal("room created despite bad name")
	}
}

func TestCreateRoomRejectsDoubleJoin(t *testing.T) {
	d := newTestDirectory(t)
	d.CreateRoom("conn-a", "alice", make(chan []byte, 64))
	_, _, errCode := d.CreateRoom("conn-a", "alice", make(chan []byte, 64))
	if errCode != protocol.ErrAlreadyInRoom {
		t.Fatalf("expected %s, got %q", protocol.ErrAlreadyInRoom, errCode)
	}
}

func TestJoinRoomNotFound(t *testing.T) {
	d := newTestDirectory(t)
	_, _, errCode := d.JoinRoom("conn-a", "alice", "ZZZZZ", make(chan []byte, 64))
	if errCode != protocol.ErrRoomNotFound {
		t.Fatalf("expected %s, got %q", protocol.ErrRoomNotFound, errCode)
	}
}

func TestJoinRoomCaseInsensitiveCode(t *testing.T) {
	d := newTestDirectory(t)
	r, _, _ := d.CreateRoom("conn-a", "alice", make(chan []byte, 64))

	joined, res, errCode := d.JoinRoom("conn-b", "bob", strings.ToLower(r.Code), make(chan []byte, 64))
	if errCode != "" {
		t.Fatalf("join: %s", errCode)
	}
	if joined != r {
		t.Fatal("joined a different room")
	}
	if len(res.Members) != 2 {
		t.Fatalf("members = %+v", res.Members)
	}
}

func TestJoinRoomInProgress(t *testing.T) {
	d := newTestDirectory(t)
	r, _, _ := d.CreateRoom("conn-a", "alice", make(chan []byte, 64))
	d.JoinRoom("conn-b", "bob", r.Code, make(chan []byte, 64))

	r.Start("conn-a")
	waitForState(t, r, StatePlaying)

	_, _, errCode := d.JoinRoom("conn-c", "carol", r.Code, make(chan []byte, 64))
	if errCode != protocol.ErrRoomInProgress {
		t.Fatalf("expected %s, got %q", protocol.ErrRoomInProgress, errCode)
	}
}

func TestDisconnectReassignsHost(t *testing.T) {
	d := newTestDirectory(t)
	r, _, _ := d.CreateRoom("conn-a", "alice", make(chan []byte, 64))
	outB := make(chan []byte, 64)
	d.JoinRoom("conn-b", "bob", r.Code, outB)

	d.RemoveConnection("conn-a")

	if m := d.Metrics(); m.Rooms != 1 || m.Connections != 1 {
		t.Fatalf("metrics = %+v", m)
	}

	deadline := time.After(2 * time.Second)
	for {
		var frame []byte
		select {
		case frame = <-outB:
		case <-deadline:
			t.Fatal("no PLAYER_LEFT broadcast")
		}
		base, err := protocol.DecodeBase(frame)
		if err != nil {
			t.Fatal(err)
		}
		if base.Type != protocol.TypePlayerLeft {
			continue
		}
		var msg protocol.PlayerLeftMsg
		if err := json.Unmarshal(frame, &msg); err != nil {
			t.Fatal(err)
		}
		if msg.PlayerID != "conn-a" || msg.NewHostID != "conn-b" {
			t.Fatalf("bad PLAYER_LEFT payload: %+v", msg)
		}
		return
	}
}

func TestLastDisconnectRemovesRoom(t *testing.T) {
	d := newTestDirectory(t)
	r, _, _ := d.CreateRoom("conn-a", "alice", make(chan []byte, 64))

	d.RemoveConnection("conn-a")

	if m := d.Metrics(); m.Rooms != 0 || m.Connections != 0 {
		t.Fatalf("metrics = %+v", m)
	}
	waitForDone(t, r)
}

func TestRemoveConnectionUnknownIsNoOp(t *testing.T) {
	d := newTestDirectory(t)
	d.RemoveConnection("never-seen")
	if m := d.Metrics(); m.Rooms != 0 || m.Connections != 0 {
		t.Fatalf("metrics = %+v", m)
	}
}

func TestQuickMatchJoinsWaitingRoom(t *testing.T) {
	d := newTestDirectory(t)
	r, _, _ := d.CreateRoom("conn-a", "alice", make(chan []byte, 64))

	joined, _, errCode := d.QuickMatch("conn-b", "bob", make(chan []byte, 64))
	if errCode != "" {
		t.Fatalf("quick match: %s", errCode)
	}
	if joined != r {
		t.Fatalf("quick match created %s instead of joining %s", joined.Code, r.Code)
	}
}

func TestQuickMatchCreatesWhenNoneOpen(t *testing.T) {
	d := newTestDirectory(t)
	r, res, errCode := d.QuickMatch("conn-a", "alice", make(chan []byte, 64))
	if errCode != "" {
		t.Fatalf("quick match: %s", errCode)
	}
	if r == nil || res.HostID != "conn-a" {
		t.Fatal("quick match did not create a fresh room")
	}
}

func TestQuickMatchSkipsPlayingRooms(t *testing.T) {
	d := newTestDirectory(t)
	r, _, _ := d.CreateRoom("conn-a", "alice", make(chan []byte, 64))
	d.JoinRoom("conn-b", "bob", r.Code, make(chan []byte, 64))
	r.Start("conn-a")
	waitForState(t, r, StatePlaying)

	joined, _, errCode := d.QuickMatch("conn-c", "carol", make(chan []byte, 64))
	if errCode != "" {
		t.Fatalf("quick match: %s", errCode)
	}
	if joined == r {
		t.Fatal("quick match joined a playing room")
	}
}

func TestRoomsListing(t *testing.T) {
	d := newTestDirectory(t)
	d.CreateRoom("conn-a", "alice", make(chan []byte, 64))
	d.CreateRoom("conn-b", "bob", make(chan []byte, 64))

	infos := d.Rooms()
	if len(infos) != 2 {
		t.Fatalf("%d rooms listed", len(infos))
	}
	if infos[0].Code > infos[1].Code {
		t.Fatal("listing not sorted by code")
	}
	for _, info := range infos {
		if info.State != string(StateWaiting) || info.Members != 1 {
			t.Fatalf("bad listing entry: %+v", info)
		}
	}
}

func TestShutdownStopsAllRooms(t *testing.T) {
	d := newTestDirectory(t)
	r1, _, _ := d.CreateRoom("conn-a", "alice", make(chan []byte, 64))
	r2, _, _ := d.CreateRoom("conn-b", "bob", make(chan []byte, 64))

	d.Shutdown()
	waitForDone(t, r1)
	waitForDone(t, r2)
	if m := d.Metrics(); m.Rooms != 0 || m.Connections != 0 {
		t.Fatalf("metrics after shutdown = %+v", m)
	}
}
