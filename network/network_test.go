package network

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"artillery/protocol"
	"artillery/room"
)

func newTestServer(t *testing.T, codec protocol.Codec) (*httptest.Server, *room.Manager) {
	t.Helper()
	logger := log.New(io.Discard)
	m := room.NewManager(logger, room.WithCodec(codec))
	srv := httptest.NewServer(NewHandler(m, codec, logger))
	t.Cleanup(func() {
		srv.Close()
		m.Close()
	})
	return srv, m
}

func dial(t *testing.T, srv *httptest.Server, codec protocol.Codec, name string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	send(t, ws, codec, protocol.MsgHello, protocol.Hello{V: 1, Name: name})
	return ws
}

func send(t *testing.T, ws *websocket.Conn, codec protocol.Codec, msgType string, payload any) {
	t.Helper()
	b, err := codec.Encode(msgType, payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	frame := websocket.TextMessage
	if codec.Binary() {
		frame = websocket.BinaryMessage
	}
	if err := ws.WriteMessage(frame, b); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readUntil(t *testing.T, ws *websocket.Conn, codec protocol.Codec, msgType string) protocol.Envelope {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, b, err := ws.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %s: %v", msgType, err)
		}
		env, err := codec.DecodeEnvelope(b)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if env.T == msgType {
			return env
		}
	}
}

func TestHandlerDuelOverWebsocket(t *testing.T) {
	codec := protocol.JSON{}
	srv, _ := newTestServer(t, codec)

	a := dial(t, srv, codec, "alice")
	wa, err := protocol.DecodeWith[protocol.Welcome](protocol.JSON{}, readUntil(t, a, codec, protocol.MsgWelcome))
	if err != nil {
		t.Fatalf("welcome: %v", err)
	}
	b := dial(t, srv, codec, "bob")
	readUntil(t, b, codec, protocol.MsgWelcome)

	gs, err := protocol.DecodeWith[protocol.GameStarted](protocol.JSON{}, readUntil(t, a, codec, protocol.MsgGameStarted))
	if err != nil {
		t.Fatalf("game_started: %v", err)
	}
	if gs.State.CurrentTurn != wa.PlayerID {
		t.Fatalf("turn = %q, want first joiner %q", gs.State.CurrentTurn, wa.PlayerID)
	}
	if gs.State.Tanks[0].Name != "alice" || gs.State.Tanks[1].Name != "bob" {
		t.Fatalf("names = %q, %q", gs.State.Tanks[0].Name, gs.State.Tanks[1].Name)
	}

	// Garbage is dropped without closing the socket.
	if err := a.WriteMessage(websocket.TextMessage, []byte("{nope")); err != nil {
		t.Fatalf("write: %v", err)
	}
	send(t, a, codec, protocol.MsgAction, protocol.ActionMsg{Type: "fire"})

	tc, err := protocol.DecodeWith[protocol.TurnChanged](protocol.JSON{}, readUntil(t, b, codec, protocol.MsgTurnChanged))
	if err != nil {
		t.Fatalf("turn_changed: %v", err)
	}
	if tc.CurrentTurn == wa.PlayerID {
		t.Fatalf("turn did not pass after fire")
	}
}

func TestHandlerDisconnectForfeits(t *testing.T) {
	codec := protocol.Msgpack{}
	srv, _ := newTestServer(t, codec)

	a := dial(t, srv, codec, "alice")
	wa, err := protocol.DecodeWith[protocol.Welcome](codec, readUntil(t, a, codec, protocol.MsgWelcome))
	if err != nil {
		t.Fatalf("welcome: %v", err)
	}
	b := dial(t, srv, codec, "bob")
	readUntil(t, a, codec, protocol.MsgGameStarted)

	b.Close()

	ge, err := protocol.DecodeWith[protocol.GameEnded](codec, readUntil(t, a, codec, protocol.MsgGameEnded))
	if err != nil {
		t.Fatalf("game_ended: %v", err)
	}
	if ge.Winner != wa.PlayerID {
		t.Fatalf("winner = %q, want %q", ge.Winner, wa.PlayerID)
	}
}

func TestHandlerRejectsMissingHello(t *testing.T) {
	codec := protocol.JSON{}
	srv, m := newTestServer(t, codec)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()
	send(t, ws, codec, protocol.MsgAction, protocol.ActionMsg{Type: "fire"})

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := ws.ReadMessage(); err == nil {
		t.Fatalf("expected connection closed without hello")
	}
	if len(m.ListRooms()) != 0 {
		t.Fatalf("rooms created without hello")
	}
}

func TestHandlerTellsClientRoomIsFull(t *testing.T) {
	codec := protocol.JSON{}
	srv, _ := newTestServer(t, codec)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	var conns []*websocket.Conn
	for i := 0; i < 3; i++ {
		ws, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		defer ws.Close()
		send(t, ws, codec, protocol.MsgHello, protocol.Hello{V: 1, Room: "DUEL01"})
		conns = append(conns, ws)
		if i < 2 {
			readUntil(t, ws, codec, protocol.MsgWelcome)
		}
	}

	rf, err := protocol.DecodeWith[protocol.RoomFull](codec, readUntil(t, conns[2], codec, protocol.MsgRoomFull))
	if err != nil {
		t.Fatalf("room_full: %v", err)
	}
	if rf.Room != "DUEL01" {
		t.Fatalf("room_full room = %q", rf.Room)
	}
}
