package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
	id   string
}

func dial(t *testing.T, srv *httptest.Server, header http.Header) *wsClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/signal"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	c := &wsClient{t: t, conn: conn}
	var hello struct {
		UserID     string            `json:"userId"`
		ICEServers []json.RawMessage `json:"iceServers"`
	}
	c.expect("connected", &hello)
	if hello.UserID == "" || len(hello.ICEServers) != 1 {
		t.Fatalf("bad welcome %+v", hello)
	}
	c.id = hello.UserID
	return c
}

func (c *wsClient) send(v any) {
	c.t.Helper()
	if err := c.conn.WriteJSON(v); err != nil {
		c.t.Fatalf("write: %v", err)
	}
}

// expect skips frames until one of type typ arrives.
func (c *wsClient) expect(typ string, v any) {
	c.t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		_ = c.conn.SetReadDeadline(deadline)
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.t.Fatalf("waiting for %s: %v", typ, err)
		}
		var env struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			c.t.Fatalf("bad frame %s", data)
		}
		if env.Type != typ {
			continue
		}
		if v != nil {
			if err := json.Unmarshal(data, v); err != nil {
				c.t.Fatalf("decode %s: %v", typ, err)
			}
		}
		return
	}
}

func TestWebSocketMeetingFlow(t *testing.T) {
	r, _ := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	alice := dial(t, srv, nil)
	bob := dial(t, srv, nil)

	alice.send(map[string]any{"type": "create-meeting", "roomId": "r1", "roomName": "Briefing", "creator": "alice"})
	var created struct {
		Meeting struct {
			RoomID string `json:"roomId"`
		} `json:"meeting"`
	}
	bob.expect("meeting-created", &created)
	if created.Meeting.RoomID != "r1" {
		t.Fatalf("created = %+v", created)
	}

	bob.send(map[string]any{"type": "join-room", "roomId": "r1", "username": "bob", "canSpeak": false})
	var users struct {
		Participants []json.RawMessage `json:"participants"`
	}
	bob.expect("room-users", &users)
	if len(users.Participants) != 0 {
		t.Fatalf("bob's snapshot = %d", len(users.Participants))
	}

	alice.send(map[string]any{"type": "join-room", "roomId": "r1", "username": "alice", "canSpeak": true})
	alice.expect("room-users", &users)
	if len(users.Participants) != 1 {
		t.Fatalf("alice's snapshot = %d", len(users.Participants))
	}
	var joined struct {
		UserID string `json:"userId"`
	}
	bob.expect("user-joined", &joined)
	if joined.UserID != alice.id {
		t.Fatalf("joined = %s, want %s", joined.UserID, alice.id)
	}

	alice.send(map[string]any{"type": "offer", "to": bob.id, "payload": map[string]string{"type": "offer", "sdp": "v=0"}})
	var offer struct {
		From    string          `json:"from"`
		Payload json.RawMessage `json:"payload"`
	}
	bob.expect("offer", &offer)
	if offer.From != alice.id || !strings.Contains(string(offer.Payload), `"sdp":"v=0"`) {
		t.Fatalf("offer = %+v", offer)
	}

	bob.send(map[string]any{"type": "answer", "to": alice.id, "answer": map[string]string{"type": "answer", "sdp": "v=0"}})
	alice.expect("answer", &offer)
	if offer.From != bob.id {
		t.Fatalf("answer from %s", offer.From)
	}

	_ = bob.conn.Close()
	var left struct {
		UserID string `json:"userId"`
	}
	alice.expect("user-left", &left)
	if left.UserID != bob.id {
		t.Fatalf("left = %s", left.UserID)
	}

	alice.send(map[string]any{"type": "leave-room", "roomId": "r1"})
	var closed struct {
		RoomID string `json:"roomId"`
	}
	alice.expect("meeting-closed", &closed)
	if closed.RoomID != "r1" {
		t.Fatalf("closed = %+v", closed)
	}
}

func TestWebSocketErrors(t *testing.T) {
	r, _ := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := dial(t, srv, nil)
	var e struct {
		Code string `json:"code"`
	}

	c.send(map[string]any{"type": "join-room"})
	c.expect("error", &e)
	if e.Code != "bad_payload" {
		t.Fatalf("code = %s", e.Code)
	}

	c.send(map[string]any{"type": "join-room", "roomId": "ghost"})
	c.expect("error", &e)
	if e.Code != "not_found" {
		t.Fatalf("code = %s", e.Code)
	}

	c.send(map[string]any{"type": "create-meeting", "roomId": "r1"})
	c.expect("meeting-created", nil)
	c.send(map[string]any{"type": "create-meeting", "roomId": "r1"})
	c.expect("error", &e)
	if e.Code != "conflict" {
		t.Fatalf("code = %s", e.Code)
	}

	for i := 0; i < 5; i++ {
		c.send(map[string]any{"type": "create-meeting", "roomId": "x"})
	}
	c.expect("error", &e)
	for e.Code == "conflict" {
		c.expect("error", &e)
	}
	if e.Code != "rate_limited" {
		t.Fatalf("code = %s", e.Code)
	}

	c.send(map[string]any{"type": "ping"})
	c.expect("pong", nil)
}

func TestWebSocketSessionIdentity(t *testing.T) {
	r, _ := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	rec := do(r, http.MethodPost, "/api/session", `{"username":"carol"}`)
	header := http.Header{}
	for _, ck := range rec.Result().Cookies() {
		header.Add("Cookie", ck.Name+"="+ck.Value)
	}

	c := dial(t, srv, header)
	c.send(map[string]any{"type": "create-meeting", "roomId": "r1", "creator": "mallory"})
	var created struct {
		Meeting struct {
			Creator string `json:"creator"`
		} `json:"meeting"`
	}
	c.expect("meeting-created", &created)
	if created.Meeting.Creator != "carol" {
		t.Fatalf("creator = %q", created.Meeting.Creator)
	}

	c.send(map[string]any{"type": "join-room", "roomId": "r1", "username": "mallory"})
	c.send(map[string]any{"type": "whoami"})
	var who struct {
		Username string `json:"username"`
		RoomID   string `json:"roomId"`
	}
	c.expect("whoami", &who)
	if who.Username != "carol" || who.RoomID != "r1" {
		t.Fatalf("whoami = %+v", who)
	}
}
