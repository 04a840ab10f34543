package push

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestSendDeliversFrameOverWebsocket(t *testing.T) {
	hub := NewHub()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		client := NewClient("user-1", conn)
		hub.Register(client)
		go client.WritePump()
		client.ReadPump(hub)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for hub.Connections("user-1") == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := hub.SendFrame("user-1", "notification", map[string]string{"title": "hello"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var frame struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if frame.Type != "notification" || frame.Data["title"] != "hello" {
		t.Fatalf("unexpected frame %s", data)
	}
}

func TestSendWithoutConnectionsReportsFalse(t *testing.T) {
	hub := NewHub()
	if hub.Send("nobody", []byte("x")) {
		t.Fatalf("expected no delivery")
	}
	if hub.Send("", []byte("x")) {
		t.Fatalf("expected empty user to be rejected")
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := NewHub()
	client := NewClient("user-2", nil)
	hub.Register(client)

	for i := 0; i < sendBuffer; i++ {
		if !hub.Send("user-2", []byte("x")) {
			t.Fatalf("expected buffered send %d to succeed", i)
		}
	}
	if hub.Send("user-2", []byte("overflow")) {
		t.Fatalf("expected overflow to fail")
	}
	if hub.Connections("user-2") != 0 {
		t.Fatalf("expected slow client unregistered")
	}
	client.Close()
}
