package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/ws", NewHandler(hub, nil, zerolog.Nop()).HandleConnection)
	srv := httptest.NewServer(router)

	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, resource string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientsCount(resource) != n {
		if time.Now().After(deadline) {
			t.Fatalf("clients for %q = %d, want %d", resource, hub.ClientsCount(resource), n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// readEvents reads frames until n events arrived; a frame may carry several
// newline separated events.
func readEvents(t *testing.T, conn *websocket.Conn, n int) []Event {
	t.Helper()
	var events []Event
	for len(events) < n {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			var ev Event
			if err := json.Unmarshal([]byte(line), &ev); err != nil {
				t.Fatalf("decode %s: %v", line, err)
			}
			events = append(events, ev)
		}
	}
	return events
}

func TestHubFiltersByResource(t *testing.T) {
	hub, srv := startHub(t)

	calls := dial(t, srv, "?resource=calls")
	all := dial(t, srv, "")
	waitForClients(t, hub, "calls", 1)
	waitForClients(t, hub, "", 1)

	hub.Publish(Event{Resource: "lines", Op: "created", ID: "7"})
	hub.Publish(Event{Resource: "calls", Op: "deleted", ID: "3"})

	got := readEvents(t, all, 2)
	if got[0].Resource != "lines" || got[1].Resource != "calls" {
		t.Errorf("unfiltered client events = %+v", got)
	}

	ev := readEvents(t, calls, 1)[0]
	if ev.Resource != "calls" || ev.Op != "deleted" || ev.ID != "3" || ev.Timestamp.IsZero() {
		t.Errorf("filtered client event = %+v", ev)
	}
}

func TestHubUnregistersClosedClients(t *testing.T) {
	hub, srv := startHub(t)

	conn := dial(t, srv, "?resource=companies")
	waitForClients(t, hub, "companies", 1)

	conn.Close()
	waitForClients(t, hub, "companies", 0)
}
