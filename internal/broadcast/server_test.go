package broadcast

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hammamikhairi/scorekeep/internal/domain"
	"github.com/hammamikhairi/scorekeep/internal/logger"
	"github.com/hammamikhairi/scorekeep/internal/scoreboard"
	"github.com/hammamikhairi/scorekeep/internal/storage"
)

func setupServer(t *testing.T, opts ...Option) (*scoreboard.Board, *Server, *httptest.Server) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewTeamStore(storage.NewMemoryBackend(log), log)
	board := scoreboard.New(store, log)
	t.Cleanup(board.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := NewServer(board, log, opts...)
	srv.Start(ctx)

	ts := httptest.NewServer(srv.Handler(ctx))
	t.Cleanup(ts.Close)
	return board, srv, ts
}

func dial(t *testing.T, ts *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads frames until pred matches the carried state.
func readUntil(t *testing.T, conn *websocket.Conn, pred func(domain.State) bool) domain.State {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Type != MessageTypeState {
			t.Fatalf("unexpected message type %q", msg.Type)
		}
		if pred(msg.State) {
			return msg.State
		}
	}
}

func TestStateEndpoint(t *testing.T) {
	board, _, ts := setupServer(t)
	board.Increment(domain.Team2)

	resp, err := http.Get(ts.URL + "/state")
	if err != nil {
		t.Fatalf("GET /state: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var s domain.State
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Score2 != 1 || s.Clock != "12:00" || s.ClockSeconds != 720 {
		t.Fatalf("unexpected state %+v", s)
	}
}

func TestWebSocketStreamsChanges(t *testing.T) {
	board, srv, ts := setupServer(t)
	conn := dial(t, ts, nil)

	first := readUntil(t, conn, func(domain.State) bool { return true })
	if first.Team1Name != "Team" {
		t.Fatalf("expected initial snapshot, got %+v", first)
	}

	board.Increment(domain.Team1)
	board.SetPeriod("Half")

	got := readUntil(t, conn, func(s domain.State) bool { return s.Period == "Half" })
	if got.Score1 != 1 {
		t.Fatalf("expected score 1 in latest frame, got %+v", got)
	}
	if srv.Hub().ClientCount() != 1 {
		t.Fatalf("expected one client, got %d", srv.Hub().ClientCount())
	}
}

func TestClientDisconnectUnregisters(t *testing.T) {
	_, srv, ts := setupServer(t)
	conn := dial(t, ts, nil)
	readUntil(t, conn, func(domain.State) bool { return true })

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Hub().ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client still registered after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHealthz(t *testing.T) {
	_, _, ts := setupServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" {
		t.Fatalf("unexpected health body %v", body)
	}
	if _, ok := body["active_clients"]; !ok {
		t.Fatalf("missing active_clients in %v", body)
	}
}

func TestOriginCheck(t *testing.T) {
	_, _, ts := setupServer(t, WithAllowedOrigins([]string{"https://overlay.example"}))

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example"}})
	if err == nil {
		t.Fatal("expected upgrade to be refused")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", resp)
	}

	conn := dial(t, ts, http.Header{"Origin": {"https://overlay.example"}})
	readUntil(t, conn, func(domain.State) bool { return true })
}

func TestHubCollapsesToNewest(t *testing.T) {
	h := NewHub(logger.New(logger.LevelOff, nil))
	h.Publish(domain.State{Version: 5, Score1: 5})
	h.Publish(domain.State{Version: 3, Score1: 3})

	s, ok := h.current()
	if !ok || s.Version != 5 {
		t.Fatalf("older snapshot replaced newer one: %+v", s)
	}
}
