package wsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsfocus/internal/core/alerts"
	"kidsfocus/internal/core/eventbus"
	"kidsfocus/internal/core/timekeeper"
)

type staticSource struct {
	snapshot timekeeper.Snapshot
}

func (s staticSource) Snapshot() timekeeper.Snapshot { return s.snapshot }

func startFeed(t *testing.T) (*Server, *eventbus.Bus[timekeeper.Event], string) {
	t.Helper()
	bus := eventbus.New[timekeeper.Event](nil)
	source := staticSource{snapshot: timekeeper.Snapshot{
		Phase:     timekeeper.PhaseWorking,
		Remaining: 1499 * time.Second,
		Total:     1500 * time.Second,
	}}
	server := New("127.0.0.1:0", source, bus, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go server.Pump(ctx)
	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(func() {
		cancel()
		httpServer.Close()
		bus.Close()
	})
	return server, bus, "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/events"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func TestClientReceivesSnapshotThenEvents(t *testing.T) {
	server, bus, url := startFeed(t)
	conn := dial(t, url)

	var first Message
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, MessageTypeSnapshot, first.Type)
	assert.Equal(t, "working", first.Phase)
	assert.Equal(t, 1499, first.RemainingSeconds)
	assert.Equal(t, "24:59", first.Display)

	require.Eventually(t, func() bool { return server.Clients() == 1 }, time.Second, 5*time.Millisecond)

	at := time.Date(2026, 10, 18, 9, 24, 0, 0, time.UTC)
	bus.Publish(timekeeper.Event{
		Type:      timekeeper.EventTimerAlert,
		Phase:     timekeeper.PhaseWorking,
		Remaining: 60 * time.Second,
		Total:     1500 * time.Second,
		Progress:  0.96,
		Alerts:    []alerts.Kind{alerts.OneMinute},
		At:        at,
	})

	var second Message
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, "timer-alert", second.Type)
	assert.Equal(t, 60, second.RemainingSeconds)
	assert.Equal(t, "01:00", second.Display)
	assert.Equal(t, []string{"oneMinute"}, second.Alerts)
	assert.True(t, at.Equal(second.At))
}

func TestDisconnectedClientIsRemoved(t *testing.T) {
	server, _, url := startFeed(t)
	conn := dial(t, url)

	var first Message
	require.NoError(t, conn.ReadJSON(&first))
	require.Eventually(t, func() bool { return server.Clients() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return server.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHealthz(t *testing.T) {
	bus := eventbus.New[timekeeper.Event](nil)
	server := New("127.0.0.1:0", staticSource{}, bus, nil)

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRunStopsOnCancel(t *testing.T) {
	bus := eventbus.New[timekeeper.Event](nil)
	server := New("127.0.0.1:0", staticSource{}, bus, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestFromEventWithoutAlertsOmitsField(t *testing.T) {
	message := FromEvent(timekeeper.Event{Type: timekeeper.EventBreakStart, Phase: timekeeper.PhaseOnBreak, Remaining: 5 * time.Minute, Total: 5 * time.Minute})
	assert.Nil(t, message.Alerts)
	assert.Equal(t, "05:00", message.Display)
	assert.Equal(t, 300, message.TotalSeconds)
}

type hookSource struct {
	snapshot   timekeeper.Snapshot
	onSnapshot func()
}

func (s hookSource) Snapshot() timekeeper.Snapshot {
	if s.onSnapshot != nil {
		s.onSnapshot()
	}
	return s.snapshot
}

func TestEventDuringConnectIsDelivered(t *testing.T) {
	bus := eventbus.New[timekeeper.Event](nil)
	source := hookSource{
		snapshot: timekeeper.Snapshot{Phase: timekeeper.PhaseWorking, Remaining: 61 * time.Second, Total: 1500 * time.Second},
		onSnapshot: func() {
			bus.Publish(timekeeper.Event{Type: timekeeper.EventTimerTick, Phase: timekeeper.PhaseWorking, Remaining: 60 * time.Second, Total: 1500 * time.Second})
			// give the pump time to try a broadcast while the client connects
			time.Sleep(50 * time.Millisecond)
		},
	}
	server := New("127.0.0.1:0", source, bus, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go server.Pump(ctx)
	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(func() {
		cancel()
		httpServer.Close()
		bus.Close()
	})

	conn := dial(t, "ws"+strings.TrimPrefix(httpServer.URL, "http")+"/events")

	var first, second Message
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, MessageTypeSnapshot, first.Type)
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, "timer-tick", second.Type)
	assert.Equal(t, 60, second.RemainingSeconds)
}

func TestForeignOriginIsRefused(t *testing.T) {
	_, _, url := startFeed(t)

	conn, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"http://evil.example"}})
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()
	assert.Nil(t, conn)

	conn, resp, err = websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"http://localhost:5173"}})
	require.NoError(t, err)
	_ = resp.Body.Close()
	_ = conn.Close()
}

func TestCheckOrigin(t *testing.T) {
	request := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "http://127.0.0.1:8787/events", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	assert.True(t, checkOrigin(request("")))
	assert.True(t, checkOrigin(request("http://127.0.0.1:8787")))
	assert.True(t, checkOrigin(request("http://localhost:3000")))
	assert.True(t, checkOrigin(request("http://[::1]:3000")))
	assert.False(t, checkOrigin(request("https://games.example.com")))
	assert.False(t, checkOrigin(request("://bad")))
}
