package events

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hubServer(t *testing.T, hub *Hub) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()
	url := hubServer(t, hub)
	a, b := dial(t, url), dial(t, url)
	require.Eventually(t, func() bool { return hub.Subscribers() == 2 }, time.Second, 10*time.Millisecond)

	run := RunSummary{Flow: "week", Date: "2025-04-13", Targets: 4, Sent: 4}
	require.NoError(t, hub.PublishRun(context.Background(), run))

	for _, conn := range []*websocket.Conn{a, b} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var got RunSummary
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, "week", got.Flow)
		assert.Equal(t, 4, got.Sent)
	}
}

func TestHub_DropsDisconnected(t *testing.T) {
	hub := NewHub()
	url := hubServer(t, hub)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
	assert.NoError(t, hub.PublishRun(context.Background(), RunSummary{Flow: "day"}))
}

func TestHub_Close(t *testing.T) {
	hub := NewHub()
	url := hubServer(t, hub)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.Subscribers())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

type stubPublisher struct {
	err    error
	runs   int
	closed bool
}

func (s *stubPublisher) PublishRun(context.Context, RunSummary) error {
	s.runs++
	return s.err
}

func (s *stubPublisher) Close() { s.closed = true }

func TestMulti(t *testing.T) {
	boom := errors.New("broker down")
	ok, bad := &stubPublisher{}, &stubPublisher{err: boom}
	m := Multi{bad, ok}

	err := m.PublishRun(context.Background(), RunSummary{Flow: "day"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, ok.runs, "a failing publisher does not starve the rest")

	m.Close()
	assert.True(t, ok.closed)
	assert.True(t, bad.closed)
}
