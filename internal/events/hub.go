package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans run summaries out to every connected websocket. A subscriber
// whose buffer is full misses the event instead of stalling the run.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Serve registers conn and blocks until the peer goes away or the hub closes.
func (h *Hub) Serve(conn *websocket.Conn) {
	s := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("event subscriber connected")

	go s.writeLoop()
	defer h.drop(s)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *subscriber) writeLoop() {
	defer s.conn.Close()
	for msg := range s.send {
		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Debug().Err(err).Msg("event subscriber write failed")
			return
		}
	}
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
		time.Now().Add(writeWait))
}

func (h *Hub) drop(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s]; !ok {
		return
	}
	delete(h.subs, s)
	close(s.send)
	log.Debug().Str("remote", s.conn.RemoteAddr().String()).Msg("event subscriber disconnected")
}

// Subscribers reports how many sockets are connected.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) PublishRun(_ context.Context, run RunSummary) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run summary: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		select {
		case s.send <- payload:
		default:
			log.Warn().Str("remote", s.conn.RemoteAddr().String()).Msg("event subscriber lagging, dropped run summary")
		}
	}
	return nil
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		delete(h.subs, s)
		close(s.send)
	}
}
