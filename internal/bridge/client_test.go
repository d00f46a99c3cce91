package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu       sync.Mutex
	ready    bool
	sendCode int
	sendBody string
	delay    time.Duration
	received []sendRequest
}

func (g *fakeGateway) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		g.mu.Lock()
		ready := g.ready
		g.mu.Unlock()
		_ = json.NewEncoder(w).Encode(statusResponse{Ready: ready})
	})
	mux.HandleFunc("/send", func(w http.ResponseWriter, r *http.Request) {
		var req sendRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		g.mu.Lock()
		g.received = append(g.received, req)
		g.mu.Unlock()
		if g.delay > 0 {
			time.Sleep(g.delay)
		}
		w.WriteHeader(g.sendCode)
		_, _ = w.Write([]byte(g.sendBody))
	})
	mux.HandleFunc("/qr", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"authenticated":false,"message":"Waiting for QR code..."}`))
	})
	return mux
}

func (g *fakeGateway) requests() []sendRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]sendRequest(nil), g.received...)
}

func newGateway(t *testing.T, g *fakeGateway) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(g.handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestIsReady(t *testing.T) {
	g := &fakeGateway{ready: true}
	srv := newGateway(t, g)
	assert.True(t, New(srv.URL).IsReady(context.Background()))

	g.mu.Lock()
	g.ready = false
	g.mu.Unlock()
	assert.False(t, New(srv.URL).IsReady(context.Background()))
}

func TestIsReadyNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"ready":true}`))
	}))
	defer srv.Close()
	assert.False(t, New(srv.URL).IsReady(context.Background()))
}

func TestSendSuccess(t *testing.T) {
	g := &fakeGateway{ready: true, sendCode: http.StatusOK, sendBody: `{"success":true,"message":"Message sent to 966501234567"}`}
	srv := newGateway(t, g)

	ok, detail := New(srv.URL + "/").Send(context.Background(), "+966 501234567", "hello")
	assert.True(t, ok)
	assert.Equal(t, "Message sent to 966501234567", detail)
	require.Len(t, g.requests(), 1)
	assert.Equal(t, "966501234567", g.requests()[0].PhoneNumber)
	assert.Equal(t, "hello", g.requests()[0].Message)
}

func TestSendBridgeError(t *testing.T) {
	g := &fakeGateway{ready: true, sendCode: http.StatusBadRequest, sendBody: `{"error":"number not registered"}`}
	srv := newGateway(t, g)

	ok, detail := New(srv.URL).Send(context.Background(), "+966501234567", "hello")
	assert.False(t, ok)
	assert.Equal(t, "number not registered", detail)
}

func TestSendNotReady(t *testing.T) {
	g := &fakeGateway{ready: false}
	srv := newGateway(t, g)

	ok, detail := New(srv.URL).Send(context.Background(), "+966501234567", "hello")
	assert.False(t, ok)
	assert.Contains(t, detail, "not ready")
	assert.Empty(t, g.requests())
}

func TestSendConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	ok, detail := New(url).Send(context.Background(), "+966501234567", "hello")
	assert.False(t, ok)
	assert.NotEmpty(t, detail)
}

func TestSendTimeout(t *testing.T) {
	g := &fakeGateway{ready: true, sendCode: http.StatusOK, sendBody: `{"message":"late"}`, delay: 300 * time.Millisecond}
	srv := newGateway(t, g)

	c := New(srv.URL, WithTimeouts(time.Second, 50*time.Millisecond))
	ok, detail := c.Send(context.Background(), "+966501234567", "hello")
	assert.False(t, ok)
	assert.Contains(t, detail, "timed out")
}

func TestSendMalformedJSON(t *testing.T) {
	g := &fakeGateway{ready: true, sendCode: http.StatusOK, sendBody: `<html>oops</html>`}
	srv := newGateway(t, g)

	ok, detail := New(srv.URL).Send(context.Background(), "+966501234567", "hello")
	assert.False(t, ok)
	assert.Contains(t, detail, "malformed")
}

func TestSendEmptyPhone(t *testing.T) {
	g := &fakeGateway{ready: true, sendCode: http.StatusOK, sendBody: `{}`}
	srv := newGateway(t, g)

	ok, detail := New(srv.URL).Send(context.Background(), "+", "hello")
	assert.False(t, ok)
	assert.NotEmpty(t, detail)
	assert.Empty(t, g.requests())
}

func TestDescribe(t *testing.T) {
	c := New("http://bridge")
	assert.Contains(t, c.describe(context.DeadlineExceeded), "timed out")
}

func TestQRWaiting(t *testing.T) {
	srv := newGateway(t, &fakeGateway{})
	status, err := New(srv.URL).QR(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Authenticated)
	assert.Empty(t, status.QR)
	assert.Equal(t, "Waiting for QR code...", status.Message)
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "966501234567", NormalizePhone("+966 50-123-4567"))
	assert.Equal(t, "", NormalizePhone("+"))
}
