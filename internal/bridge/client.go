// Package bridge talks to the messaging gateway that relays texts to the chat
// network. The gateway exposes a readiness probe, a send call and a pairing QR.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultProbeTimeout = 5 * time.Second
	DefaultSendTimeout  = 30 * time.Second
)

type Client struct {
	baseURL string
	probe   *http.Client
	send    *http.Client
}

type Option func(*Client)

// WithTimeouts overrides the readiness probe and send timeouts.
func WithTimeouts(probe, send time.Duration) Option {
	return func(c *Client) {
		c.probe.Timeout = probe
		c.send.Timeout = send
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		probe:   &http.Client{Timeout: DefaultProbeTimeout},
		send:    &http.Client{Timeout: DefaultSendTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type statusResponse struct {
	Ready   bool   `json:"ready"`
	Message string `json:"message"`
}

type sendRequest struct {
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
}

type sendResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// IsReady reports whether the gateway is up and authenticated. Any failure
// reads as not ready.
func (c *Client) IsReady(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		log.Error().Err(err).Msg("bridge status request")
		return false
	}
	resp, err := c.probe.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("bridge", c.baseURL).Msg("bridge status check failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("bridge status check returned non-200")
		return false
	}
	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		log.Warn().Err(err).Msg("bridge status response is not valid JSON")
		return false
	}
	return status.Ready
}

// Send delivers text to phone. It never returns an error: every outcome is a
// success flag plus a human readable detail.
func (c *Client) Send(ctx context.Context, phone, text string) (bool, string) {
	if !c.IsReady(ctx) {
		return false, "messaging bridge is not ready; make sure it is running and authenticated"
	}

	digits := NormalizePhone(phone)
	if digits == "" {
		return false, fmt.Sprintf("invalid phone number %q", phone)
	}

	body, err := json.Marshal(sendRequest{PhoneNumber: digits, Message: text})
	if err != nil {
		return false, fmt.Sprintf("error encoding message: %v", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Sprintf("error building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.send.Do(req)
	if err != nil {
		return false, c.describe(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Sprintf("error reading bridge response: %v", err)
	}

	var out sendResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Warn().Int("status", resp.StatusCode).Str("body", string(raw)).Msg("bridge returned malformed response")
		return false, fmt.Sprintf("malformed response from messaging bridge (status %d)", resp.StatusCode)
	}

	log.Debug().
		Str("phone", digits).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("bridge send")

	if resp.StatusCode == http.StatusOK {
		if out.Message == "" {
			out.Message = "message sent"
		}
		return true, out.Message
	}
	if out.Error == "" {
		out.Error = fmt.Sprintf("messaging bridge returned status %d", resp.StatusCode)
	}
	return false, out.Error
}

func (c *Client) describe(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Sprintf("cannot connect to messaging bridge at %s; make sure it is running", c.baseURL)
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return "request timed out; messaging bridge took too long to respond"
	default:
		return fmt.Sprintf("error sending message: %v", err)
	}
}

// NormalizePhone keeps only the digits of phone, which is how the gateway
// addresses chats.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
