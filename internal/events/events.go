// Package events announces finished reminder runs to whoever is listening,
// such as a dashboard subscribed over MQTT or a websocket.
package events

import (
	"context"
	"time"
)

const DefaultTopic = "minbar/dispatch/runs"

// RunSummary describes one completed reminder flow.
type RunSummary struct {
	Flow       string    `json:"flow"`
	Date       string    `json:"date"`
	DryRun     bool      `json:"dry_run"`
	Targets    int       `json:"targets"`
	Sent       int       `json:"sent"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

type Publisher interface {
	PublishRun(ctx context.Context, run RunSummary) error
	Close()
}

// Nop discards every event.
type Nop struct{}

func (Nop) PublishRun(context.Context, RunSummary) error { return nil }

func (Nop) Close() {}
