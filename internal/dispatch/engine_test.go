package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu     sync.Mutex
	ready  bool
	fail   map[string]string
	sent   []string
	onSend func()
}

func (f *fakeSender) IsReady(context.Context) bool { return f.ready }

func (f *fakeSender) Send(_ context.Context, phone, _ string) (bool, string) {
	f.mu.Lock()
	f.sent = append(f.sent, phone)
	f.mu.Unlock()
	if f.onSend != nil {
		f.onSend()
	}
	if detail, ok := f.fail[phone]; ok {
		return false, detail
	}
	return true, "message sent"
}

type countingPacer struct{ calls []int }

func (p *countingPacer) Wait(_ context.Context, done, _ int) error {
	p.calls = append(p.calls, done)
	return nil
}

type brokenGuard struct{}

func (brokenGuard) Acquire(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}
func (brokenGuard) Release(context.Context, string) error { return nil }

func targets(phones ...string) []Target {
	out := make([]Target, len(phones))
	for i, p := range phones {
		out[i] = Target{Key: "k:" + p, Recipient: "caller " + p, Phone: p, Message: "hello"}
	}
	return out
}

func TestDispatch_CountsOutcomes(t *testing.T) {
	s := &fakeSender{ready: true, fail: map[string]string{"+2": "invalid number"}}
	e := NewEngine(s, WithPacer(NoPacer{}))

	res, err := e.Dispatch(context.Background(), targets("+1", "+2", "+3"), Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Sent)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Details, 3)
	assert.False(t, res.Details[1].Success)
	assert.Equal(t, "invalid number", res.Details[1].Detail)
	assert.Equal(t, []string{"+1", "+2", "+3"}, s.sent)
}

func TestDispatch_BridgeNotReady(t *testing.T) {
	s := &fakeSender{ready: false}
	res, err := NewEngine(s).Dispatch(context.Background(), targets("+1"), Options{})
	assert.ErrorIs(t, err, ErrBridgeNotReady)
	assert.Zero(t, res.Sent)
	assert.Empty(t, s.sent)
}

func TestDispatch_EmptyTargets(t *testing.T) {
	s := &fakeSender{ready: false}
	res, err := NewEngine(s).Dispatch(context.Background(), nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Details)
}

func TestDispatch_MissingPhoneIsFailure(t *testing.T) {
	s := &fakeSender{ready: true}
	ts := targets("+1")
	ts = append(ts, Target{Recipient: "no phone", Phone: "  "})

	res, err := NewEngine(s, WithPacer(NoPacer{})).Dispatch(context.Background(), ts, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 1, res.Failed)
	assert.Len(t, s.sent, 1)
}

func TestDispatch_PacesBetweenRecipientsOnly(t *testing.T) {
	s := &fakeSender{ready: true}
	p := &countingPacer{}
	e := NewEngine(s, WithPacer(p))

	_, err := e.Dispatch(context.Background(), targets("+1", "+2", "+3"), Options{Pace: true})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, p.calls)

	p.calls = nil
	_, err = e.Dispatch(context.Background(), targets("+1", "+2"), Options{Pace: false})
	require.NoError(t, err)
	assert.Empty(t, p.calls)
}

func TestDispatch_GuardSkipsDuplicates(t *testing.T) {
	s := &fakeSender{ready: true}
	e := NewEngine(s, WithPacer(NoPacer{}), WithGuard(NewMemoryGuard()))

	first, err := e.Dispatch(context.Background(), targets("+1", "+2"), Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Sent)

	second, err := e.Dispatch(context.Background(), targets("+1", "+2"), Options{})
	require.NoError(t, err)
	assert.Zero(t, second.Sent)
	assert.Equal(t, 2, second.Skipped)
	assert.True(t, second.Details[0].Skipped)
	assert.Len(t, s.sent, 2)
}

func TestDispatch_GuardReleasedOnFailure(t *testing.T) {
	s := &fakeSender{ready: true, fail: map[string]string{"+1": "bridge error"}}
	g := NewMemoryGuard()
	e := NewEngine(s, WithPacer(NoPacer{}), WithGuard(g))

	res, err := e.Dispatch(context.Background(), targets("+1"), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)

	claimed, err := g.Acquire(context.Background(), "k:+1")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestDispatch_GuardErrorStillSends(t *testing.T) {
	s := &fakeSender{ready: true}
	e := NewEngine(s, WithPacer(NoPacer{}), WithGuard(brokenGuard{}))

	res, err := e.Dispatch(context.Background(), targets("+1"), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
}

func TestDispatch_CancelStopsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &fakeSender{ready: true, onSend: cancel}

	res, err := NewEngine(s, WithPacer(NoPacer{})).Dispatch(ctx, targets("+1", "+2", "+3"), Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, res.Sent)
	assert.Len(t, s.sent, 1)
}

func TestRandomPacer_DelayWithinBounds(t *testing.T) {
	p := NewRandomPacer(2*time.Minute, 5*time.Minute)
	for range 200 {
		d := p.Delay()
		assert.GreaterOrEqual(t, d, 2*time.Minute)
		assert.LessOrEqual(t, d, 5*time.Minute)
	}

	fixed := NewRandomPacer(time.Second, 0)
	assert.Equal(t, time.Second, fixed.Delay())
}

func TestRandomPacer_WaitHonoursContext(t *testing.T) {
	p := NewRandomPacer(time.Hour, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.Wait(ctx, 1, 2)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
