package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/minbar/internal/bridge"
	"github.com/Nixie-Tech-LLC/minbar/internal/db"
	"github.com/Nixie-Tech-LLC/minbar/internal/dispatch"
	"github.com/Nixie-Tech-LLC/minbar/internal/events"
	"github.com/Nixie-Tech-LLC/minbar/internal/locale"
	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

var riyadh = time.FixedZone("AST", 3*60*60)

// sunday is 2025-04-13, 15 Shawwal 1446.
func sunday() time.Time {
	return time.Date(2025, time.April, 13, 9, 30, 0, 0, riyadh)
}

type sentMessage struct {
	Phone   string `json:"phone_number"`
	Message string `json:"message"`
}

type gateway struct {
	mu    sync.Mutex
	ready bool
	sent  []sentMessage
}

func newGateway(t *testing.T) (*gateway, *bridge.Client) {
	t.Helper()
	g := &gateway{ready: true}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		switch r.URL.Path {
		case "/status":
			_ = json.NewEncoder(w).Encode(map[string]bool{"ready": g.ready})
		case "/send":
			var m sentMessage
			_ = json.NewDecoder(r.Body).Decode(&m)
			g.sent = append(g.sent, m)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Message sent successfully"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return g, bridge.New(srv.URL)
}

func (g *gateway) setReady(ready bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ready = ready
}

func (g *gateway) messages() []sentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]sentMessage(nil), g.sent...)
}

type recordingPublisher struct {
	runs []events.RunSummary
}

func (p *recordingPublisher) PublishRun(_ context.Context, run events.RunSummary) error {
	p.runs = append(p.runs, run)
	return nil
}

func (p *recordingPublisher) Close() {}

type fixture struct {
	store   *db.MemoryStore
	gateway *gateway
	client  *bridge.Client
	pub     *recordingPublisher
	svc     *Service
	noor    model.Mosque
	huda    model.Mosque
}

// newFixture seeds Al-Noor (Sunday dhuhr with Ahmad, Thursday asr with
// Omar) and Al-Huda (Sunday fajr with Omar, Monday isha with Ahmad).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: db.NewMemoryStore(), pub: &recordingPublisher{}}

	var err error
	f.noor, err = f.store.CreateMosque(ctx, model.Mosque{Name: "Al-Noor", Address: "Main St", CountryCode: "+966"})
	require.NoError(t, err)
	f.huda, err = f.store.CreateMosque(ctx, model.Mosque{Name: "Al-Huda", Address: "North Rd", CountryCode: "+966", Phone: "112345678"})
	require.NoError(t, err)
	ahmad, err := f.store.CreateCaller(ctx, model.Caller{Name: "Ahmad", CountryCode: "+966", Phone: "501234567"})
	require.NoError(t, err)
	omar, err := f.store.CreateCaller(ctx, model.Caller{Name: "Omar", CountryCode: "+971", Phone: "509998888"})
	require.NoError(t, err)

	for _, sc := range []model.Schedule{
		{MosqueID: f.noor.ID, CallerID: ahmad.ID, Weekday: model.Sunday, Prayer: model.Dhuhr},
		{MosqueID: f.noor.ID, CallerID: omar.ID, Weekday: model.Thursday, Prayer: model.Asr},
		{MosqueID: f.huda.ID, CallerID: omar.ID, Weekday: model.Sunday, Prayer: model.Fajr, Notes: "Topic: patience"},
		{MosqueID: f.huda.ID, CallerID: ahmad.ID, Weekday: model.Monday, Prayer: model.Isha},
	} {
		_, err := f.store.CreateSchedule(ctx, sc)
		require.NoError(t, err)
	}

	f.gateway, f.client = newGateway(t)
	engine := dispatch.NewEngine(f.client, dispatch.WithPacer(dispatch.NoPacer{}))
	f.svc = NewService(f.store, engine, locale.English,
		WithClock(sunday),
		WithPublisher(f.pub),
	)
	return f
}

func TestRemindDay_SendsTodaysReminders(t *testing.T) {
	f := newFixture(t)

	rep, err := f.svc.RemindDay(context.Background(), 0, Request{})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Sent)
	assert.Zero(t, rep.Failed)
	assert.Equal(t, "2025-04-13", rep.Date)

	sent := f.gateway.messages()
	require.Len(t, sent, 2)

	// fajr at Al-Huda comes before dhuhr at Al-Noor
	assert.Equal(t, "971509998888", sent[0].Phone)
	assert.Equal(t, "966501234567", sent[1].Phone)

	text := sent[1].Message
	for _, want := range []string{"Al-Noor", "Main St", "15 Shawwal 1446", "Dhuhr", "give a talk today"} {
		assert.Contains(t, text, want)
	}
	assert.NotContains(t, text, "Notes")
	assert.Contains(t, sent[0].Message, "Topic: patience")
}

func TestRemindDay_DryRunMatchesLive(t *testing.T) {
	f := newFixture(t)
	req := Request{Extra: "Please arrive early"}

	req.DryRun = true
	preview, err := f.svc.RemindDay(context.Background(), 0, req)
	require.NoError(t, err)
	assert.True(t, preview.DryRun)
	assert.Zero(t, preview.Sent)
	assert.Empty(t, f.gateway.messages())
	assert.Empty(t, f.pub.runs)
	require.Len(t, preview.Previews, 2)

	req.DryRun = false
	_, err = f.svc.RemindDay(context.Background(), 0, req)
	require.NoError(t, err)
	sent := f.gateway.messages()
	require.Len(t, sent, 2)
	for i := range sent {
		assert.Equal(t, preview.Previews[i].Message, sent[i].Message)
	}
}

func TestRemindDay_FutureDay(t *testing.T) {
	f := newFixture(t)

	rep, err := f.svc.RemindDay(context.Background(), 1, Request{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, "2025-04-14", rep.Date)
	require.Len(t, rep.Previews, 1)
	assert.Equal(t, "Ahmad", rep.Previews[0].Recipient)
	assert.Contains(t, rep.Previews[0].Message, "on Monday")
	assert.Contains(t, rep.Previews[0].Message, "Isha")
}

func TestRemindDay_NoSchedules(t *testing.T) {
	f := newFixture(t)

	// 2025-04-15 is a Tuesday
	_, err := f.svc.RemindDay(context.Background(), 2, Request{})
	assert.ErrorIs(t, err, ErrNoSchedules)
	assert.Empty(t, f.gateway.messages())
	assert.Empty(t, f.pub.runs)
}

func TestRemindDay_InvalidOffset(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RemindDay(context.Background(), 7, Request{})
	assert.ErrorIs(t, err, ErrInvalidOffset)
	_, err = f.svc.RemindDay(context.Background(), -1, Request{})
	assert.ErrorIs(t, err, ErrInvalidOffset)
}

func TestRemindDay_BridgeNotReady(t *testing.T) {
	f := newFixture(t)
	f.gateway.setReady(false)

	rep, err := f.svc.RemindDay(context.Background(), 0, Request{})
	assert.ErrorIs(t, err, dispatch.ErrBridgeNotReady)
	assert.Zero(t, rep.Sent)
	assert.Empty(t, f.gateway.messages())

	require.Len(t, f.pub.runs, 1)
	assert.NotEmpty(t, f.pub.runs[0].Error)
}

func TestRemindDay_PublishesSummary(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RemindDay(context.Background(), 0, Request{})
	require.NoError(t, err)

	require.Len(t, f.pub.runs, 1)
	run := f.pub.runs[0]
	assert.Equal(t, FlowDay, run.Flow)
	assert.Equal(t, "2025-04-13", run.Date)
	assert.Equal(t, 2, run.Targets)
	assert.Equal(t, 2, run.Sent)
	assert.Empty(t, run.Error)
}

func TestRemindWeek_DatesByNextOccurrence(t *testing.T) {
	f := newFixture(t)

	rep, err := f.svc.RemindWeek(context.Background(), Request{DryRun: true})
	require.NoError(t, err)
	require.Len(t, rep.Previews, 4)

	// Sunday (today) first, then Monday, then Thursday
	assert.Contains(t, rep.Previews[0].Message, "give a talk today")
	assert.Contains(t, rep.Previews[1].Message, "give a talk today")
	assert.Contains(t, rep.Previews[2].Message, "2025-04-14")
	assert.Contains(t, rep.Previews[3].Message, "2025-04-17")
	assert.Contains(t, rep.Previews[3].Message, "on Thursday")
}

func TestNotifyMosques(t *testing.T) {
	f := newFixture(t)

	rep, err := f.svc.NotifyMosques(context.Background(), 0, nil, Request{})
	require.NoError(t, err)

	// Al-Noor has no phone on record
	assert.Equal(t, 1, rep.Sent)
	assert.Equal(t, 1, rep.Failed)

	sent := f.gateway.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "966112345678", sent[0].Phone)
	assert.Contains(t, sent[0].Message, "Speaking roster for Al-Huda")
	assert.Contains(t, sent[0].Message, "Fajr: Omar (+971509998888)")
	assert.NotContains(t, sent[0].Message, "Ahmad")
}

func TestNotifyMosques_Selection(t *testing.T) {
	f := newFixture(t)

	rep, err := f.svc.NotifyMosques(context.Background(), 0, []int{f.noor.ID}, Request{DryRun: true})
	require.NoError(t, err)
	require.Len(t, rep.Previews, 1)
	assert.Equal(t, "Al-Noor", rep.Previews[0].Recipient)

	// Al-Noor has nothing on Monday
	_, err = f.svc.NotifyMosques(context.Background(), 1, []int{f.noor.ID}, Request{DryRun: true})
	assert.ErrorIs(t, err, ErrNoSchedules)
}

func TestMosqueWeek_Digest(t *testing.T) {
	f := newFixture(t)

	rep, err := f.svc.MosqueWeek(context.Background(), []int{f.huda.ID}, Request{DryRun: true})
	require.NoError(t, err)
	require.Len(t, rep.Previews, 1)

	text := rep.Previews[0].Message
	assert.Contains(t, text, "Weekly speaking roster for Al-Huda")
	sundayAt := strings.Index(text, "Sunday 2025-04-13")
	mondayAt := strings.Index(text, "Monday 2025-04-14")
	require.NotEqual(t, -1, sundayAt)
	require.NotEqual(t, -1, mondayAt)
	assert.Less(t, sundayAt, mondayAt)
}

func TestMosqueWeek_AllMosques(t *testing.T) {
	f := newFixture(t)

	rep, err := f.svc.MosqueWeek(context.Background(), nil, Request{DryRun: true})
	require.NoError(t, err)
	require.Len(t, rep.Previews, 2)
	assert.Equal(t, "Al-Huda", rep.Previews[0].Recipient)
	assert.Equal(t, "Al-Noor", rep.Previews[1].Recipient)
}

func TestMosqueWeek_UnknownMosque(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.MosqueWeek(context.Background(), []int{999}, Request{DryRun: true})
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestMosqueWeek_NoSchedules(t *testing.T) {
	f := newFixture(t)
	empty, err := f.store.CreateMosque(context.Background(), model.Mosque{Name: "Empty", CountryCode: "+966", Phone: "1"})
	require.NoError(t, err)

	_, err = f.svc.MosqueWeek(context.Background(), []int{empty.ID}, Request{})
	assert.ErrorIs(t, err, ErrNoSchedules)
}

func TestRemindDay_GuardPreventsDoubleSend(t *testing.T) {
	f := newFixture(t)
	engine := dispatch.NewEngine(f.client,
		dispatch.WithPacer(dispatch.NoPacer{}),
		dispatch.WithGuard(dispatch.NewMemoryGuard()),
	)
	svc := NewService(f.store, engine, locale.English, WithClock(sunday))

	first, err := svc.RemindDay(context.Background(), 0, Request{})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Sent)

	second, err := svc.RemindDay(context.Background(), 0, Request{})
	require.NoError(t, err)
	assert.Zero(t, second.Sent)
	assert.Equal(t, 2, second.Skipped)
	assert.Len(t, f.gateway.messages(), 2)
}
