// exposes a Store interface that is passed to API handlers and reminder flows
package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

type Store interface {
	// user functions
	CreateUser(ctx context.Context, email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int) (*model.User, error)
	UpdateUserProfile(ctx context.Context, id int, email string, name *string) error

	// mosque functions
	CreateMosque(ctx context.Context, m model.Mosque) (model.Mosque, error)
	GetMosque(ctx context.Context, id int) (model.Mosque, error)
	ListMosques(ctx context.Context) ([]model.Mosque, error)
	UpdateMosque(ctx context.Context, m model.Mosque) (model.Mosque, error)
	DeleteMosque(ctx context.Context, id int) error

	// caller functions
	CreateCaller(ctx context.Context, c model.Caller) (model.Caller, error)
	GetCaller(ctx context.Context, id int) (model.Caller, error)
	ListCallers(ctx context.Context) ([]model.Caller, error)
	UpdateCaller(ctx context.Context, c model.Caller) (model.Caller, error)
	DeleteCaller(ctx context.Context, id int) error

	// schedule functions; returned schedules carry their Mosque and Caller
	CreateSchedule(ctx context.Context, s model.Schedule) (model.Schedule, error)
	GetSchedule(ctx context.Context, id int) (model.Schedule, error)
	UpdateSchedule(ctx context.Context, s model.Schedule) (model.Schedule, error)
	DeleteSchedule(ctx context.Context, id int) error

	// SchedulesForWeekday is ordered by prayer slot, then mosque name, then id.
	SchedulesForWeekday(ctx context.Context, w model.Weekday) ([]model.Schedule, error)
	// SchedulesForMosque is SchedulesForWeekday narrowed to one mosque.
	SchedulesForMosque(ctx context.Context, mosqueID int, w model.Weekday) ([]model.Schedule, error)
	// MosqueWeek is every schedule of one mosque ordered by weekday, then slot.
	MosqueWeek(ctx context.Context, mosqueID int) ([]model.Schedule, error)
	// MosquesWithSchedule lists, by name, the mosques with a talk on w.
	MosquesWithSchedule(ctx context.Context, w model.Weekday) ([]model.Mosque, error)
	// AllSchedules is ordered by how soon each weekday next comes round
	// counting from today, then by slot.
	AllSchedules(ctx context.Context, today model.Weekday) ([]model.Schedule, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(db *sqlx.DB) Store {
	return &pgStore{db: db}
}
