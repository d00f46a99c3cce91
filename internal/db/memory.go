package db

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

// MemoryStore keeps everything in process. It enforces the same uniqueness,
// reference and cascade rules as the postgres schema.
type MemoryStore struct {
	mu        sync.RWMutex
	nextID    int
	users     map[int]model.User
	mosques   map[int]model.Mosque
	callers   map[int]model.Caller
	schedules map[int]model.Schedule
	now       func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[int]model.User),
		mosques:   make(map[int]model.Mosque),
		callers:   make(map[int]model.Caller),
		schedules: make(map[int]model.Schedule),
		now:       time.Now,
	}
}

func (s *MemoryStore) id() int {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) CreateUser(_ context.Context, email, hashedPassword string, name *string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return 0, ErrEmailTaken
		}
	}
	now := s.now()
	u := model.User{ID: s.id(), Email: email, HashedPassword: hashedPassword, Name: name, CreatedAt: now, UpdatedAt: now}
	s.users[u.ID] = u
	return u.ID, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetUserByID(_ context.Context, id int) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) UpdateUserProfile(_ context.Context, id int, email string, name *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	for _, other := range s.users {
		if other.ID != id && strings.EqualFold(other.Email, email) {
			return ErrEmailTaken
		}
	}
	u.Email, u.Name, u.UpdatedAt = email, name, s.now()
	s.users[id] = u
	return nil
}

func (s *MemoryStore) CreateMosque(_ context.Context, m model.Mosque) (model.Mosque, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(m.Name) == "" {
		return model.Mosque{}, ErrBlankName
	}
	m.ID = s.id()
	m.CreatedAt = s.now()
	m.UpdatedAt = m.CreatedAt
	s.mosques[m.ID] = m
	return m, nil
}

func (s *MemoryStore) GetMosque(_ context.Context, id int) (model.Mosque, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.mosques[id]
	if !ok {
		return model.Mosque{}, ErrNotFound
	}
	return m, nil
}

func (s *MemoryStore) ListMosques(_ context.Context) ([]model.Mosque, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Mosque, 0, len(s.mosques))
	for _, m := range s.mosques {
		out = append(out, m)
	}
	sortMosques(out)
	return out, nil
}

func (s *MemoryStore) UpdateMosque(_ context.Context, m model.Mosque) (model.Mosque, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(m.Name) == "" {
		return model.Mosque{}, ErrBlankName
	}
	prev, ok := s.mosques[m.ID]
	if !ok {
		return model.Mosque{}, ErrNotFound
	}
	m.CreatedAt = prev.CreatedAt
	m.UpdatedAt = s.now()
	s.mosques[m.ID] = m
	return m, nil
}

func (s *MemoryStore) DeleteMosque(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mosques[id]; !ok {
		return ErrNotFound
	}
	delete(s.mosques, id)
	for sid, sc := range s.schedules {
		if sc.MosqueID == id {
			delete(s.schedules, sid)
		}
	}
	return nil
}

func (s *MemoryStore) CreateCaller(_ context.Context, c model.Caller) (model.Caller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(c.Name) == "" {
		return model.Caller{}, ErrBlankName
	}
	c.ID = s.id()
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	s.callers[c.ID] = c
	return c, nil
}

func (s *MemoryStore) GetCaller(_ context.Context, id int) (model.Caller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.callers[id]
	if !ok {
		return model.Caller{}, ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) ListCallers(_ context.Context) ([]model.Caller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Caller, 0, len(s.callers))
	for _, c := range s.callers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) UpdateCaller(_ context.Context, c model.Caller) (model.Caller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(c.Name) == "" {
		return model.Caller{}, ErrBlankName
	}
	prev, ok := s.callers[c.ID]
	if !ok {
		return model.Caller{}, ErrNotFound
	}
	c.CreatedAt = prev.CreatedAt
	c.UpdatedAt = s.now()
	s.callers[c.ID] = c
	return c, nil
}

func (s *MemoryStore) DeleteCaller(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.callers[id]; !ok {
		return ErrNotFound
	}
	delete(s.callers, id)
	for sid, sc := range s.schedules {
		if sc.CallerID == id {
			delete(s.schedules, sid)
		}
	}
	return nil
}

// checkSchedule validates references and the (mosque, weekday, slot)
// uniqueness rule, ignoring the schedule being replaced.
func (s *MemoryStore) checkSchedule(sc model.Schedule) error {
	m, ok := s.mosques[sc.MosqueID]
	if !ok {
		return ErrInvalidReference
	}
	if _, ok := s.callers[sc.CallerID]; !ok {
		return ErrInvalidReference
	}
	for _, other := range s.schedules {
		if other.ID != sc.ID && other.MosqueID == sc.MosqueID &&
			other.Weekday == sc.Weekday && other.Prayer == sc.Prayer {
			return &DuplicateScheduleError{
				MosqueID:   m.ID,
				MosqueName: m.Name,
				Weekday:    sc.Weekday,
				Prayer:     sc.Prayer,
			}
		}
	}
	return nil
}

// hydrate attaches copies of the schedule's mosque and caller.
func (s *MemoryStore) hydrate(sc model.Schedule) model.Schedule {
	m, c := s.mosques[sc.MosqueID], s.callers[sc.CallerID]
	sc.Mosque, sc.Caller = &m, &c
	return sc
}

func (s *MemoryStore) CreateSchedule(_ context.Context, sc model.Schedule) (model.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc.ID = 0
	if err := s.checkSchedule(sc); err != nil {
		return model.Schedule{}, err
	}
	sc.ID = s.id()
	sc.CreatedAt = s.now()
	sc.UpdatedAt = sc.CreatedAt
	sc.Mosque, sc.Caller = nil, nil
	s.schedules[sc.ID] = sc
	return s.hydrate(sc), nil
}

func (s *MemoryStore) GetSchedule(_ context.Context, id int) (model.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.schedules[id]
	if !ok {
		return model.Schedule{}, ErrNotFound
	}
	return s.hydrate(sc), nil
}

func (s *MemoryStore) UpdateSchedule(_ context.Context, sc model.Schedule) (model.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.schedules[sc.ID]
	if !ok {
		return model.Schedule{}, ErrNotFound
	}
	if err := s.checkSchedule(sc); err != nil {
		return model.Schedule{}, err
	}
	sc.CreatedAt = prev.CreatedAt
	sc.UpdatedAt = s.now()
	sc.Mosque, sc.Caller = nil, nil
	s.schedules[sc.ID] = sc
	return s.hydrate(sc), nil
}

func (s *MemoryStore) DeleteSchedule(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.schedules[id]; !ok {
		return ErrNotFound
	}
	delete(s.schedules, id)
	return nil
}

// collect returns hydrated schedules matching keep, unordered.
func (s *MemoryStore) collect(keep func(model.Schedule) bool) []model.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Schedule{}
	for _, sc := range s.schedules {
		if keep(sc) {
			out = append(out, s.hydrate(sc))
		}
	}
	return out
}

func (s *MemoryStore) SchedulesForWeekday(_ context.Context, w model.Weekday) ([]model.Schedule, error) {
	out := s.collect(func(sc model.Schedule) bool { return sc.Weekday == w })
	SortBySlot(out)
	return out, nil
}

func (s *MemoryStore) SchedulesForMosque(_ context.Context, mosqueID int, w model.Weekday) ([]model.Schedule, error) {
	out := s.collect(func(sc model.Schedule) bool { return sc.MosqueID == mosqueID && sc.Weekday == w })
	SortBySlot(out)
	return out, nil
}

func (s *MemoryStore) MosqueWeek(_ context.Context, mosqueID int) ([]model.Schedule, error) {
	out := s.collect(func(sc model.Schedule) bool { return sc.MosqueID == mosqueID })
	SortByNextOccurrence(out, model.Saturday)
	return out, nil
}

func (s *MemoryStore) MosquesWithSchedule(_ context.Context, w model.Weekday) ([]model.Mosque, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int]bool)
	out := []model.Mosque{}
	for _, sc := range s.schedules {
		if sc.Weekday != w || seen[sc.MosqueID] {
			continue
		}
		seen[sc.MosqueID] = true
		out = append(out, s.mosques[sc.MosqueID])
	}
	sortMosques(out)
	return out, nil
}

func (s *MemoryStore) AllSchedules(_ context.Context, today model.Weekday) ([]model.Schedule, error) {
	out := s.collect(func(model.Schedule) bool { return true })
	SortByNextOccurrence(out, today)
	return out, nil
}
