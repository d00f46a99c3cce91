package db

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

// scheduleRow is a schedule joined with its mosque and caller.
type scheduleRow struct {
	model.Schedule
	Mosque model.Mosque `db:"mosque"`
	Caller model.Caller `db:"caller"`
}

func (r scheduleRow) toModel() model.Schedule {
	s := r.Schedule
	m, c := r.Mosque, r.Caller
	s.Mosque, s.Caller = &m, &c
	return s
}

const scheduleSelect = `
	SELECT s.id, s.mosque_id, s.caller_id, s.weekday, s.prayer_slot, s.notes, s.created_at, s.updated_at,
	m.id AS "mosque.id", m.name AS "mosque.name", m.address AS "mosque.address",
	m.country_code AS "mosque.country_code", m.phone AS "mosque.phone",
	c.id AS "caller.id", c.name AS "caller.name", c.country_code AS "caller.country_code",
	c.phone AS "caller.phone", c.email AS "caller.email"
	FROM schedules s
	JOIN mosques m ON m.id = s.mosque_id
	JOIN callers c ON c.id = s.caller_id
`

// slotOrder ranks prayer_slot in day order.
var slotOrder = func() string {
	quoted := make([]string, len(model.PrayerSlots))
	for i, p := range model.PrayerSlots {
		quoted[i] = "'" + string(p) + "'"
	}
	return "array_position(ARRAY[" + strings.Join(quoted, ",") + "]::text[], s.prayer_slot)"
}()

func (s *pgStore) selectSchedules(ctx context.Context, where, order string, args ...any) ([]model.Schedule, error) {
	q := scheduleSelect
	if where != "" {
		q += " WHERE " + where
	}
	q += " ORDER BY " + order

	var rows []scheduleRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	out := make([]model.Schedule, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

func (s *pgStore) GetSchedule(ctx context.Context, id int) (model.Schedule, error) {
	var r scheduleRow
	if err := s.db.GetContext(ctx, &r, scheduleSelect+" WHERE s.id = $1", id); err != nil {
		log.Error().Err(err).Int("schedule_id", id).Msg("failed to get schedule")
		return model.Schedule{}, translate(err)
	}
	return r.toModel(), nil
}

func (s *pgStore) CreateSchedule(ctx context.Context, sc model.Schedule) (model.Schedule, error) {
	q := `
	INSERT INTO schedules (mosque_id, caller_id, weekday, prayer_slot, notes, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, now(), now())
	RETURNING id;
	`
	var id int
	err := s.db.QueryRowContext(ctx, q, sc.MosqueID, sc.CallerID, sc.Weekday, sc.Prayer, sc.Notes).Scan(&id)
	if err != nil {
		log.Error().Err(err).
			Int("mosque_id", sc.MosqueID).
			Int("weekday", int(sc.Weekday)).
			Str("prayer", string(sc.Prayer)).
			Msg("failed to create schedule")
		return model.Schedule{}, s.scheduleWriteError(ctx, sc, err)
	}
	return s.GetSchedule(ctx, id)
}

func (s *pgStore) UpdateSchedule(ctx context.Context, sc model.Schedule) (model.Schedule, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE schedules
		SET mosque_id = $2,
		caller_id = $3,
		weekday = $4,
		prayer_slot = $5,
		notes = $6,
		updated_at = now()
		WHERE id = $1
		`, sc.ID, sc.MosqueID, sc.CallerID, sc.Weekday, sc.Prayer, sc.Notes)
	if err != nil {
		log.Error().Err(err).Int("schedule_id", sc.ID).Msg("failed to update schedule")
		return model.Schedule{}, s.scheduleWriteError(ctx, sc, err)
	}
	if err := expectRow(res); err != nil {
		return model.Schedule{}, err
	}
	return s.GetSchedule(ctx, sc.ID)
}

func (s *pgStore) DeleteSchedule(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int("schedule_id", id).Msg("failed to delete schedule")
		return err
	}
	return expectRow(res)
}

// scheduleWriteError names the conflicting mosque on a uniqueness violation.
func (s *pgStore) scheduleWriteError(ctx context.Context, sc model.Schedule, err error) error {
	if !isDuplicateSchedule(err) {
		return translate(err)
	}
	dup := &DuplicateScheduleError{MosqueID: sc.MosqueID, Weekday: sc.Weekday, Prayer: sc.Prayer}
	if m, getErr := s.GetMosque(ctx, sc.MosqueID); getErr == nil {
		dup.MosqueName = m.Name
	}
	return dup
}

func (s *pgStore) SchedulesForWeekday(ctx context.Context, w model.Weekday) ([]model.Schedule, error) {
	out, err := s.selectSchedules(ctx, "s.weekday = $1", slotOrder+", m.name, s.id", w)
	if err != nil {
		log.Error().Err(err).Int("weekday", int(w)).Msg("failed to list schedules for weekday")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) SchedulesForMosque(ctx context.Context, mosqueID int, w model.Weekday) ([]model.Schedule, error) {
	out, err := s.selectSchedules(ctx, "s.mosque_id = $1 AND s.weekday = $2", slotOrder+", s.id", mosqueID, w)
	if err != nil {
		log.Error().Err(err).Int("mosque_id", mosqueID).Int("weekday", int(w)).Msg("failed to list mosque schedules")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) MosqueWeek(ctx context.Context, mosqueID int) ([]model.Schedule, error) {
	out, err := s.selectSchedules(ctx, "s.mosque_id = $1", "s.weekday, "+slotOrder+", s.id", mosqueID)
	if err != nil {
		log.Error().Err(err).Int("mosque_id", mosqueID).Msg("failed to list mosque week")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) MosquesWithSchedule(ctx context.Context, w model.Weekday) ([]model.Mosque, error) {
	mosques := []model.Mosque{}
	err := s.db.SelectContext(ctx, &mosques, `
		SELECT `+mosqueColumns+`
		FROM mosques
		WHERE id IN (SELECT mosque_id FROM schedules WHERE weekday = $1)
		ORDER BY name, id
		`, w)
	if err != nil {
		log.Error().Err(err).Int("weekday", int(w)).Msg("failed to list mosques with schedule")
		return nil, err
	}
	return mosques, nil
}

func (s *pgStore) AllSchedules(ctx context.Context, today model.Weekday) ([]model.Schedule, error) {
	out, err := s.selectSchedules(ctx, "", "(s.weekday - $1 + 7) % 7, "+slotOrder+", m.name, s.id", today)
	if err != nil {
		log.Error().Err(err).Int("today", int(today)).Msg("failed to list schedules")
		return nil, err
	}
	return out, nil
}
