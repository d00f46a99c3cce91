package notify

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Nixie-Tech-LLC/minbar/internal/calendar"
	"github.com/Nixie-Tech-LLC/minbar/internal/dispatch"
	"github.com/Nixie-Tech-LLC/minbar/internal/message"
	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

// RemindDay messages every caller scheduled offset days from today.
func (s *Service) RemindDay(ctx context.Context, offset int, req Request) (Report, error) {
	day, err := s.dayAhead(offset)
	if err != nil {
		return Report{}, err
	}
	schedules, err := s.store.SchedulesForWeekday(ctx, day.Index)
	if err != nil {
		return Report{}, err
	}
	if len(schedules) == 0 {
		return Report{}, ErrNoSchedules
	}

	targets := make([]dispatch.Target, 0, len(schedules))
	for _, sc := range schedules {
		t, err := s.reminderTarget(sc, day, offset == 0, req.Extra)
		if err != nil {
			return Report{}, err
		}
		targets = append(targets, t)
	}
	return s.run(ctx, FlowDay, day.Gregorian, targets, req)
}

// RemindWeek messages every caller with a talk in the coming seven days,
// each dated by the next time their weekday comes round.
func (s *Service) RemindWeek(ctx context.Context, req Request) (Report, error) {
	today := s.Today()
	schedules, err := s.store.AllSchedules(ctx, calendar.WeekdayIndex(today))
	if err != nil {
		return Report{}, err
	}
	if len(schedules) == 0 {
		return Report{}, ErrNoSchedules
	}

	days := make(map[model.Weekday]calendar.Day)
	targets := make([]dispatch.Target, 0, len(schedules))
	for _, sc := range schedules {
		day, ok := days[sc.Weekday]
		if !ok {
			if day, err = calendar.Describe(calendar.NextOccurrence(today, sc.Weekday), s.loc); err != nil {
				return Report{}, err
			}
			days[sc.Weekday] = day
		}
		t, err := s.reminderTarget(sc, day, day.Date.Equal(today), req.Extra)
		if err != nil {
			return Report{}, err
		}
		targets = append(targets, t)
	}
	return s.run(ctx, FlowWeek, today.Format(calendar.GregorianLayout), targets, req)
}

// NotifyMosques sends each mosque its roster for the day offset days ahead.
// With no mosqueIDs every mosque with a talk that day is notified.
func (s *Service) NotifyMosques(ctx context.Context, offset int, mosqueIDs []int, req Request) (Report, error) {
	day, err := s.dayAhead(offset)
	if err != nil {
		return Report{}, err
	}
	mosques, err := s.store.MosquesWithSchedule(ctx, day.Index)
	if err != nil {
		return Report{}, err
	}
	if len(mosqueIDs) > 0 {
		mosques = slices.DeleteFunc(mosques, func(m model.Mosque) bool {
			return !slices.Contains(mosqueIDs, m.ID)
		})
	}
	if len(mosques) == 0 {
		return Report{}, ErrNoSchedules
	}

	targets := make([]dispatch.Target, 0, len(mosques))
	for _, m := range mosques {
		schedules, err := s.store.SchedulesForMosque(ctx, m.ID, day.Index)
		if err != nil {
			return Report{}, err
		}
		text, err := message.Roster(s.loc, message.RosterInput{Mosque: m, Day: day, Schedules: schedules, Extra: req.Extra})
		if err != nil {
			return Report{}, err
		}
		targets = append(targets, dispatch.Target{
			Key:       fmt.Sprintf("roster:%d:%s", m.ID, day.Gregorian),
			Recipient: m.Name,
			Phone:     m.FullPhone(),
			Message:   text,
		})
	}
	return s.run(ctx, FlowMosques, day.Gregorian, targets, req)
}

// MosqueWeek sends each mosque its whole weekly roster. With no mosqueIDs
// every mosque is considered; mosques without schedules are passed over.
func (s *Service) MosqueWeek(ctx context.Context, mosqueIDs []int, req Request) (Report, error) {
	mosques, err := s.selectMosques(ctx, mosqueIDs)
	if err != nil {
		return Report{}, err
	}

	today := s.Today()
	date := today.Format(calendar.GregorianLayout)
	targets := make([]dispatch.Target, 0, len(mosques))
	for _, m := range mosques {
		week, err := s.store.MosqueWeek(ctx, m.ID)
		if err != nil {
			return Report{}, err
		}
		if len(week) == 0 {
			continue
		}
		days, err := s.groupByDay(today, week)
		if err != nil {
			return Report{}, err
		}
		text, err := message.WeeklyDigest(s.loc, message.DigestInput{Mosque: m, Days: days, Extra: req.Extra})
		if err != nil {
			return Report{}, err
		}
		targets = append(targets, dispatch.Target{
			Key:       fmt.Sprintf("digest:%d:%s", m.ID, date),
			Recipient: m.Name,
			Phone:     m.FullPhone(),
			Message:   text,
		})
	}
	if len(targets) == 0 {
		return Report{}, ErrNoSchedules
	}
	return s.run(ctx, FlowMosqueWeek, date, targets, req)
}

func (s *Service) selectMosques(ctx context.Context, ids []int) ([]model.Mosque, error) {
	if len(ids) == 0 {
		return s.store.ListMosques(ctx)
	}
	mosques := make([]model.Mosque, 0, len(ids))
	for _, id := range ids {
		m, err := s.store.GetMosque(ctx, id)
		if err != nil {
			return nil, err
		}
		mosques = append(mosques, m)
	}
	return mosques, nil
}

// groupByDay splits a weekday-ordered week into day groups dated by next
// occurrence from today.
func (s *Service) groupByDay(today time.Time, week []model.Schedule) ([]message.DigestDay, error) {
	var days []message.DigestDay
	for _, sc := range week {
		if n := len(days); n > 0 && days[n-1].Day.Index == sc.Weekday {
			days[n-1].Schedules = append(days[n-1].Schedules, sc)
			continue
		}
		day, err := calendar.Describe(calendar.NextOccurrence(today, sc.Weekday), s.loc)
		if err != nil {
			return nil, err
		}
		days = append(days, message.DigestDay{Day: day, Schedules: []model.Schedule{sc}})
	}
	return days, nil
}

func (s *Service) reminderTarget(sc model.Schedule, day calendar.Day, today bool, extra string) (dispatch.Target, error) {
	text, err := message.Reminder(s.loc, message.ReminderInput{Schedule: sc, Day: day, Today: today, Extra: extra})
	if err != nil {
		return dispatch.Target{}, err
	}
	t := dispatch.Target{
		Key:     fmt.Sprintf("reminder:%d:%s", sc.ID, day.Gregorian),
		Message: text,
	}
	if sc.Caller != nil {
		t.Recipient = sc.Caller.Name
		t.Phone = sc.Caller.FullPhone()
	}
	return t, nil
}
