package endpoints

import (
	"time"

	"github.com/Nixie-Tech-LLC/minbar/internal/calendar"
	"github.com/Nixie-Tech-LLC/minbar/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/minbar/internal/locale"
	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

// Calendar labels and dates schedules for display in the configured locale.
type Calendar struct {
	loc locale.Locale
	now func() time.Time
}

func NewCalendar(loc locale.Locale, now func() time.Time) *Calendar {
	return &Calendar{loc: loc, now: now}
}

func (c *Calendar) today() time.Time {
	return calendar.StartOfDay(c.now())
}

func (c *Calendar) schedule(sc model.Schedule) packets.ScheduleResponse {
	out := packets.ScheduleResponse{
		ID:          sc.ID,
		MosqueID:    sc.MosqueID,
		CallerID:    sc.CallerID,
		Weekday:     int(sc.Weekday),
		WeekdayName: c.loc.WeekdayName(sc.Weekday),
		Prayer:      string(sc.Prayer),
		PrayerName:  c.loc.PrayerName(sc.Prayer),
		Notes:       sc.Notes,
		NextDate:    calendar.NextOccurrence(c.today(), sc.Weekday).Format(calendar.GregorianLayout),
		CreatedAt:   sc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   sc.UpdatedAt.Format(time.RFC3339),
	}
	if sc.Mosque != nil {
		out.MosqueName = sc.Mosque.Name
	}
	if sc.Caller != nil {
		out.CallerName = sc.Caller.Name
		out.CallerPhone = sc.Caller.FullPhone()
	}
	return out
}

func (c *Calendar) schedules(all []model.Schedule) []packets.ScheduleResponse {
	out := make([]packets.ScheduleResponse, 0, len(all))
	for _, sc := range all {
		out = append(out, c.schedule(sc))
	}
	return out
}

// day describes date and attaches schedules.
func (c *Calendar) day(date time.Time, schedules []model.Schedule) (packets.DayResponse, error) {
	d, err := calendar.Describe(date, c.loc)
	if err != nil {
		return packets.DayResponse{}, err
	}
	return packets.DayResponse{
		Weekday:   int(d.Index),
		Name:      d.Name,
		Gregorian: d.Gregorian,
		Hijri:     d.Hijri,
		Schedules: c.schedules(schedules),
	}, nil
}

// week groups weekday-ordered schedules into days dated by next occurrence.
func (c *Calendar) week(all []model.Schedule) ([]packets.DayResponse, error) {
	out := []packets.DayResponse{}
	for start := 0; start < len(all); {
		end := start
		for end < len(all) && all[end].Weekday == all[start].Weekday {
			end++
		}
		d, err := c.day(calendar.NextOccurrence(c.today(), all[start].Weekday), all[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, d)
		start = end
	}
	return out, nil
}
