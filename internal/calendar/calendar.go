// Package calendar maps Gregorian dates onto the Saturday-first week used by
// schedules and renders them in the Hijri calendar.
package calendar

import (
	"fmt"
	"time"

	"github.com/hablullah/go-hijri"

	"github.com/Nixie-Tech-LLC/minbar/internal/locale"
	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

const GregorianLayout = "2006-01-02"

// weekdayIndex is the only place the native week is rebased.
var weekdayIndex = [7]model.Weekday{
	time.Sunday:    model.Sunday,
	time.Monday:    model.Monday,
	time.Tuesday:   model.Tuesday,
	time.Wednesday: model.Wednesday,
	time.Thursday:  model.Thursday,
	time.Friday:    model.Friday,
	time.Saturday:  model.Saturday,
}

// WeekdayIndex returns the schedule weekday of t, 0 being Saturday.
func WeekdayIndex(t time.Time) model.Weekday {
	return weekdayIndex[t.Weekday()]
}

// AddDays shifts t by n calendar days. Callers derive the weekday from the
// result, never by adding n to an index.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// NextOccurrence returns the first date on or after today that falls on w.
func NextOccurrence(today time.Time, w model.Weekday) time.Time {
	delta := (int(w) - int(WeekdayIndex(today)) + 7) % 7
	return AddDays(today, delta)
}

type HijriDate struct {
	Day   int
	Month int // 1..12
	Year  int
}

// ToHijri converts t using the Umm al-Qura calendar.
func ToHijri(t time.Time) (HijriDate, error) {
	d, err := hijri.CreateUmmAlQuraDate(t)
	if err != nil {
		return HijriDate{}, fmt.Errorf("convert %s to hijri: %w", t.Format(GregorianLayout), err)
	}
	return HijriDate{Day: int(d.Day), Month: int(d.Month), Year: int(d.Year)}, nil
}

// Format renders "<day> <month-name> <year> <suffix>".
func (h HijriDate) Format(loc locale.Locale) string {
	month := ""
	if h.Month >= 1 && h.Month <= 12 {
		month = loc.HijriMonths[h.Month-1]
	}
	return fmt.Sprintf("%d %s %d %s", h.Day, month, h.Year, loc.HijriSuffix)
}

func HijriString(t time.Time, loc locale.Locale) (string, error) {
	h, err := ToHijri(t)
	if err != nil {
		return "", err
	}
	return h.Format(loc), nil
}

// Day is the calendar context a message is composed against.
type Day struct {
	Date      time.Time
	Index     model.Weekday
	Name      string
	Gregorian string
	Hijri     string
}

func Describe(t time.Time, loc locale.Locale) (Day, error) {
	h, err := HijriString(t, loc)
	if err != nil {
		return Day{}, err
	}
	w := WeekdayIndex(t)
	return Day{
		Date:      t,
		Index:     w,
		Name:      loc.WeekdayName(w),
		Gregorian: t.Format(GregorianLayout),
		Hijri:     h,
	}, nil
}

// StartOfDay truncates t to local midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
