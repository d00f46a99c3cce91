// Package locale holds the literal labels and message templates used when
// talking to callers and mosques.
package locale

import (
	"fmt"

	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

type Locale struct {
	Code        string
	Weekdays    [7]string // indexed by model.Weekday
	Prayers     map[model.PrayerSlot]string
	HijriMonths [12]string
	HijriSuffix string

	ReminderTemplate string
	RosterTemplate   string
	DigestTemplate   string
}

// WeekdayName returns the label for w, or "" when w is out of range.
func (l Locale) WeekdayName(w model.Weekday) string {
	if !w.Valid() {
		return ""
	}
	return l.Weekdays[w]
}

func (l Locale) PrayerName(p model.PrayerSlot) string {
	if name, ok := l.Prayers[p]; ok {
		return name
	}
	return string(p)
}

// ByName resolves a configured locale code.
func ByName(code string) (Locale, error) {
	switch code {
	case "", "ar":
		return Arabic, nil
	case "en":
		return English, nil
	default:
		return Locale{}, fmt.Errorf("unsupported locale %q", code)
	}
}
