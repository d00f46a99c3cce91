// Package message composes the reminder texts sent to callers and mosques.
// Every function here is pure: the same input always renders the same bytes.
package message

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Nixie-Tech-LLC/minbar/internal/calendar"
	"github.com/Nixie-Tech-LLC/minbar/internal/locale"
	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

// ReminderInput is one caller's assignment on one day.
type ReminderInput struct {
	Schedule model.Schedule // Mosque must be attached
	Day      calendar.Day
	Today    bool
	Extra    string
}

type RosterInput struct {
	Mosque    model.Mosque
	Day       calendar.Day
	Schedules []model.Schedule // Caller must be attached
	Extra     string
}

type DigestInput struct {
	Mosque model.Mosque
	Days   []DigestDay
	Extra  string
}

type DigestDay struct {
	Day       calendar.Day
	Schedules []model.Schedule
}

type reminderView struct {
	Today       bool
	Day         calendar.Day
	MosqueName  string
	Address     string
	MosquePhone string
	Prayer      string
	Notes       string
	Extra       string
}

type itemView struct {
	Prayer string
	Caller string
	Phone  string
	Notes  string
}

type rosterView struct {
	MosqueName string
	Day        calendar.Day
	Items      []itemView
	Extra      string
}

type digestDayView struct {
	Day   calendar.Day
	Items []itemView
}

type digestView struct {
	MosqueName string
	Days       []digestDayView
	Extra      string
}

// Reminder renders the single-caller reminder.
func Reminder(loc locale.Locale, in ReminderInput) (string, error) {
	s := in.Schedule
	if s.Mosque == nil {
		return "", fmt.Errorf("schedule %d: mosque not loaded", s.ID)
	}
	view := reminderView{
		Today:       in.Today,
		Day:         in.Day,
		MosqueName:  s.Mosque.Name,
		Address:     strings.TrimSpace(s.Mosque.Address),
		MosquePhone: s.Mosque.FullPhone(),
		Prayer:      loc.PrayerName(s.Prayer),
		Notes:       strings.TrimSpace(s.Notes),
		Extra:       strings.TrimSpace(in.Extra),
	}
	return render("reminder", loc.ReminderTemplate, view)
}

// Roster renders one mosque's speakers for one day.
func Roster(loc locale.Locale, in RosterInput) (string, error) {
	items, err := itemsOf(loc, in.Schedules)
	if err != nil {
		return "", err
	}
	view := rosterView{
		MosqueName: in.Mosque.Name,
		Day:        in.Day,
		Items:      items,
		Extra:      strings.TrimSpace(in.Extra),
	}
	return render("roster", loc.RosterTemplate, view)
}

// WeeklyDigest renders one mosque's whole week, days in the order given.
func WeeklyDigest(loc locale.Locale, in DigestInput) (string, error) {
	view := digestView{
		MosqueName: in.Mosque.Name,
		Extra:      strings.TrimSpace(in.Extra),
	}
	for _, d := range in.Days {
		items, err := itemsOf(loc, d.Schedules)
		if err != nil {
			return "", err
		}
		view.Days = append(view.Days, digestDayView{Day: d.Day, Items: items})
	}
	return render("digest", loc.DigestTemplate, view)
}

func itemsOf(loc locale.Locale, schedules []model.Schedule) ([]itemView, error) {
	items := make([]itemView, 0, len(schedules))
	for _, s := range schedules {
		if s.Caller == nil {
			return nil, fmt.Errorf("schedule %d: caller not loaded", s.ID)
		}
		items = append(items, itemView{
			Prayer: loc.PrayerName(s.Prayer),
			Caller: s.Caller.Name,
			Phone:  s.Caller.FullPhone(),
			Notes:  strings.TrimSpace(s.Notes),
		})
	}
	return items, nil
}

func render(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute %s template: %w", name, err)
	}
	return buf.String(), nil
}
