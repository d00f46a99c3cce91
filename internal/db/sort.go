package db

import (
	"sort"

	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

// DaysUntil is how many days after today weekday w next falls, 0 through 6.
func DaysUntil(today, w model.Weekday) int {
	return (int(w) - int(today) + 7) % 7
}

func mosqueName(s model.Schedule) string {
	if s.Mosque == nil {
		return ""
	}
	return s.Mosque.Name
}

func slotLess(a, b model.Schedule) bool {
	if a.Prayer.Order() != b.Prayer.Order() {
		return a.Prayer.Order() < b.Prayer.Order()
	}
	if mosqueName(a) != mosqueName(b) {
		return mosqueName(a) < mosqueName(b)
	}
	return a.ID < b.ID
}

// SortBySlot orders schedules by prayer slot, then mosque name, then id.
func SortBySlot(s []model.Schedule) {
	sort.SliceStable(s, func(i, j int) bool { return slotLess(s[i], s[j]) })
}

// SortByNextOccurrence orders schedules by how soon their weekday comes
// round counting from today, then by slot.
func SortByNextOccurrence(s []model.Schedule, today model.Weekday) {
	sort.SliceStable(s, func(i, j int) bool {
		di, dj := DaysUntil(today, s[i].Weekday), DaysUntil(today, s[j].Weekday)
		if di != dj {
			return di < dj
		}
		return slotLess(s[i], s[j])
	})
}

func sortMosques(m []model.Mosque) {
	sort.Slice(m, func(i, j int) bool {
		if m[i].Name != m[j].Name {
			return m[i].Name < m[j].Name
		}
		return m[i].ID < m[j].ID
	})
}
