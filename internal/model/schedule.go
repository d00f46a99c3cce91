package model

import "time"

// Weekday numbers the week from Saturday (0) to Friday (6).
type Weekday int

const (
	Saturday Weekday = iota
	Sunday
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
)

var Weekdays = []Weekday{Saturday, Sunday, Monday, Tuesday, Wednesday, Thursday, Friday}

func (w Weekday) Valid() bool {
	return w >= Saturday && w <= Friday
}

// PrayerSlot is one of the five daily prayers a talk can be attached to.
type PrayerSlot string

const (
	Fajr    PrayerSlot = "fajr"    // dawn
	Dhuhr   PrayerSlot = "dhuhr"   // midday
	Asr     PrayerSlot = "asr"     // afternoon
	Maghrib PrayerSlot = "maghrib" // sunset
	Isha    PrayerSlot = "isha"    // night
)

// PrayerSlots is in day order.
var PrayerSlots = []PrayerSlot{Fajr, Dhuhr, Asr, Maghrib, Isha}

const DefaultPrayerSlot = Dhuhr

// Order is the slot's position in the day, or -1 for an unknown slot.
func (p PrayerSlot) Order() int {
	for i, s := range PrayerSlots {
		if s == p {
			return i
		}
	}
	return -1
}

func (p PrayerSlot) Valid() bool {
	return p.Order() >= 0
}

// Schedule assigns one caller to one mosque for one prayer on one weekday.
// (MosqueID, Weekday, Prayer) is unique.
type Schedule struct {
	ID        int        `db:"id"          json:"id"`
	MosqueID  int        `db:"mosque_id"   json:"mosque_id"`
	CallerID  int        `db:"caller_id"   json:"caller_id"`
	Weekday   Weekday    `db:"weekday"     json:"weekday"`
	Prayer    PrayerSlot `db:"prayer_slot" json:"prayer_slot"`
	Notes     string     `db:"notes"       json:"notes"`
	CreatedAt time.Time  `db:"created_at"  json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"  json:"updated_at"`
	Mosque    *Mosque    `db:"-"           json:"mosque,omitempty"`
	Caller    *Caller    `db:"-"           json:"caller,omitempty"`
}
