package packets

import (
	"github.com/Nixie-Tech-LLC/minbar/internal/dispatch"
	"github.com/Nixie-Tech-LLC/minbar/internal/notify"
)

type MosqueResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
	FullPhone   string `json:"full_phone"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type CallerResponse struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	CountryCode string  `json:"country_code"`
	Phone       string  `json:"phone"`
	FullPhone   string  `json:"full_phone"`
	Email       *string `json:"email"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// ScheduleResponse flattens the mosque and caller and adds display labels.
type ScheduleResponse struct {
	ID          int    `json:"id"`
	MosqueID    int    `json:"mosque_id"`
	MosqueName  string `json:"mosque_name"`
	CallerID    int    `json:"caller_id"`
	CallerName  string `json:"caller_name"`
	CallerPhone string `json:"caller_phone"`
	Weekday     int    `json:"weekday"`
	WeekdayName string `json:"weekday_name"`
	Prayer      string `json:"prayer_slot"`
	PrayerName  string `json:"prayer_name"`
	Notes       string `json:"notes"`
	NextDate    string `json:"next_date"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// DayResponse is one calendar day and what is scheduled on it.
type DayResponse struct {
	Weekday   int                `json:"weekday"`
	Name      string             `json:"name"`
	Gregorian string             `json:"gregorian"`
	Hijri     string             `json:"hijri"`
	Schedules []ScheduleResponse `json:"schedules"`
}

type ReminderResponse struct {
	Flow     string             `json:"flow"`
	Date     string             `json:"date"`
	DryRun   bool               `json:"dry_run"`
	Sent     int                `json:"sent"`
	Failed   int                `json:"failed"`
	Skipped  int                `json:"skipped"`
	Details  []dispatch.Outcome `json:"details"`
	Previews []notify.Preview   `json:"previews"`
}

type BridgeStatusResponse struct {
	Ready bool `json:"ready"`
}

type BridgeQRResponse struct {
	Authenticated bool   `json:"authenticated"`
	QR            string `json:"qr,omitempty"`
	Message       string `json:"message"`
}
