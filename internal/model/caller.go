package model

import (
	"strings"
	"time"
)

// Caller is the person assigned to speak at a scheduled prayer.
type Caller struct {
	ID          int       `db:"id"           json:"id"`
	Name        string    `db:"name"         json:"name"`
	CountryCode string    `db:"country_code" json:"country_code"`
	Phone       string    `db:"phone"        json:"phone"`
	Email       *string   `db:"email"        json:"email,omitempty"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updated_at"`
}

// FullPhone is the country code followed by the local number, unformatted.
// A caller with no local number has no phone.
func (c Caller) FullPhone() string {
	if strings.TrimSpace(c.Phone) == "" {
		return ""
	}
	return c.CountryCode + c.Phone
}

const DefaultCountryCode = "+966"

// CountryCodes lists the dialing codes callers and mosques can be registered with.
var CountryCodes = []string{
	"+966", // Saudi Arabia
	"+971", // UAE
	"+965", // Kuwait
	"+973", // Bahrain
	"+974", // Qatar
	"+968", // Oman
	"+20",  // Egypt
	"+962", // Jordan
	"+961", // Lebanon
	"+963", // Syria
	"+964", // Iraq
	"+967", // Yemen
	"+218", // Libya
	"+212", // Morocco
	"+213", // Algeria
	"+216", // Tunisia
	"+249", // Sudan
	"+1",   // USA/Canada
	"+44",  // UK
}

func IsSupportedCountryCode(code string) bool {
	for _, c := range CountryCodes {
		if c == code {
			return true
		}
	}
	return false
}
