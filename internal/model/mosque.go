package model

import "time"

// Mosque is a place with a weekly speaking roster.
type Mosque struct {
	ID          int       `db:"id"           json:"id"`
	Name        string    `db:"name"         json:"name"`
	Address     string    `db:"address"      json:"address"`
	CountryCode string    `db:"country_code" json:"country_code"`
	Phone       string    `db:"phone"        json:"phone"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updated_at"`
}

// FullPhone joins the dialing code and the local number. A mosque without a
// local number has no phone at all.
func (m Mosque) FullPhone() string {
	if m.Phone == "" {
		return ""
	}
	return m.CountryCode + m.Phone
}
