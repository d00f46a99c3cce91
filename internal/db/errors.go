package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrInvalidReference = errors.New("referenced mosque or caller does not exist")
	ErrEmailTaken       = errors.New("email already registered")
	ErrBlankName        = errors.New("name must not be blank")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"

	scheduleUniqueConstraint = "schedules_mosque_weekday_prayer_key"
	userEmailConstraint      = "users_email_key"
	mosqueNameConstraint     = "mosques_name_check"
	callerNameConstraint     = "callers_name_check"
)

// DuplicateScheduleError is returned when a mosque already has a talk in the
// same prayer slot on the same weekday.
type DuplicateScheduleError struct {
	MosqueID   int
	MosqueName string
	Weekday    model.Weekday
	Prayer     model.PrayerSlot
}

func (e *DuplicateScheduleError) Error() string {
	name := e.MosqueName
	if name == "" {
		name = fmt.Sprintf("#%d", e.MosqueID)
	}
	return fmt.Sprintf("mosque %s already has a %s talk on weekday %d", name, e.Prayer, e.Weekday)
}

// pgCode returns the SQLSTATE and constraint name of a postgres error.
func pgCode(err error) (code, constraint string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}
	return "", ""
}

// translate maps driver errors onto the package's sentinel errors. Unique
// violations on schedules are left to the caller, which knows the row.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	code, constraint := pgCode(err)
	switch {
	case code == pgForeignKeyViolation:
		return ErrInvalidReference
	case code == pgUniqueViolation && constraint == userEmailConstraint:
		return ErrEmailTaken
	case code == pgCheckViolation && (constraint == mosqueNameConstraint || constraint == callerNameConstraint):
		return ErrBlankName
	}
	return err
}

func isDuplicateSchedule(err error) bool {
	code, constraint := pgCode(err)
	return code == pgUniqueViolation && constraint == scheduleUniqueConstraint
}
