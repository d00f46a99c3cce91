package db

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

func TestTranslate(t *testing.T) {
	other := errors.New("boom")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"wrapped no rows", fmt.Errorf("get: %w", sql.ErrNoRows), ErrNotFound},
		{"foreign key", &pq.Error{Code: "23503"}, ErrInvalidReference},
		{"email taken", &pq.Error{Code: "23505", Constraint: userEmailConstraint}, ErrEmailTaken},
		{"blank mosque name", &pq.Error{Code: "23514", Constraint: mosqueNameConstraint}, ErrBlankName},
		{"blank caller name", &pq.Error{Code: "23514", Constraint: callerNameConstraint}, ErrBlankName},
		{"other", other, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestIsDuplicateSchedule(t *testing.T) {
	assert.True(t, isDuplicateSchedule(&pq.Error{Code: "23505", Constraint: scheduleUniqueConstraint}))
	assert.False(t, isDuplicateSchedule(&pq.Error{Code: "23505", Constraint: userEmailConstraint}))
	assert.False(t, isDuplicateSchedule(errors.New("23505")))
}

func TestDuplicateScheduleError_Message(t *testing.T) {
	err := &DuplicateScheduleError{MosqueID: 3, MosqueName: "Al-Noor", Weekday: model.Sunday, Prayer: model.Dhuhr}
	assert.Equal(t, "mosque Al-Noor already has a dhuhr talk on weekday 1", err.Error())

	unnamed := &DuplicateScheduleError{MosqueID: 3, Weekday: model.Friday, Prayer: model.Isha}
	assert.Contains(t, unnamed.Error(), "#3")
}
