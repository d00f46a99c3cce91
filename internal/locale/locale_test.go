package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

func TestByName(t *testing.T) {
	l, err := ByName("")
	require.NoError(t, err)
	assert.Equal(t, "ar", l.Code)

	l, err = ByName("en")
	require.NoError(t, err)
	assert.Equal(t, "en", l.Code)

	_, err = ByName("fr")
	assert.Error(t, err)
}

func TestTablesComplete(t *testing.T) {
	for _, l := range []Locale{Arabic, English} {
		for _, w := range model.Weekdays {
			assert.NotEmpty(t, l.WeekdayName(w), "%s weekday %d", l.Code, w)
		}
		for _, p := range model.PrayerSlots {
			assert.NotEqual(t, string(p), l.PrayerName(p), "%s prayer %s", l.Code, p)
		}
		for i, m := range l.HijriMonths {
			assert.NotEmpty(t, m, "%s month %d", l.Code, i+1)
		}
	}
	assert.Equal(t, "Monday", English.WeekdayName(model.Monday))
	assert.Equal(t, "", English.WeekdayName(model.Weekday(9)))
}
