package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-tracker/internal/apperr"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{name: "valid range", from: "2024-03-01", to: "2024-03-31"},
		{name: "single day", from: "2024-03-05", to: "2024-03-05"},
		{name: "inverted range is accepted", from: "2024-04-01", to: "2024-03-01"},
		{name: "bad from", from: "01-03-2024", to: "2024-03-31", wantErr: true},
		{name: "bad to", from: "2024-03-01", to: "", wantErr: true},
		{name: "impossible date", from: "2024-02-30", to: "2024-03-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := ParseRange(tt.from, tt.to)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperr.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.from, from.String())
			assert.Equal(t, tt.to, to.String())
		})
	}
}

func TestWeek(t *testing.T) {
	week := Week()
	require.Len(t, week, 7)

	names := make([]string, 0, 7)
	for _, d := range week {
		names = append(names, d.String())
	}
	assert.Equal(t, []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}, names)
}

func TestWeekday(t *testing.T) {
	// 2024-03-03 воскресенье, 2024-03-09 суббота.
	for n := 0; n <= 6; n++ {
		d, err := Weekday(n)
		require.NoError(t, err)
		date := time.Date(2024, 3, 3+n, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, date.Weekday(), d, "store number %d", n)
	}

	_, err := Weekday(7)
	assert.Error(t, err)
	_, err = Weekday(-1)
	assert.Error(t, err)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "2024-03", MonthLabel(time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, "0999-12", MonthLabel(time.Date(999, 12, 1, 0, 0, 0, 0, time.UTC)))
}
