package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBirthdate(t *testing.T) {
	tests := []struct {
		name    string
		month   int
		day     int
		wantErr bool
	}{
		{name: "normal date", month: 6, day: 15},
		{name: "leap day is storable", month: 2, day: 29},
		{name: "last day of year", month: 12, day: 31},
		{name: "april has no 31st", month: 4, day: 31, wantErr: true},
		{name: "feb 30 rejected", month: 2, day: 30, wantErr: true},
		{name: "month 13", month: 13, day: 1, wantErr: true},
		{name: "month 0", month: 0, day: 5, wantErr: true},
		{name: "day 0", month: 3, day: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewBirthdate(tt.month, tt.day)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, SentinelYear, d.Year())
			assert.Equal(t, time.Month(tt.month), d.Month())
			assert.Equal(t, tt.day, d.Day())
		})
	}
}

func TestSameMonthDay(t *testing.T) {
	feb29, err := NewBirthdate(2, 29)
	require.NoError(t, err)

	// Feb 29 never collides with Feb 28 or Mar 1 in a non-leap year
	assert.False(t, SameMonthDay(feb29, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.False(t, SameMonthDay(feb29, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, SameMonthDay(feb29, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))

	jun15, err := NewBirthdate(6, 15)
	require.NoError(t, err)
	assert.True(t, SameMonthDay(jun15, time.Date(2031, 6, 15, 0, 0, 0, 0, time.UTC)))
}

func TestNextOccurrence(t *testing.T) {
	jun15, _ := NewBirthdate(6, 15)
	p := Person{Birthdate: jun15}

	next := p.NextOccurrence(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), next, "same day rolls to next year")

	next = p.NextOccurrence(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), next)

	feb29, _ := NewBirthdate(2, 29)
	p = Person{Birthdate: feb29}
	next = p.NextOccurrence(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC), next, "leap birthday waits for a leap year")
}
