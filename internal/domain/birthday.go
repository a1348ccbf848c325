package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SentinelYear is the placeholder year birthdates are stored against.
// 1972 is a leap year, so February 29 birthdays are representable.
const SentinelYear = 1972

// Person is a recorded birthday owned by exactly one server config.
type Person struct {
	ID        uuid.UUID
	UserID    string
	Birthdate time.Time
	ServerID  string
}

// ServerConfig holds the per-server announcement settings.
type ServerConfig struct {
	ServerID              string
	AnnouncementChannelID string
	GiveRole              bool
	RoleID                string
}

// Config table keys
const (
	ConfigKeyVersion      = "Version"
	ConfigKeyErrorChannel = "ErrorChannel"
)

// NewBirthdate validates month/day and returns the date normalized to
// SentinelYear in UTC. The year component carries no meaning.
func NewBirthdate(month, day int) (time.Time, error) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: %d/%d", ErrInvalidDate, month, day)
	}
	d := time.Date(SentinelYear, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Apr 31 -> May 1), which means the
	// input was not a real calendar date.
	if d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %d/%d", ErrInvalidDate, month, day)
	}
	return d, nil
}

// SameMonthDay reports whether two dates share month and day, ignoring year.
// A Feb 29 birthdate only matches on leap years since no other date carries
// that month/day pair.
func SameMonthDay(a, b time.Time) bool {
	return a.Month() == b.Month() && a.Day() == b.Day()
}

// DayOfYear returns the ordinal of the birthdate within the sentinel year,
// used to sort server birthday listings chronologically.
func (p Person) DayOfYear() int {
	return p.Birthdate.YearDay()
}

// NextOccurrence returns the next calendar occurrence of the birthdate
// strictly after the given time. Feb 29 birthdates resolve to the next
// leap year.
func (p Person) NextOccurrence(after time.Time) time.Time {
	month, day := p.Birthdate.Month(), p.Birthdate.Day()
	for year := after.Year(); ; year++ {
		d := time.Date(year, month, day, 0, 0, 0, 0, after.Location())
		if d.Month() != month || d.Day() != day {
			continue // Feb 29 in a non-leap year
		}
		if d.After(after) {
			return d
		}
	}
}
