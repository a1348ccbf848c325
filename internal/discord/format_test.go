package discord

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/birthmas-bot/birthmas/internal/domain"
)

func TestCenter(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		width int
		want  string
	}{
		{"even slack", "ab", 6, "  ab  "},
		{"odd slack favors right", "ab", 5, " ab  "},
		{"exact fit", "abcd", 4, "abcd"},
		{"wider than column", "abcdef", 4, "abcdef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, center(tt.s, tt.width))
		})
	}
}

func TestBuildBirthdayTable(t *testing.T) {
	rows := []birthdayRow{
		{Name: "alice", Date: time.Date(domain.SentinelYear, time.June, 15, 0, 0, 0, 0, time.UTC)},
		{Name: "bartholomew", Date: time.Date(domain.SentinelYear, time.February, 29, 0, 0, 0, 0, time.UTC)},
	}

	table := buildBirthdayTable(rows)

	assert.True(t, strings.HasPrefix(table, "```\n"))
	assert.True(t, strings.HasSuffix(table, "```"))
	assert.Contains(t, table, "alice")
	assert.Contains(t, table, "Jun 15")
	assert.Contains(t, table, "Feb 29*")
	assert.Contains(t, table, leapStarNote)

	// every table line shares one width
	lines := strings.Split(strings.Trim(table, "`\n"), "\n")
	assert.Equal(t, len(lines[0]), len(lines[1]))
	assert.Equal(t, len(lines[0]), len(lines[2]))
}

func TestBuildBirthdayTableNoStarWithoutLeapDay(t *testing.T) {
	rows := []birthdayRow{
		{Name: "alice", Date: time.Date(domain.SentinelYear, time.June, 15, 0, 0, 0, 0, time.UTC)},
	}

	table := buildBirthdayTable(rows)

	assert.NotContains(t, table, "*")
	assert.NotContains(t, table, leapStarNote)
}

func TestFormatBirthday(t *testing.T) {
	p := domain.Person{Birthdate: time.Date(domain.SentinelYear, time.February, 29, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "Feb 29 (leap day)", formatBirthday(p))

	p.Birthdate = time.Date(domain.SentinelYear, time.June, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Jun 15", formatBirthday(p))
}
