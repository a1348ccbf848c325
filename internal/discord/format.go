package discord

import (
	"strings"
	"time"

	"github.com/birthmas-bot/birthmas/internal/domain"
)

const (
	tableHeaderUser     = "User"
	tableHeaderBirthday = "Birthday"
	leapStarNote        = "* leap day, celebrated when it exists"
	tableDateLayout     = "Jan 02"
)

// birthdayRow is one line of the server birthday table.
type birthdayRow struct {
	Name string
	Date time.Time
}

// buildBirthdayTable renders a monospace table of the server's birthdays
// with centered columns. Leap-day birthdays get a star and a footnote.
func buildBirthdayTable(rows []birthdayRow) string {
	nameWidth := len(tableHeaderUser)
	dateWidth := len(tableHeaderBirthday)

	dates := make([]string, len(rows))
	starred := false
	for i, row := range rows {
		dates[i] = row.Date.Format(tableDateLayout)
		if isLeapDay(row.Date) {
			dates[i] += "*"
			starred = true
		}
		if len(row.Name) > nameWidth {
			nameWidth = len(row.Name)
		}
		if len(dates[i]) > dateWidth {
			dateWidth = len(dates[i])
		}
	}

	var sb strings.Builder
	sb.WriteString("```\n")
	sb.WriteString(center(tableHeaderUser, nameWidth))
	sb.WriteString(" | ")
	sb.WriteString(center(tableHeaderBirthday, dateWidth))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", nameWidth))
	sb.WriteString("-|-")
	sb.WriteString(strings.Repeat("-", dateWidth))
	sb.WriteString("\n")
	for i, row := range rows {
		sb.WriteString(center(row.Name, nameWidth))
		sb.WriteString(" | ")
		sb.WriteString(center(dates[i], dateWidth))
		sb.WriteString("\n")
	}
	if starred {
		sb.WriteString(leapStarNote)
		sb.WriteString("\n")
	}
	sb.WriteString("```")
	return sb.String()
}

// center pads s with spaces to width, splitting the slack evenly.
func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	right := width - len(s) - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

func isLeapDay(t time.Time) bool {
	return t.Month() == time.February && t.Day() == 29
}

// formatBirthday renders one person's birthday for the /my-birthday reply.
func formatBirthday(p domain.Person) string {
	s := p.Birthdate.Format(tableDateLayout)
	if isLeapDay(p.Birthdate) {
		s += " (leap day)"
	}
	return s
}
