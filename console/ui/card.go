package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"user-grid/network"

	"github.com/charmbracelet/lipgloss"
)

const (
	cardMinWidth = 32
	cardGap      = 2
	defaultWidth = 100
)

// invalidDate is what a browser prints for an unparseable date.
const invalidDate = "Invalid Date"

// FormatCreated turns an ISO-8601 timestamp into a short local date (M/D/YYYY).
func FormatCreated(raw string) string {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		// date-only strings are read as UTC midnight
		t, err = time.ParseInLocation("2006-01-02", strings.TrimSpace(raw), time.UTC)
		if err != nil {
			return invalidDate
		}
	}
	t = t.Local()
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

// RenderCard draws one read-only user card of the given outer width.
func RenderCard(u network.User, width int) string {
	if width < cardMinWidth {
		width = cardMinWidth
	}
	field := func(label, value string) string {
		return cardLabelStyle.Render(label+":") + " " + value
	}
	body := strings.Join([]string{
		cardTitleStyle.Render(u.Name),
		field("Email", u.Email),
		field("Age", strconv.Itoa(u.Age)),
		field("Role", string(u.Role)),
		field("Created", FormatCreated(u.CreatedAt)),
	}, "\n")
	// Width excludes the border
	return cardStyle.Width(width - 2).Render(body)
}

// gridColumns is how many cards fit side by side in width cells.
func gridColumns(width int) int {
	if width <= 0 {
		width = defaultWidth
	}
	cols := (width + cardGap) / (cardMinWidth + cardGap)
	if cols < 1 {
		cols = 1
	}
	return cols
}

func renderCards(users []network.User, width int) []string {
	cols := gridColumns(width)
	if width <= 0 {
		width = defaultWidth
	}
	cardWidth := (width - cardGap*(cols-1)) / cols
	cards := make([]string, 0, len(users))
	for _, u := range users {
		cards = append(cards, RenderCard(u, cardWidth))
	}
	return cards
}

// RenderGrid lays the cards out in rows that fill width.
func RenderGrid(users []network.User, width int) string {
	cards := renderCards(users, width)
	cols := gridColumns(width)
	gap := strings.Repeat(" ", cardGap)

	var rows []string
	for start := 0; start < len(cards); start += cols {
		end := min(start+cols, len(cards))
		row := make([]string, 0, 2*(end-start))
		for i, c := range cards[start:end] {
			if i > 0 {
				row = append(row, gap)
			}
			row = append(row, c)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}
