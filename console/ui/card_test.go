package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"user-grid/network"

	"github.com/charmbracelet/lipgloss"
)

func sampleUser(id int, name string) network.User {
	return network.User{
		ID:        id,
		Name:      name,
		Email:     strings.ToLower(name) + "@x.com",
		Age:       30,
		Role:      network.RoleUser,
		CreatedAt: "2024-01-01T12:00:00Z",
	}
}

func TestFormatCreated(t *testing.T) {
	local := time.Date(2024, 3, 10, 9, 15, 0, 0, time.UTC).Local()
	want := fmt.Sprintf("%d/%d/%d", int(local.Month()), local.Day(), local.Year())

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"rfc3339", "2024-03-10T09:15:00Z", want},
		{"fractional seconds", "2024-03-10T09:15:00.000Z", want},
		{"garbage", "yesterday", invalidDate},
		{"empty", "", invalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCreated(tt.raw); got != tt.want {
				t.Fatalf("FormatCreated(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRenderCard(t *testing.T) {
	u := network.User{ID: 1, Name: "Ann", Email: "a@x.com", Age: 30, Role: network.RoleUser, CreatedAt: "not a date"}
	card := RenderCard(u, 40)
	for _, want := range []string{"Ann", "Email:", "a@x.com", "Age:", "30", "Role:", "user", "Created:", invalidDate} {
		if !strings.Contains(card, want) {
			t.Fatalf("card missing %q:\n%s", want, card)
		}
	}
	if w := lipgloss.Width(card); w != 40 {
		t.Fatalf("card width %d, want 40", w)
	}
}

func TestRenderCardsOnePerUser(t *testing.T) {
	users := []network.User{sampleUser(1, "Ann"), sampleUser(2, "Bob"), sampleUser(3, "Cy"), sampleUser(4, "Di"), sampleUser(5, "Ed")}
	cards := renderCards(users, 100)
	if len(cards) != len(users) {
		t.Fatalf("want %d cards, got %d", len(users), len(cards))
	}

	grid := RenderGrid(users, 100)
	for _, u := range users {
		if strings.Count(grid, u.Email) != 1 {
			t.Fatalf("grid should show %s exactly once:\n%s", u.Email, grid)
		}
	}
}

func TestGridColumns(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{0, 3},
		{10, 1},
		{32, 1},
		{66, 2},
		{200, 5},
	}
	for _, tt := range tests {
		if got := gridColumns(tt.width); got != tt.want {
			t.Fatalf("gridColumns(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}
