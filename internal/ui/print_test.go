package ui

import (
	"testing"
)

func TestGreet(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"", "🎨 Hey there!"},
		{"Mika", "🎨 Hey Mika!"},
		{"World", "🎨 Hey World!"},
	}

	for _, tt := range tests {
		got := Greet(tt.name)
		if got != tt.expected {
			t.Errorf("Greet(%q) = %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestIconConstants(t *testing.T) {
	// Verify icons are non-empty strings
	icons := []string{
		IconEasel, IconBrush, IconJob, IconDone, IconOverdue, IconLocked,
		IconCalendar, IconRest, IconVault, IconMoney, IconClock,
		IconWarn, IconError, IconOk, IconArrow, IconDot,
	}
	for i, icon := range icons {
		if icon == "" {
			t.Errorf("Icon at index %d is empty", i)
		}
	}
}
