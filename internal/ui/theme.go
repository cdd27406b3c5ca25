package ui

import "github.com/charmbracelet/lipgloss"

// easel's color palette — studio pigments: warm ochres, soft violets, inks.
var (
	// Primary colors
	Ochre    = lipgloss.Color("#E3A857")
	Vermeil  = lipgloss.Color("#E34234")
	Violet   = lipgloss.Color("#9B6DD6")
	Indigo   = lipgloss.Color("#4B0082")
	Sage     = lipgloss.Color("#87A96B")
	Rose     = lipgloss.Color("#E8788A")
	Cerulean = lipgloss.Color("#2A52BE")
	Ink      = lipgloss.Color("#2D2D2D")
	Dim      = lipgloss.Color("#666666")
	Bright   = lipgloss.Color("#FFFFFF")
	Subtle   = lipgloss.Color("#AAAAAA")

	// Semantic styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Violet)

	Subtitle = lipgloss.NewStyle().
			Foreground(Ochre)

	Success = lipgloss.NewStyle().
		Foreground(Sage)

	Error = lipgloss.NewStyle().
		Foreground(Vermeil)

	Warning = lipgloss.NewStyle().
		Foreground(Ochre)

	Info = lipgloss.NewStyle().
		Foreground(Cerulean)

	Muted = lipgloss.NewStyle().
		Foreground(Dim)

	Accent = lipgloss.NewStyle().
		Foreground(Violet).
		Bold(true)

	// Component styles
	Banner = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Violet).
		Padding(0, 1)

	Tag = lipgloss.NewStyle().
		Foreground(Bright).
		Background(Indigo).
		Padding(0, 1).
		Bold(true)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Ochre).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Bright)
)

// Icon constants — consistent emoji language.
const (
	IconEasel    = "🎨 "
	IconBrush    = "🖌 "
	IconJob      = "📋"
	IconDone     = "✅"
	IconOverdue  = "🔴"
	IconLocked   = "📌"
	IconCalendar = "📅"
	IconRest     = "🌙"
	IconVault    = "🔑"
	IconMoney    = "💰"
	IconClock    = "⏱ "
	IconWarn     = "⚠️ "
	IconError    = "✗ "
	IconOk       = "✓ "
	IconArrow    = "→"
	IconDot      = "·"
)
