package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/easel-app/easel/internal/sched"
	"github.com/easel-app/easel/internal/ui"
)

// CalendarModel is an interactive month view: one cell per day with a
// capacity bar showing planned hours against the day's budget. Navigation
// moves between months; the model never mutates the schedule.
type CalendarModel struct {
	cal   sched.CalendarConfig
	tasks []sched.ScheduledTask
	today sched.Date
	month time.Time // first of the shown month, UTC

	width  int
	height int

	quitting bool
}

// NewCalendarModel creates a month view anchored on the month containing
// start.
func NewCalendarModel(cal sched.CalendarConfig, tasks []sched.ScheduledTask, today sched.Date, start time.Time) *CalendarModel {
	return &CalendarModel{
		cal:    cal,
		tasks:  tasks,
		today:  today,
		month:  firstOfMonth(start),
		width:  80,
		height: 24,
	}
}

// RunCalendar launches the interactive month view.
func RunCalendar(cal sched.CalendarConfig, tasks []sched.ScheduledTask, today sched.Date, start time.Time) error {
	m := NewCalendarModel(cal, tasks, today, start)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("calendar tui: %w", err)
	}
	return nil
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (m *CalendarModel) Init() tea.Cmd {
	return nil
}

func (m *CalendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit

		case "h", "left", "p":
			m.month = m.month.AddDate(0, -1, 0)

		case "l", "right", "n":
			m.month = m.month.AddDate(0, 1, 0)

		case "t":
			m.month = firstOfMonth(m.today.Time())
		}
	}
	return m, nil
}

func (m *CalendarModel) View() string {
	var b strings.Builder

	b.WriteString(ui.Title.Render("  "+ui.IconCalendar+" "+m.month.Format("January 2006")) + "\n\n")
	b.WriteString(ui.Muted.Render("  Mon     Tue     Wed     Thu     Fri     Sat     Sun") + "\n")

	// Leading blanks up to the first day's weekday (Monday-first).
	offset := (int(m.month.Weekday()) + 6) % 7
	row := make([]string, 0, 7)
	for i := 0; i < offset; i++ {
		row = append(row, strings.Repeat(" ", 7))
	}

	var planned, budget float64
	daysInMonth := m.month.AddDate(0, 1, -1).Day()
	for dayNum := 1; dayNum <= daysInMonth; dayNum++ {
		d := sched.DateOf(m.month.AddDate(0, 0, dayNum-1))
		day := sched.BuildCalendarDay(d, m.cal, m.tasks, m.today)
		planned += day.UsedHours
		budget += day.WorkHours

		row = append(row, m.renderCell(dayNum, day))
		if len(row) == 7 {
			b.WriteString("  " + strings.Join(row, " ") + "\n")
			row = row[:0]
		}
	}
	if len(row) > 0 {
		b.WriteString("  " + strings.Join(row, " ") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(ui.Muted.Render(fmt.Sprintf("  %.0fh planned of %.0fh budget", planned, budget)) + "\n")
	b.WriteString(ui.Muted.Render("  ▰▱ day fill  "+ui.IconRest+" rest") + "\n\n")
	b.WriteString(ui.Muted.Render("  h/l months · t today · q quit") + "\n")

	return b.String()
}

// renderCell draws one day as "DD bar·": a day number plus a 4-step
// capacity bar, padded to a fixed 7-rune width so rows align.
func (m *CalendarModel) renderCell(dayNum int, day sched.CalendarDay) string {
	cell := fmt.Sprintf("%2d %s", dayNum, capacityBar(day))

	switch {
	case day.IsToday:
		return ui.Accent.Render(cell)
	case day.WorkHours == 0:
		return ui.Muted.Render(cell)
	case day.UsedHours > 0:
		return ui.ValueStyle.Render(cell)
	default:
		return cell
	}
}

// capacityBar renders a day's planned-vs-budget ratio in four steps.
func capacityBar(day sched.CalendarDay) string {
	if day.WorkHours == 0 {
		return ui.IconRest + "  "
	}
	filled := int(day.UsedHours / day.WorkHours * 4)
	if day.UsedHours > 0 && filled == 0 {
		filled = 1
	}
	if filled > 4 {
		filled = 4
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", 4-filled)
}
