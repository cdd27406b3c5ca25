package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/easel-app/easel/internal/job"
	"github.com/easel-app/easel/internal/ui"
)

// JobAction represents an action taken in the jobs TUI, applied by the
// caller after the program quits.
type JobAction struct {
	Type   string // "status", "delete", "quit"
	ID     string
	Status job.Status // resulting status for "status" actions
}

// JobsModel is an interactive Bubbletea model for browsing commissions.
type JobsModel struct {
	jobs     []job.Job
	today    string // YYYY-MM-DD, for due-date annotations
	cursor   int
	filter   string
	filtered []job.Job
	mode     jobsMode

	// terminal dimensions
	width  int
	height int

	// pending actions to apply after quitting
	Actions []JobAction

	quitting bool
}

type jobsMode int

const (
	jobsModeNormal jobsMode = iota
	jobsModeFilter
)

// NewJobsModel creates a JobsModel over the given commissions. today is the
// reference date for overdue highlighting.
func NewJobsModel(jobs []job.Job, today string) *JobsModel {
	m := &JobsModel{
		jobs:   jobs,
		today:  today,
		width:  80,
		height: 24,
	}
	m.applyFilter()
	return m
}

// RunJobs launches the interactive commission browser. Returns actions for
// the caller to apply.
func RunJobs(jobs []job.Job, today string) ([]JobAction, error) {
	m := NewJobsModel(jobs, today)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	result, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("jobs tui: %w", err)
	}
	final := result.(*JobsModel)
	return final.Actions, nil
}

func (m *JobsModel) Init() tea.Cmd {
	return nil
}

func (m *JobsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode == jobsModeFilter {
			return m.handleFilterKey(msg)
		}
		return m.handleNormalKey(msg)
	}
	return m, nil
}

func (m *JobsModel) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "g":
		m.cursor = 0

	case "G":
		if len(m.filtered) > 0 {
			m.cursor = len(m.filtered) - 1
		}

	case "x", " ", "enter":
		if len(m.filtered) > 0 {
			j := m.filtered[m.cursor]
			next := advanceStatus(j.Status)
			if next != j.Status {
				m.Actions = append(m.Actions, JobAction{Type: "status", ID: j.ID, Status: next})
				// Update locally for immediate feedback
				for i, item := range m.jobs {
					if item.ID == j.ID {
						m.jobs[i].Status = next
						break
					}
				}
				m.applyFilter()
			}
		}

	case "d":
		if len(m.filtered) > 0 {
			j := m.filtered[m.cursor]
			m.Actions = append(m.Actions, JobAction{Type: "delete", ID: j.ID})
			// Remove locally
			for i, item := range m.jobs {
				if item.ID == j.ID {
					m.jobs = append(m.jobs[:i], m.jobs[i+1:]...)
					break
				}
			}
			m.applyFilter()
			if m.cursor >= len(m.filtered) && m.cursor > 0 {
				m.cursor = len(m.filtered) - 1
			}
		}

	case "/":
		m.mode = jobsModeFilter
		m.filter = ""
		m.applyFilter()
		m.cursor = 0
	}

	return m, nil
}

func (m *JobsModel) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = jobsModeNormal
		m.filter = ""
		m.applyFilter()
		m.cursor = 0

	case "enter":
		m.mode = jobsModeNormal

	case "backspace":
		if len(m.filter) > 0 {
			runes := []rune(m.filter)
			m.filter = string(runes[:len(runes)-1])
			m.applyFilter()
			m.cursor = 0
		}

	default:
		if len(msg.String()) == 1 {
			m.filter += msg.String()
			m.applyFilter()
			m.cursor = 0
		}
	}
	return m, nil
}

// advanceStatus moves a commission one step through the working lifecycle:
// draft → ready → wip → done → ready. Cancelled and rejected jobs are
// terminal and stay put.
func advanceStatus(s job.Status) job.Status {
	switch s {
	case job.StatusDraft:
		return job.StatusPending
	case job.StatusPending:
		return job.StatusInProgress
	case job.StatusInProgress:
		return job.StatusCompleted
	case job.StatusCompleted:
		return job.StatusPending
	default:
		return s
	}
}

func (m *JobsModel) applyFilter() {
	m.filtered = nil
	for _, j := range m.jobs {
		if m.filter == "" {
			m.filtered = append(m.filtered, j)
			continue
		}
		if ok, _ := FuzzyMatch(m.filter, j.Title+" "+j.Client); ok {
			m.filtered = append(m.filtered, j)
		}
	}
}

func (m *JobsModel) View() string {
	var b strings.Builder

	// Header
	header := ui.Title.Render("  " + ui.IconJob + " Commissions")
	if m.filter != "" {
		header += ui.Muted.Render(fmt.Sprintf("  filter: %q", m.filter))
	}
	b.WriteString(header + "\n\n")

	// Item list
	visHeight := m.height - 8 // reserve space for header, input, status bar
	if visHeight < 3 {
		visHeight = 3
	}

	// Calculate scroll offset
	offset := 0
	if m.cursor >= visHeight {
		offset = m.cursor - visHeight + 1
	}

	if len(m.filtered) == 0 {
		if m.filter != "" {
			b.WriteString("  " + ui.Muted.Render("No matches. Press esc to clear filter.") + "\n")
		} else {
			b.WriteString("  " + ui.Muted.Render("No commissions yet. Add one with 'easel jobs add'.") + "\n")
		}
	} else {
		end := offset + visHeight
		if end > len(m.filtered) {
			end = len(m.filtered)
		}
		for i := offset; i < end; i++ {
			line := m.renderJobItem(m.filtered[i], i == m.cursor)
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n")

	// Input area (filter mode)
	if m.mode == jobsModeFilter {
		prompt := lipgloss.NewStyle().Foreground(ui.Ochre).Bold(true).Render("/")
		b.WriteString("  " + prompt + " " + m.filter + blinkCursor() + "\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString("\n")

	// Status bar
	open := 0
	for _, j := range m.jobs {
		if j.Schedulable() {
			open++
		}
	}
	countStr := ui.Muted.Render(fmt.Sprintf("  %d/%d shown · %d open", len(m.filtered), len(m.jobs), open))
	b.WriteString(countStr + "\n")

	// Help line
	var help string
	if m.mode == jobsModeFilter {
		help = ui.Muted.Render("  esc clear · enter confirm")
	} else {
		help = ui.Muted.Render("  j/k move · x advance status · d delete · / filter · q quit")
	}
	b.WriteString(help + "\n")

	return b.String()
}

func (m *JobsModel) renderJobItem(j job.Job, selected bool) string {
	pointer := "  "
	titleStyle := lipgloss.NewStyle()

	if selected {
		pointer = ui.Accent.Render(ui.IconArrow + " ")
		titleStyle = lipgloss.NewStyle().Foreground(ui.Ochre).Bold(true)
	}

	status := job.FormatStatusTag(j.Status)
	pay := job.FormatPaymentTag(j.PaymentStatus)

	title := j.Title
	if j.Status == job.StatusCompleted {
		title = ui.Muted.Render(title)
	} else {
		title = titleStyle.Render(title)
	}

	line := fmt.Sprintf("  %s %s %s %s", pointer, status, pay, title)

	if j.Client != "" {
		line += ui.Muted.Render(" · " + j.Client)
	}

	// Due annotation (skip for finished work)
	if j.DueDate != "" && j.Status != job.StatusCompleted {
		line += " " + job.FormatDue(j.DueDate, m.today)
	}

	if j.TotalCost > 0 {
		line += " " + job.FormatCost(j.TotalCost, "")
	}

	return line
}
