package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/easel-app/easel/internal/job"
)

const browserToday = "2026-03-02"

func makeJobs(titles ...string) []job.Job {
	out := make([]job.Job, len(titles))
	now := time.Now()
	for i, t := range titles {
		out[i] = job.Job{
			ID:        "j" + string(rune('1'+i)),
			Title:     t,
			Status:    job.StatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	return out
}

func TestNewJobsModel_Defaults(t *testing.T) {
	m := NewJobsModel(makeJobs("chibi icon", "banner art", "emote set"), browserToday)

	if m.cursor != 0 {
		t.Fatalf("cursor should start at 0, got %d", m.cursor)
	}
	if len(m.filtered) != 3 {
		t.Fatalf("all jobs should be visible initially, got %d", len(m.filtered))
	}
	if m.mode != jobsModeNormal {
		t.Fatalf("initial mode should be normal, got %d", m.mode)
	}
}

func TestJobsModel_NavigateDownUp(t *testing.T) {
	m := NewJobsModel(makeJobs("one", "two", "three"), browserToday)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if m.cursor != 1 {
		t.Fatalf("cursor should be 1 after j, got %d", m.cursor)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if m.cursor != 2 {
		t.Fatalf("cursor should clamp at 2, got %d", m.cursor)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if m.cursor != 1 {
		t.Fatalf("cursor should be 1 after k, got %d", m.cursor)
	}
}

func TestJobsModel_GotoTopBottom(t *testing.T) {
	m := NewJobsModel(makeJobs("a", "b", "c", "d"), browserToday)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	if m.cursor != 3 {
		t.Fatalf("G should move to last item, got %d", m.cursor)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	if m.cursor != 0 {
		t.Fatalf("g should move to first item, got %d", m.cursor)
	}
}

func TestJobsModel_AdvanceStatusAction(t *testing.T) {
	m := NewJobsModel(makeJobs("chibi icon"), browserToday)

	// Press x: ready → wip
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	if len(m.Actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(m.Actions))
	}
	if m.Actions[0].Type != "status" || m.Actions[0].ID != "j1" {
		t.Fatalf("unexpected action %+v", m.Actions[0])
	}
	if m.Actions[0].Status != job.StatusInProgress {
		t.Fatalf("ready should advance to wip, got %s", m.Actions[0].Status)
	}
	if m.jobs[0].Status != job.StatusInProgress {
		t.Fatal("local job should be updated for immediate feedback")
	}

	// Press x again: wip → done
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if m.Actions[1].Status != job.StatusCompleted {
		t.Fatalf("wip should advance to done, got %s", m.Actions[1].Status)
	}
}

func TestJobsModel_TerminalStatusNotAdvanced(t *testing.T) {
	jobs := makeJobs("dropped piece")
	jobs[0].Status = job.StatusCancelled
	m := NewJobsModel(jobs, browserToday)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	if len(m.Actions) != 0 {
		t.Fatalf("cancelled job should not produce a status action, got %+v", m.Actions)
	}
}

func TestAdvanceStatus_Cycle(t *testing.T) {
	steps := []struct{ from, to job.Status }{
		{job.StatusDraft, job.StatusPending},
		{job.StatusPending, job.StatusInProgress},
		{job.StatusInProgress, job.StatusCompleted},
		{job.StatusCompleted, job.StatusPending},
		{job.StatusRejected, job.StatusRejected},
	}
	for _, s := range steps {
		if got := advanceStatus(s.from); got != s.to {
			t.Errorf("advanceStatus(%s) = %s, want %s", s.from, got, s.to)
		}
	}
}

func TestJobsModel_DeleteAction(t *testing.T) {
	m := NewJobsModel(makeJobs("item one", "item two"), browserToday)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})

	if len(m.Actions) != 1 || m.Actions[0].Type != "delete" {
		t.Fatalf("expected delete action, got %+v", m.Actions)
	}
	if len(m.jobs) != 1 {
		t.Fatalf("jobs should have 1 item after delete, got %d", len(m.jobs))
	}
}

func TestJobsModel_DeleteClampsCursor(t *testing.T) {
	m := NewJobsModel(makeJobs("a", "b"), browserToday)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})

	if m.cursor != 0 {
		t.Fatalf("cursor should clamp to 0 after last item deleted, got %d", m.cursor)
	}
}

func TestJobsModel_FilterMode(t *testing.T) {
	m := NewJobsModel(makeJobs("chibi icon", "banner art", "emote set"), browserToday)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if m.mode != jobsModeFilter {
		t.Fatalf("/ should enter filter mode, got %d", m.mode)
	}

	for _, r := range "chibi" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if len(m.filtered) != 1 {
		t.Fatalf("filter 'chibi' should match 1 job, got %d", len(m.filtered))
	}

	// Confirm; filter stays active
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != jobsModeNormal {
		t.Fatalf("enter should confirm filter, got mode %d", m.mode)
	}
	if len(m.filtered) != 1 {
		t.Fatalf("filter should remain active, got %d items", len(m.filtered))
	}
}

func TestJobsModel_FilterMatchesClient(t *testing.T) {
	jobs := makeJobs("banner art", "emote set")
	jobs[0].Client = "rivera"
	m := NewJobsModel(jobs, browserToday)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	for _, r := range "rivera" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if len(m.filtered) != 1 || m.filtered[0].Title != "banner art" {
		t.Fatalf("filter should match on client name, got %d items", len(m.filtered))
	}
}

func TestJobsModel_FilterModeClear(t *testing.T) {
	m := NewJobsModel(makeJobs("a", "b", "c"), browserToday)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	for _, r := range "zzz" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if len(m.filtered) != 0 {
		t.Fatalf("'zzz' should match nothing, got %d", len(m.filtered))
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != jobsModeNormal {
		t.Fatalf("esc should return to normal, got %d", m.mode)
	}
	if len(m.filtered) != 3 {
		t.Fatalf("cleared filter should show all items, got %d", len(m.filtered))
	}
}

func TestJobsModel_FilterBackspace(t *testing.T) {
	m := NewJobsModel(makeJobs("banner art"), browserToday)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	for _, r := range "ban" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if m.filter != "ba" {
		t.Fatalf("backspace should remove last filter char, got %q", m.filter)
	}
}

func TestJobsModel_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		m := NewJobsModel(makeJobs("item"), browserToday)
		model, cmd := m.Update(key)
		result := model.(*JobsModel)

		if !result.quitting {
			t.Fatalf("%v should set quitting", key)
		}
		if cmd == nil {
			t.Fatalf("%v should return tea.Quit cmd", key)
		}
	}
}

func TestJobsModel_WindowSizeMsg(t *testing.T) {
	m := NewJobsModel(makeJobs("x"), browserToday)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	if m.width != 120 || m.height != 40 {
		t.Fatalf("window size should be stored, got %dx%d", m.width, m.height)
	}
}

func TestJobsModel_ViewContainsJobs(t *testing.T) {
	m := NewJobsModel(makeJobs("chibi icon", "banner art"), browserToday)
	view := m.View()

	if !strings.Contains(view, "chibi icon") {
		t.Fatal("view should contain 'chibi icon'")
	}
	if !strings.Contains(view, "banner art") {
		t.Fatal("view should contain 'banner art'")
	}
}

func TestJobsModel_ViewShowsOverdue(t *testing.T) {
	jobs := makeJobs("late piece")
	jobs[0].DueDate = "2026-02-20"
	m := NewJobsModel(jobs, browserToday)
	view := m.View()

	if !strings.Contains(view, "2026-02-20") {
		t.Fatal("view should show the overdue date")
	}
}

func TestJobsModel_ViewShowsHelp(t *testing.T) {
	m := NewJobsModel(makeJobs("x"), browserToday)
	view := m.View()

	if !strings.Contains(view, "j/k") {
		t.Fatal("view should show navigation help")
	}
	if !strings.Contains(view, "advance status") {
		t.Fatal("view should mention status key")
	}
}

func TestJobsModel_ViewEmptyList(t *testing.T) {
	m := NewJobsModel(nil, browserToday)
	view := m.View()

	if !strings.Contains(view, "No commissions") {
		t.Fatal("empty list view should say 'No commissions'")
	}
}

func TestJobsModel_StatusBarCountsOpen(t *testing.T) {
	jobs := makeJobs("a", "b", "c")
	jobs[2].Status = job.StatusCompleted
	m := NewJobsModel(jobs, browserToday)
	view := m.View()

	if !strings.Contains(view, "2 open") {
		t.Fatal("status bar should count schedulable jobs as open")
	}
}
