package sched

// TaskStatus controls how a scheduled task behaves on reschedule.
type TaskStatus string

const (
	// TaskNormal tasks are discarded and re-placed on every scheduling run.
	TaskNormal TaskStatus = "NORMAL"
	// TaskLocked tasks were pinned by the user and never move.
	TaskLocked TaskStatus = "LOCKED"
	// TaskCompleted tasks record finished work and never move.
	TaskCompleted TaskStatus = "COMPLETED"
)

// ScheduledTask is one scheduled block of work for a job: either the whole
// job or one sub-task of a job split across days.
type ScheduledTask struct {
	// TaskID uniquely identifies the task. Derived from the job ID (and
	// sub-task index), so identical scheduling runs emit identical IDs.
	TaskID string `json:"taskId"`
	JobID  string `json:"jobId"`

	StartDate Date `json:"startDate"`
	EndDate   Date `json:"endDate"`
	// WorkDays lists every calendar date the task occupies, in order.
	WorkDays []Date `json:"workDays"`
	// HoursPerDay maps each work day to the hours allocated on it.
	// Invariant: the values sum to TotalHours.
	HoursPerDay map[Date]float64 `json:"hoursPerDay"`
	TotalHours  float64          `json:"totalHours"`

	Status TaskStatus `json:"status"`

	// PriorityScore records the score that ordered this task, for audit.
	PriorityScore float64 `json:"priorityScore,omitempty"`

	// Split metadata, present only when a job spans multiple sub-tasks.
	ParentTaskID string `json:"parentTaskId,omitempty"`
	SubTaskIndex int    `json:"subTaskIndex,omitempty"`
	SubTaskCount int    `json:"subTaskCount,omitempty"`

	// StartHour is the intra-day start (fractional, 24h clock) assigned by
	// the vertical placer for stacked rendering. Cosmetic only: it never
	// affects hour totals or day capacity. 0 means unplaced.
	StartHour float64 `json:"startHour,omitempty"`
}

// OccupiesDate reports whether the task has hours on the given date.
func (t ScheduledTask) OccupiesDate(d Date) bool {
	_, ok := t.HoursPerDay[d]
	return ok
}

// HoursOn returns the hours allocated on the given date (0 if none).
func (t ScheduledTask) HoursOn(d Date) float64 {
	return t.HoursPerDay[d]
}

// Pinned reports whether the task survives rescheduling unconditionally.
func (t ScheduledTask) Pinned() bool {
	return t.Status == TaskLocked || t.Status == TaskCompleted
}

// Clone returns a deep copy; the scheduler never mutates caller-owned tasks.
func (t ScheduledTask) Clone() ScheduledTask {
	out := t
	out.WorkDays = append([]Date(nil), t.WorkDays...)
	out.HoursPerDay = make(map[Date]float64, len(t.HoursPerDay))
	for d, h := range t.HoursPerDay {
		out.HoursPerDay[d] = h
	}
	return out
}

// cloneTasks deep-copies a task list.
func cloneTasks(tasks []ScheduledTask) []ScheduledTask {
	out := make([]ScheduledTask, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
