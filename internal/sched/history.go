package sched

import "time"

// HistoryLimit bounds the undo stack. Oldest snapshots fall off first.
const HistoryLimit = 50

// Snapshot is one immutable point-in-time capture of the schedule and the
// calendar it was built against.
type Snapshot struct {
	Timestamp time.Time       `json:"timestamp"`
	Tasks     []ScheduledTask `json:"tasks"`
	Config    CalendarConfig  `json:"config"`
}

// SchedulerState is the persisted scheduler document: current calendar,
// current schedule, and a bounded snapshot history with an undo cursor.
//
// Cursor points at the history entry matching the current state, or -1 when
// history is empty. Undo and redo only move the cursor; snapshots themselves
// are never modified after Push.
type SchedulerState struct {
	Config  CalendarConfig  `json:"config"`
	Tasks   []ScheduledTask `json:"tasks"`
	LastRun time.Time       `json:"lastRun,omitempty"`
	History []Snapshot      `json:"history,omitempty"`
	Cursor  int             `json:"cursor"`
}

// NewSchedulerState returns an empty state with the default calendar.
func NewSchedulerState() *SchedulerState {
	return &SchedulerState{
		Config: DefaultCalendarConfig(),
		Cursor: -1,
	}
}

// Apply replaces the current schedule and records it as a new snapshot.
// Snapshots past the cursor (the redo branch) are discarded: once a new
// schedule lands after an undo, the undone future is gone.
func (s *SchedulerState) Apply(tasks []ScheduledTask, cal CalendarConfig, now time.Time) {
	s.Tasks = cloneTasks(tasks)
	s.Config = cal.Clone()
	s.LastRun = now
	s.push(Snapshot{
		Timestamp: now,
		Tasks:     cloneTasks(tasks),
		Config:    cal.Clone(),
	})
}

func (s *SchedulerState) push(snap Snapshot) {
	if s.Cursor < len(s.History)-1 {
		s.History = s.History[:s.Cursor+1]
	}
	s.History = append(s.History, snap)
	if len(s.History) > HistoryLimit {
		s.History = s.History[len(s.History)-HistoryLimit:]
	}
	s.Cursor = len(s.History) - 1
}

// CanUndo reports whether an earlier snapshot exists.
func (s *SchedulerState) CanUndo() bool { return s.Cursor > 0 }

// CanRedo reports whether a later snapshot exists.
func (s *SchedulerState) CanRedo() bool { return s.Cursor >= 0 && s.Cursor < len(s.History)-1 }

// Undo steps the cursor back one snapshot and restores it as the current
// state. Returns false when already at the oldest snapshot.
func (s *SchedulerState) Undo() bool {
	if !s.CanUndo() {
		return false
	}
	s.Cursor--
	s.restore(s.History[s.Cursor])
	return true
}

// Redo steps the cursor forward one snapshot. Returns false when already at
// the newest snapshot.
func (s *SchedulerState) Redo() bool {
	if !s.CanRedo() {
		return false
	}
	s.Cursor++
	s.restore(s.History[s.Cursor])
	return true
}

// restore copies a snapshot into the current state without touching history.
// Clones both ways so later mutation of Tasks can't corrupt the snapshot.
func (s *SchedulerState) restore(snap Snapshot) {
	s.Tasks = cloneTasks(snap.Tasks)
	s.Config = snap.Config.Clone()
	s.LastRun = snap.Timestamp
}
