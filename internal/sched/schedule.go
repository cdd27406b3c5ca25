package sched

import (
	"github.com/easel-app/easel/internal/catalog"
	"github.com/easel-app/easel/internal/job"
)

// Options controls a full scheduling run.
type Options struct {
	// Today is the reference date for scoring and the protection window.
	// Required: callers pass Today(time.Now()) at the boundary so the core
	// itself stays clock-free.
	Today Date
	// StartFrom overrides the first allocation day. Zero means today, or
	// the day after the protection window when one is set.
	StartFrom Date
	// Weights gates the priority contributions; nil means DefaultWeights.
	Weights *Weights
	// ProtectDays retains every existing task touching the next N days.
	ProtectDays int
}

// ScheduleJobs runs a full reschedule: it retains locked/completed/protected
// tasks, scores and ranks the remaining schedulable jobs, greedily fills the
// calendar with them, assigns vertical placement, and returns the combined
// schedule (retained tasks first, then new allocations in priority order).
//
// Inputs are never mutated. Jobs whose demand cannot be placed within the
// horizon are simply scheduled short; callers detect shortfall by comparing
// requested against scheduled hours.
func ScheduleJobs(
	jobs []job.Job,
	cal CalendarConfig,
	opts Options,
	wh *WorkHoursConfig,
	pc *PriorityConfig,
	services []catalog.Service,
	existing []ScheduledTask,
) ([]ScheduledTask, error) {
	weights := DefaultWeights()
	if opts.Weights != nil {
		weights = *opts.Weights
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if err := wh.Validate(); err != nil {
		return nil, err
	}

	retained, protectEnd := partitionRetained(existing, opts.Today, opts.ProtectDays)
	retained = cloneTasks(retained)
	lockedJobs := retainedJobIDs(retained)

	var pool []job.Job
	for _, j := range jobs {
		if j.Schedulable() && !lockedJobs[j.ID] {
			pool = append(pool, j)
		}
	}

	ranked := rankJobs(pool, weights, pc, wh, services, opts.Today)
	queue := make([]*demand, len(ranked))
	for i, r := range ranked {
		queue[i] = &demand{rankedJob: r, remaining: r.required}
	}

	start := opts.Today
	if !protectEnd.IsZero() {
		// Allocation resumes the day the protection window ends.
		start = protectEnd
	} else if !opts.StartFrom.IsZero() {
		start = opts.StartFrom
	}

	used := usedCapacity(retained)
	allocate(queue, cal, used, start)

	newTasks := buildTasks(queue)
	placeVertically(newTasks, retained)

	return append(retained, newTasks...), nil
}

// RescheduleOne re-places a single job after the user deleted or displaced
// its task: the job's full hour demand is laid contiguously into the first
// working days following every locked task. Returns nil when the job is
// unknown or no capacity exists, which is an expected interactive outcome,
// not an error.
func RescheduleOne(
	jobID string,
	existing []ScheduledTask,
	jobs []job.Job,
	cal CalendarConfig,
	wh *WorkHoursConfig,
	pc *PriorityConfig,
	services []catalog.Service,
	today Date,
) *ScheduledTask {
	var target *job.Job
	for i := range jobs {
		if jobs[i].ID == jobID {
			target = &jobs[i]
			break
		}
	}
	if target == nil {
		return nil
	}

	hours := ResolveHours(*target, wh)

	start := today
	var latestEnd Date
	for _, t := range existing {
		if t.Status == TaskLocked && t.JobID != jobID && latestEnd.Before(t.EndDate) {
			latestEnd = t.EndDate
		}
	}
	if !latestEnd.IsZero() {
		start = cal.NextWorkingDay(latestEnd)
	}

	workDays, hoursPerDay := allocateContiguous(start, hours, cal)
	if len(workDays) == 0 {
		return nil
	}

	total := 0.0
	for _, h := range hoursPerDay {
		total += h
	}

	return &ScheduledTask{
		TaskID:        "task-" + target.ID,
		JobID:         target.ID,
		StartDate:     workDays[0],
		EndDate:       workDays[len(workDays)-1],
		WorkDays:      workDays,
		HoursPerDay:   hoursPerDay,
		TotalHours:    total,
		Status:        TaskNormal,
		PriorityScore: Score(*target, DefaultWeights(), pc, services, today),
	}
}

// CalendarDay is a read-only projection of one date for rendering.
type CalendarDay struct {
	Date           Date            `json:"date"`
	IsRestDay      bool            `json:"isRestDay"`
	IsWeekend      bool            `json:"isWeekend"`
	IsToday        bool            `json:"isToday"`
	WorkHours      float64         `json:"workHours"`
	Tasks          []ScheduledTask `json:"tasks"`
	UsedHours      float64         `json:"usedHours"`
	RemainingHours float64         `json:"remainingHours"`
}

// BuildCalendarDay projects a date's working status, capacity, and assigned
// tasks for display.
func BuildCalendarDay(d Date, cal CalendarConfig, tasks []ScheduledTask, today Date) CalendarDay {
	day := CalendarDay{
		Date:      d,
		IsRestDay: cal.IsRestDay(d),
		IsWeekend: d.IsWeekend(),
		IsToday:   d == today,
		WorkHours: cal.DailyCapacity(d),
	}

	for _, t := range tasks {
		if t.OccupiesDate(d) {
			day.Tasks = append(day.Tasks, t)
			day.UsedHours += t.HoursOn(d)
		}
	}

	day.RemainingHours = day.WorkHours - day.UsedHours
	if day.RemainingHours < 0 {
		day.RemainingHours = 0
	}
	return day
}

// RequestedHours sums the resolved hour demand of every schedulable job.
// Callers compare it against ScheduledHours to surface capacity warnings.
func RequestedHours(jobs []job.Job, wh *WorkHoursConfig) float64 {
	total := 0.0
	for _, j := range jobs {
		if j.Schedulable() {
			total += ResolveHours(j, wh)
		}
	}
	return total
}

// ScheduledHours sums the hours of non-completed tasks in a schedule.
func ScheduledHours(tasks []ScheduledTask) float64 {
	total := 0.0
	for _, t := range tasks {
		if t.Status != TaskCompleted {
			total += t.TotalHours
		}
	}
	return total
}

// ShortfallHours reports the resolved demand a schedule failed to place:
// for each schedulable job, the gap between its resolved hours and the
// hours its tasks carry. Jobs owned by a locked or completed task are
// skipped entirely: they are excluded from the allocation pool, so their
// hours are governed by the pin, not by capacity.
func ShortfallHours(jobs []job.Job, wh *WorkHoursConfig, tasks []ScheduledTask) float64 {
	pinned := make(map[string]bool)
	placed := make(map[string]float64)
	for _, t := range tasks {
		if t.Pinned() {
			pinned[t.JobID] = true
		}
		placed[t.JobID] += t.TotalHours
	}

	total := 0.0
	for _, j := range jobs {
		if !j.Schedulable() || pinned[j.ID] {
			continue
		}
		if gap := ResolveHours(j, wh) - placed[j.ID]; gap > 0 {
			total += gap
		}
	}
	return total
}
