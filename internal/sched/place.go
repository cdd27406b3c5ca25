package sched

import "sort"

// Vertical placement window and spacing. Placement is purely cosmetic: it
// gives same-day sub-tasks non-overlapping start hours for stacked
// rendering and never affects hour totals or day capacity.
const (
	workWindowStart = 9.0
	workWindowEnd   = 20.0
	placementGap    = 0.5
)

type interval struct {
	start float64
	end   float64
}

// startHourFor finds a start hour for hours of work on day, avoiding the
// intervals already occupied by placed tasks (retained and newly built
// alike). The candidate starts at the window start and advances past each
// overlapping interval plus a half-hour buffer. If nothing fits, the start
// is clamped to windowEnd-hours; overlap is the degraded fallback, never a
// failure.
func startHourFor(day Date, hours float64, placed []ScheduledTask) float64 {
	var occupied []interval
	for _, t := range placed {
		if !t.OccupiesDate(day) {
			continue
		}
		s := t.StartHour
		if s == 0 {
			s = workWindowStart
		}
		// Tasks spanning several days render as equal slices per day, even
		// though HoursOn(day) is exact: the flat slice keeps a task's stacked
		// height uniform across its days.
		h := t.TotalHours / float64(len(t.WorkDays))
		occupied = append(occupied, interval{start: s, end: s + h})
	}
	sort.Slice(occupied, func(i, j int) bool { return occupied[i].start < occupied[j].start })

	start := workWindowStart
	for _, o := range occupied {
		if start+hours <= o.start {
			break
		}
		if o.end+placementGap > start {
			start = o.end + placementGap
		}
	}

	if start > workWindowEnd-hours {
		start = workWindowEnd - hours
	}
	return start
}

// placeVertically assigns start hours to newly built tasks, scanning the
// retained tasks and the already-placed portion of the new list for each
// task's first day.
func placeVertically(newTasks, retained []ScheduledTask) {
	placed := make([]ScheduledTask, 0, len(retained)+len(newTasks))
	placed = append(placed, retained...)

	for i := range newTasks {
		day := newTasks[i].StartDate
		hours := newTasks[i].HoursOn(day)
		newTasks[i].StartHour = startHourFor(day, hours, placed)
		placed = append(placed, newTasks[i])
	}
}
