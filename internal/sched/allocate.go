package sched

import "strconv"

// Allocation constants.
const (
	// minAllocation is the minimum hours a job may receive on a single day.
	// Sub-hour fragments make no sense as plannable work; the only exception
	// is a job whose total requirement is itself below one hour.
	minAllocation = 1.0
	// maxHorizonDays caps the day-by-day walk. Demand that cannot be placed
	// inside the horizon is left unscheduled, a capacity warning for the
	// caller rather than an error.
	maxHorizonDays = 365
	// hoursEpsilon absorbs float drift when comparing hour totals.
	hoursEpsilon = 1e-9
)

// subAllocation is one per-day slice of a job produced by the allocator.
type subAllocation struct {
	day   Date
	hours float64
}

// demand tracks one queued job through the allocation walk.
type demand struct {
	rankedJob
	remaining float64
	subs      []subAllocation
}

// placeable reports whether the allocator should still offer days to this
// demand. A leftover fragment below the granularity floor (of a job that
// originally required at least an hour) can never legally be placed, so it
// is written off as shortfall instead of burning the horizon.
func (d *demand) placeable() bool {
	if d.remaining <= hoursEpsilon {
		return false
	}
	if d.remaining < minAllocation-hoursEpsilon && d.required >= minAllocation {
		return false
	}
	return true
}

// allocate walks the calendar day by day from start, filling each working
// day's remaining capacity across the queue in strict priority order.
//
// Day-major, priority-minor: every working day is inspected exactly once,
// and within a day a lower-priority job only sees whatever capacity is left
// after every higher-priority job has taken what it needs. A long
// high-priority job can starve the rest of the queue for that day; priority
// inversion is deliberately disallowed.
//
// Non-working days receive nothing and never continue a sub-task: because a
// job that spills past a day boundary always starts a fresh sub-task, every
// sub-task is a contiguous run by construction.
func allocate(queue []*demand, cal CalendarConfig, used map[Date]float64, start Date) {
	cursor := start
	for day := 0; day < maxHorizonDays; day++ {
		if !anyPlaceable(queue) {
			return
		}
		if !cal.IsWorkingDay(cursor) {
			cursor = cursor.AddDays(1)
			continue
		}

		capacity := cal.DailyCapacity(cursor) - used[cursor]
		for _, d := range queue {
			if capacity < minAllocation-hoursEpsilon {
				// Day is effectively full; sub-hour gaps are never split.
				break
			}
			if !d.placeable() {
				continue
			}

			grant := d.remaining
			if capacity < grant {
				grant = capacity
			}
			if grant < minAllocation-hoursEpsilon {
				// Offering less than the floor: defer this job to a later,
				// emptier day rather than creating a fragment. Whole jobs
				// under an hour are exempt — grant == remaining == required.
				if grant < d.remaining-hoursEpsilon || d.required >= minAllocation {
					continue
				}
			}

			d.subs = append(d.subs, subAllocation{day: cursor, hours: grant})
			d.remaining -= grant
			capacity -= grant
			used[cursor] += grant
		}

		cursor = cursor.AddDays(1)
	}
}

func anyPlaceable(queue []*demand) bool {
	for _, d := range queue {
		if d.placeable() {
			return true
		}
	}
	return false
}

// buildTasks converts each demand's accumulated sub-allocations into
// ScheduledTasks. Jobs that fit a single slice become one task; split jobs
// become one task per sub-allocation, linked by parent ID and index. Tasks
// are emitted in priority order with derived IDs, keeping the output
// deterministic.
func buildTasks(queue []*demand) []ScheduledTask {
	var out []ScheduledTask
	for _, d := range queue {
		if len(d.subs) == 0 {
			continue
		}

		parentID := "task-" + d.job.ID
		if len(d.subs) == 1 {
			sub := d.subs[0]
			out = append(out, ScheduledTask{
				TaskID:        parentID,
				JobID:         d.job.ID,
				StartDate:     sub.day,
				EndDate:       sub.day,
				WorkDays:      []Date{sub.day},
				HoursPerDay:   map[Date]float64{sub.day: sub.hours},
				TotalHours:    sub.hours,
				Status:        TaskNormal,
				PriorityScore: d.score,
			})
			continue
		}

		for i, sub := range d.subs {
			out = append(out, ScheduledTask{
				TaskID:        subTaskID(parentID, i),
				JobID:         d.job.ID,
				StartDate:     sub.day,
				EndDate:       sub.day,
				WorkDays:      []Date{sub.day},
				HoursPerDay:   map[Date]float64{sub.day: sub.hours},
				TotalHours:    sub.hours,
				Status:        TaskNormal,
				PriorityScore: d.score,
				ParentTaskID:  parentID,
				SubTaskIndex:  i,
				SubTaskCount:  len(d.subs),
			})
		}
	}
	return out
}

func subTaskID(parentID string, index int) string {
	return parentID + "-sub-" + strconv.Itoa(index)
}

// allocateContiguous fills a single job's hours into consecutive working
// days starting at start, against full calendar capacity. Used by
// single-job rescheduling, where the job claims whole days rather than
// competing with a queue.
func allocateContiguous(start Date, totalHours float64, cal CalendarConfig) ([]Date, map[Date]float64) {
	var workDays []Date
	hoursPerDay := make(map[Date]float64)

	remaining := totalHours
	cursor := start
	for day := 0; day < maxHorizonDays && remaining > hoursEpsilon; day++ {
		if !cal.IsWorkingDay(cursor) {
			cursor = cursor.AddDays(1)
			continue
		}
		dayHours := cal.DailyCapacity(cursor)
		if dayHours > 0 {
			grant := remaining
			if dayHours < grant {
				grant = dayHours
			}
			workDays = append(workDays, cursor)
			hoursPerDay[cursor] = grant
			remaining -= grant
		}
		cursor = cursor.AddDays(1)
	}

	return workDays, hoursPerDay
}
