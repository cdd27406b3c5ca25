package sched

// partitionRetained splits the previous schedule into tasks that survive
// this run and tasks whose jobs go back into the pool.
//
// A task is retained unconditionally when locked or completed. When a
// protection window is set (protectDays > 0), a task is also retained if any
// of its occupied dates falls before today+protectDays, so near-term plans
// the freelancer has already committed to don't churn under their feet.
func partitionRetained(existing []ScheduledTask, today Date, protectDays int) (retained []ScheduledTask, protectEnd Date) {
	if protectDays > 0 {
		protectEnd = today.AddDays(protectDays)
	}

	for _, t := range existing {
		if t.Pinned() {
			retained = append(retained, t)
			continue
		}
		if protectEnd.IsZero() {
			continue
		}
		for _, d := range t.WorkDays {
			if d.Before(protectEnd) {
				retained = append(retained, t)
				break
			}
		}
	}
	return retained, protectEnd
}

// retainedJobIDs collects the jobs owned by retained tasks; those jobs are
// excluded from rescheduling entirely.
func retainedJobIDs(retained []ScheduledTask) map[string]bool {
	ids := make(map[string]bool, len(retained))
	for _, t := range retained {
		ids[t.JobID] = true
	}
	return ids
}

// usedCapacity pre-credits retained tasks' hours against the calendar so
// the allocator never double-books a day.
func usedCapacity(retained []ScheduledTask) map[Date]float64 {
	used := make(map[Date]float64)
	for _, t := range retained {
		for d, h := range t.HoursPerDay {
			used[d] += h
		}
	}
	return used
}
