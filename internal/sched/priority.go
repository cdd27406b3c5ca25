package sched

import (
	"fmt"
	"sort"

	"github.com/easel-app/easel/internal/catalog"
	"github.com/easel-app/easel/internal/job"
)

// Weights gates the four priority-score contributions. A zero weight
// disables its contribution entirely.
type Weights struct {
	DueDate float64 `json:"dueDate"`
	Status  float64 `json:"status"`
	Payment float64 `json:"payment"`
	Manual  float64 `json:"manual"`
}

// DefaultWeights returns the standard weighting: deadlines dominate.
func DefaultWeights() Weights {
	return Weights{DueDate: 0.5, Status: 0.3, Payment: 0.1, Manual: 0.1}
}

// Validate rejects an all-zero weight set, which would score every job 0 and
// reduce scheduling to input order by accident.
func (w Weights) Validate() error {
	if w.DueDate == 0 && w.Status == 0 && w.Payment == 0 && w.Manual == 0 {
		return fmt.Errorf("%w: all priority weights are zero", ErrInvalidConfig)
	}
	return nil
}

// PriorityConfig holds the user's manual priority knobs, each on a 1–10
// scale (higher = more urgent).
type PriorityConfig struct {
	// DeadlinePriority weighs having a due date at all; proximity is the
	// due-date weight's job.
	DeadlinePriority int `json:"deadlinePriority"`
	// OrderAgePriority weighs how long ago the order was accepted.
	OrderAgePriority int `json:"orderAgePriority"`
	// CostPriority weighs the commission's total cost.
	CostPriority int `json:"costPriority"`
	// WIPPriority and ReadyPriority scale the workflow-status bonus for
	// in-progress and pending jobs respectively.
	WIPPriority   int `json:"wipPriority"`
	ReadyPriority int `json:"readyPriority"`
	// CategoryPriorities and ServicePriorities rank work by category or by
	// specific service; a service entry overrides its category's entry.
	CategoryPriorities map[string]int `json:"categoryPriorities"`
	ServicePriorities  map[string]int `json:"servicePriorities"`
}

// DefaultPriorityConfig returns the standard knob settings.
func DefaultPriorityConfig() PriorityConfig {
	return PriorityConfig{
		DeadlinePriority:   5,
		OrderAgePriority:   1,
		CostPriority:       1,
		WIPPriority:        8,
		ReadyPriority:      5,
		CategoryPriorities: map[string]int{},
		ServicePriorities:  map[string]int{},
	}
}

// Point budgets for the four manual sub-scores.
const (
	manualDeadlinePoints = 25
	manualAgePoints      = 20
	manualCostPoints     = 25
	manualServicePoints  = 30
)

// Score computes a job's urgency/priority score. Non-negative, nominally
// 0–100+ with no hard ceiling. Pure: today is the injected reference date,
// so tests and repeated runs see identical scores.
func Score(j job.Job, w Weights, pc *PriorityConfig, services []catalog.Service, today Date) float64 {
	score := 0.0

	// Deadline urgency: linear ramp that crosses zero 25 days out and keeps
	// growing past the due date.
	if w.DueDate > 0 && j.DueDate != "" {
		if due, err := ParseDate(j.DueDate); err == nil {
			daysLeft := float64(DaysBetween(today, due))
			urgency := 50 - daysLeft*2
			if urgency > 0 {
				score += urgency * w.DueDate
			}
		}
	}

	// Workflow-status bonus. With a PriorityConfig the per-status knobs
	// scale into the 0–30 band; without one, fixed 30/10.
	if w.Status > 0 {
		switch j.Status {
		case job.StatusInProgress:
			if pc != nil {
				score += float64(pc.WIPPriority) / 10 * 30 * w.Status
			} else {
				score += 30 * w.Status
			}
		case job.StatusPending:
			if pc != nil {
				score += float64(pc.ReadyPriority) / 10 * 30 * w.Status
			} else {
				score += 10 * w.Status
			}
		}
	}

	// Paid work gets a flat bonus.
	if w.Payment > 0 && j.PaymentStatus == job.PaymentPaid {
		score += 20 * w.Payment
	}

	if pc != nil && w.Manual > 0 {
		score += manualScore(j, pc, services, today) * w.Manual
	}

	return score
}

// manualScore sums the four knob-driven sub-scores, each scaled from its
// 1–10 knob into a fixed point budget.
func manualScore(j job.Job, pc *PriorityConfig, services []catalog.Service, today Date) float64 {
	score := 0.0

	// Having a due date at all earns the deadline knob's share.
	if j.DueDate != "" {
		score += float64(pc.DeadlinePriority) / 10 * manualDeadlinePoints
	}

	// Older orders ramp up at half a point per day, capped.
	if j.StartDate != "" {
		if start, err := ParseDate(j.StartDate); err == nil {
			age := float64(DaysBetween(start, today))
			if age < 0 {
				age = 0
			}
			urgency := age * 0.5
			if urgency > manualAgePoints {
				urgency = manualAgePoints
			}
			score += float64(pc.OrderAgePriority) / 10 * urgency
		}
	}

	// Pricier commissions rank higher: 2.5 points per $100, capped.
	if j.TotalCost > 0 {
		costScore := j.TotalCost / 100 * 2.5
		if costScore > manualCostPoints {
			costScore = manualCostPoints
		}
		score += float64(pc.CostPriority) / 10 * costScore
	}

	// Service priority wins over category priority wins over the implicit
	// default of 1.
	servicePrio := 1
	if j.ServiceID != "" {
		if p, ok := pc.ServicePriorities[j.ServiceID]; ok && p > 0 {
			servicePrio = p
		} else if cat := categoryOf(j.ServiceID, services); cat != "" {
			if p, ok := pc.CategoryPriorities[cat]; ok && p > 0 {
				servicePrio = p
			}
		}
	}
	score += float64(servicePrio) / 10 * manualServicePoints

	return score
}

func categoryOf(serviceID string, services []catalog.Service) string {
	for _, s := range services {
		if s.ID == serviceID {
			return s.Category
		}
	}
	return ""
}

// rankedJob pairs a job with its score and resolved hour demand for the
// allocator queue.
type rankedJob struct {
	job      job.Job
	score    float64
	required float64
}

// rankJobs scores every job and sorts descending. The sort is stable, so
// jobs with equal scores keep their input order and scheduling runs over
// identical inputs are byte-for-byte reproducible.
func rankJobs(jobs []job.Job, w Weights, pc *PriorityConfig, wh *WorkHoursConfig, services []catalog.Service, today Date) []rankedJob {
	ranked := make([]rankedJob, 0, len(jobs))
	for _, j := range jobs {
		ranked = append(ranked, rankedJob{
			job:      j,
			score:    Score(j, w, pc, services, today),
			required: ResolveHours(j, wh),
		})
	}
	sort.SliceStable(ranked, func(i, k int) bool {
		return ranked[i].score > ranked[k].score
	})
	return ranked
}
