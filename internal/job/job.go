package job

import (
	"fmt"
	"strings"
	"time"
)

// Status is the workflow state of a commission.
type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusRejected   Status = "REJECTED"
)

// PaymentStatus tracks how much of the commission has been paid.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "UNPAID"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
)

// Job is a commissioned order — the unit of billable work the scheduler
// allocates hours to. Jobs are read-only inputs to the scheduling core;
// they are owned and mutated here, by the surrounding application.
type Job struct {
	ID            string
	Title         string
	Client        string
	Status        Status
	PaymentStatus PaymentStatus
	// DueDate and StartDate are calendar dates in YYYY-MM-DD form.
	// Empty means not set.
	DueDate   string
	StartDate string
	TotalCost float64
	// EstimatedHours is the artist's explicit work-hour estimate for this
	// job. 0 means unset — the work-hours resolver falls back to service
	// overrides and defaults.
	EstimatedHours float64
	// ServiceID links the job to a service catalog entry (which carries
	// the category).
	ServiceID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Schedulable reports whether the job is eligible for scheduling.
// Only pending and in-progress work consumes calendar hours.
func (j Job) Schedulable() bool {
	return j.Status == StatusPending || j.Status == StatusInProgress
}

// ParseStatus validates and normalizes a workflow status string.
// Accepts marketplace names and short aliases: wip=in_progress, ready=pending.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draft", "new":
		return StatusDraft, nil
	case "pending", "ready", "waitlist":
		return StatusPending, nil
	case "in_progress", "in-progress", "inprogress", "wip":
		return StatusInProgress, nil
	case "completed", "done":
		return StatusCompleted, nil
	case "cancelled", "canceled":
		return StatusCancelled, nil
	case "rejected":
		return StatusRejected, nil
	default:
		return "", fmt.Errorf("invalid status %q — valid values: draft, pending (ready), in_progress (wip), completed, cancelled, rejected", s)
	}
}

// ParsePaymentStatus validates and normalizes a payment status string.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unpaid", "":
		return PaymentUnpaid, nil
	case "partial", "deposit":
		return PaymentPartial, nil
	case "paid", "full":
		return PaymentPaid, nil
	default:
		return "", fmt.Errorf("invalid payment status %q — valid values: unpaid, partial, paid", s)
	}
}

// StatusLabel returns a short display label for a workflow status.
func StatusLabel(s Status) string {
	switch s {
	case StatusDraft:
		return "draft"
	case StatusPending:
		return "ready"
	case StatusInProgress:
		return "wip"
	case StatusCompleted:
		return "done"
	case StatusCancelled:
		return "cancelled"
	case StatusRejected:
		return "rejected"
	default:
		return "?"
	}
}

// PaymentLabel returns a short display label for a payment status.
func PaymentLabel(p PaymentStatus) string {
	switch p {
	case PaymentPaid:
		return "paid"
	case PaymentPartial:
		return "partial"
	case PaymentUnpaid:
		return "unpaid"
	default:
		return "?"
	}
}
