package job

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Store handles job persistence.
type Store struct {
	db *sql.DB
}

// NewStore creates a new job store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const jobColumns = `id, title, client, status, payment_status, due_date, start_date, total_cost, estimated_hours, service_id, created_at, updated_at`

// Add inserts a new job. The caller supplies the ID (marketplace ID for
// imported jobs, a generated UUID for locally created ones).
func (s *Store) Add(j Job) error {
	if strings.TrimSpace(j.ID) == "" {
		return fmt.Errorf("job ID must not be empty")
	}
	if j.Status == "" {
		j.Status = StatusPending
	}
	if j.PaymentStatus == "" {
		j.PaymentStatus = PaymentUnpaid
	}
	_, err := s.db.Exec(
		`INSERT INTO jobs (id, title, client, status, payment_status, due_date, start_date, total_cost, estimated_hours, service_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.Title, j.Client, string(j.Status), string(j.PaymentStatus),
		j.DueDate, j.StartDate, j.TotalCost, j.EstimatedHours, j.ServiceID,
	)
	return err
}

// Upsert inserts a job or updates it in place when the ID already exists.
// Used by the marketplace importer so re-imports refresh stale fields
// without clobbering the locally set work-hour estimate.
func (s *Store) Upsert(j Job) error {
	if strings.TrimSpace(j.ID) == "" {
		return fmt.Errorf("job ID must not be empty")
	}
	_, err := s.db.Exec(
		`INSERT INTO jobs (id, title, client, status, payment_status, due_date, start_date, total_cost, estimated_hours, service_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			client = excluded.client,
			status = excluded.status,
			payment_status = excluded.payment_status,
			due_date = excluded.due_date,
			start_date = excluded.start_date,
			total_cost = excluded.total_cost,
			service_id = excluded.service_id,
			estimated_hours = CASE WHEN jobs.estimated_hours > 0 THEN jobs.estimated_hours ELSE excluded.estimated_hours END,
			updated_at = CURRENT_TIMESTAMP`,
		j.ID, j.Title, j.Client, string(j.Status), string(j.PaymentStatus),
		j.DueDate, j.StartDate, j.TotalCost, j.EstimatedHours, j.ServiceID,
	)
	return err
}

// Get returns a single job by ID.
func (s *Store) Get(id string) (*Job, error) {
	row := s.db.QueryRow(`SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	j, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("job %q not found", id)
	}
	return j, nil
}

// ListOptions configures which jobs List returns.
type ListOptions struct {
	// SchedulableOnly restricts the result to pending and in-progress jobs.
	SchedulableOnly bool
	// IncludeClosed includes completed, cancelled, and rejected jobs.
	// Ignored when SchedulableOnly is set.
	IncludeClosed bool
}

// List returns jobs matching the given options, ordered by start date then
// creation time so scheduler input order is stable across runs.
func (s *Store) List(opts ListOptions) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`

	var conditions []string
	if opts.SchedulableOnly {
		conditions = append(conditions, `status IN ('PENDING', 'IN_PROGRESS')`)
	} else if !opts.IncludeClosed {
		conditions = append(conditions, `status NOT IN ('COMPLETED', 'CANCELLED', 'REJECTED')`)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY CASE WHEN start_date = '' THEN 1 ELSE 0 END, start_date ASC, created_at ASC, id ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// SetStatus updates a job's workflow status.
func (s *Store) SetStatus(id string, status Status) error {
	res, err := s.db.Exec(
		`UPDATE jobs SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(status), id,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("job %q not found", id)
	}
	return nil
}

// SetPaymentStatus updates a job's payment status.
func (s *Store) SetPaymentStatus(id string, p PaymentStatus) error {
	res, err := s.db.Exec(
		`UPDATE jobs SET payment_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(p), id,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("job %q not found", id)
	}
	return nil
}

// SetEstimatedHours sets the explicit per-job work-hour estimate.
// Pass 0 to clear it and fall back to service/global defaults.
func (s *Store) SetEstimatedHours(id string, hours float64) error {
	if hours < 0 {
		return fmt.Errorf("estimated hours must not be negative")
	}
	res, err := s.db.Exec(
		`UPDATE jobs SET estimated_hours = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		hours, id,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("job %q not found", id)
	}
	return nil
}

// Delete removes a job.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("job %q not found", id)
	}
	return nil
}

// Count returns open (schedulable) and total job counts plus how many open
// jobs are past their due date as of today (YYYY-MM-DD).
func (s *Store) Count(today string) (open int, total int, overdue int, err error) {
	err = s.db.QueryRow(`SELECT COUNT(*) FROM jobs WHERE status IN ('PENDING', 'IN_PROGRESS')`).Scan(&open)
	if err != nil {
		return
	}
	err = s.db.QueryRow(`SELECT COUNT(*) FROM jobs`).Scan(&total)
	if err != nil {
		return
	}
	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM jobs WHERE status IN ('PENDING', 'IN_PROGRESS') AND due_date != '' AND due_date < ?`,
		today,
	).Scan(&overdue)
	return
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*Job, error) {
	var j Job
	var status, payment string
	var createdStr, updatedStr string

	if err := row.Scan(&j.ID, &j.Title, &j.Client, &status, &payment, &j.DueDate, &j.StartDate,
		&j.TotalCost, &j.EstimatedHours, &j.ServiceID, &createdStr, &updatedStr); err != nil {
		return nil, err
	}
	j.Status = Status(status)
	j.PaymentStatus = PaymentStatus(payment)
	j.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdStr)
	j.UpdatedAt, _ = time.Parse("2006-01-02 15:04:05", updatedStr)
	return &j, nil
}
