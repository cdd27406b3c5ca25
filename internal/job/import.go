package job

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// The marketplace exporter (an external script; easel never scrapes) writes
// either a flat commission array or the bucketed fetch result keyed by
// workflow state. Both shapes are accepted here.

type exportCommission struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	ClientName     string  `json:"clientName"`
	Status         string  `json:"status"`
	PaymentStatus  string  `json:"paymentStatus"`
	DueDate        string  `json:"dueDate"`
	StartDate      string  `json:"startDate"`
	CreatedAt      string  `json:"createdAt"`
	Price          any     `json:"price"`
	TotalCost      float64 `json:"totalCost"`
	EstimatedHours float64 `json:"estimatedWorkHours"`
	ServiceID      string  `json:"serviceID"`
}

type exportFile struct {
	Data map[string][]exportCommission `json:"data"`
}

// ImportFile reads a marketplace commission export and upserts every
// commission into the store. Returns the number of jobs imported.
func (s *Store) ImportFile(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading export: %w", err)
	}
	return s.importRaw(raw)
}

func (s *Store) importRaw(raw []byte) (int, error) {
	var comms []exportCommission

	// Flat array export first, bucketed fetch result as fallback.
	if err := json.Unmarshal(raw, &comms); err != nil {
		var f exportFile
		if err2 := json.Unmarshal(raw, &f); err2 != nil || f.Data == nil {
			return 0, fmt.Errorf("unrecognized export format: %w", err)
		}
		// Deterministic bucket order so import order is reproducible.
		for _, bucket := range []string{"new", "ready", "wip", "pending", "waitlist", "completed"} {
			comms = append(comms, f.Data[bucket]...)
		}
	}

	imported := 0
	for _, c := range comms {
		j, err := c.toJob()
		if err != nil {
			return imported, err
		}
		if err := s.Upsert(j); err != nil {
			return imported, fmt.Errorf("importing job %q: %w", j.ID, err)
		}
		imported++
	}
	return imported, nil
}

func (c exportCommission) toJob() (Job, error) {
	if strings.TrimSpace(c.ID) == "" {
		return Job{}, fmt.Errorf("commission with empty id in export")
	}

	status, err := ParseStatus(c.Status)
	if err != nil {
		return Job{}, fmt.Errorf("commission %q: %w", c.ID, err)
	}
	payment := PaymentUnpaid
	if c.PaymentStatus != "" {
		payment, err = ParsePaymentStatus(c.PaymentStatus)
		if err != nil {
			return Job{}, fmt.Errorf("commission %q: %w", c.ID, err)
		}
	}

	cost := c.TotalCost
	if cost == 0 {
		cost = parsePrice(c.Price)
	}

	start := c.StartDate
	if start == "" {
		start = dateOnly(c.CreatedAt)
	}

	return Job{
		ID:             c.ID,
		Title:          c.Title,
		Client:         c.ClientName,
		Status:         status,
		PaymentStatus:  payment,
		DueDate:        dateOnly(c.DueDate),
		StartDate:      start,
		TotalCost:      cost,
		EstimatedHours: c.EstimatedHours,
		ServiceID:      c.ServiceID,
	}, nil
}

// parsePrice handles the marketplace's loose price field: a number, or a
// string like "$120" / "120 USD".
func parsePrice(v any) float64 {
	switch p := v.(type) {
	case float64:
		return p
	case string:
		cleaned := strings.TrimSpace(p)
		cleaned = strings.TrimLeft(cleaned, "$€£¥")
		if i := strings.IndexByte(cleaned, ' '); i >= 0 {
			cleaned = cleaned[:i]
		}
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// dateOnly trims an ISO timestamp down to its YYYY-MM-DD prefix.
func dateOnly(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 10 {
		s = s[:10]
	}
	return s
}
