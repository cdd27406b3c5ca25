package sched

import (
	"errors"
	"fmt"

	"github.com/easel-app/easel/internal/job"
)

// ErrInvalidConfig is returned for degenerate scheduler configuration:
// a non-positive global work-hours default, or all-zero priority weights.
// These fail fast rather than silently producing an empty or all-zero plan.
var ErrInvalidConfig = errors.New("invalid scheduler configuration")

// FallbackHours is the guard value used when no work-hours configuration is
// supplied at all. A default must always exist.
const FallbackHours = 8

// WorkHoursConfig holds the work-hour estimate defaults.
type WorkHoursConfig struct {
	// GlobalDefault is the estimate used when nothing more specific applies.
	GlobalDefault float64 `json:"globalDefault"`
	// CategoryDefaults maps a service category to default hours. Schema-only
	// for now: jobs carry a service ID, not a category, and the resolver
	// does not consult the catalog, so these entries are never reached.
	CategoryDefaults map[string]float64 `json:"categoryDefaults"`
	// ServiceOverrides maps a specific service ID to default hours.
	ServiceOverrides map[string]float64 `json:"serviceOverrides"`
}

// DefaultWorkHoursConfig returns a config with the 8h global default.
func DefaultWorkHoursConfig() WorkHoursConfig {
	return WorkHoursConfig{
		GlobalDefault:    FallbackHours,
		CategoryDefaults: map[string]float64{},
		ServiceOverrides: map[string]float64{},
	}
}

// Validate rejects a config whose global default cannot resolve a positive
// estimate. A nil config is valid; resolution falls back to FallbackHours.
func (c *WorkHoursConfig) Validate() error {
	if c == nil {
		return nil
	}
	if c.GlobalDefault <= 0 {
		return fmt.Errorf("%w: global default work hours must be positive, got %v", ErrInvalidConfig, c.GlobalDefault)
	}
	return nil
}

// ResolveHours determines how many total hours a job requires.
// Precedence: the job's own explicit estimate, then the per-service
// override, then the global default.
func ResolveHours(j job.Job, cfg *WorkHoursConfig) float64 {
	if j.EstimatedHours > 0 {
		return j.EstimatedHours
	}
	if cfg == nil {
		return FallbackHours
	}
	if j.ServiceID != "" {
		if v, ok := cfg.ServiceOverrides[j.ServiceID]; ok && v > 0 {
			return v
		}
	}
	// Category defaults would slot in here, but a bare job record carries no
	// category and the resolver does not consult the service catalog.
	if cfg.GlobalDefault > 0 {
		return cfg.GlobalDefault
	}
	return FallbackHours
}
