// Package calplan reads calendar plan files: YAML documents describing rest
// days, vacation ranges, and per-date hour overrides that get merged into
// the working calendar in one shot instead of day-by-day commands.
package calplan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/easel-app/easel/internal/sched"
)

// Plan is one calendar plan document.
type Plan struct {
	// DefaultHours replaces the daily budget when set (> 0).
	DefaultHours float64 `yaml:"default_hours"`
	// WeekendRest toggles weekend rest when present.
	WeekendRest *bool `yaml:"weekend_rest"`
	// RestDays lists single rest dates (YYYY-MM-DD).
	RestDays []string `yaml:"rest_days"`
	// Vacations lists inclusive date ranges of rest.
	Vacations []Vacation `yaml:"vacations"`
	// Hours maps dates to per-date hour overrides.
	Hours map[string]float64 `yaml:"hours"`
}

// Vacation is an inclusive rest-day range.
type Vacation struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Load reads and validates a plan file.
func Load(path string) (*Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parsing plan: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Plan) validate() error {
	if p.DefaultHours < 0 {
		return fmt.Errorf("default_hours must not be negative")
	}
	for _, d := range p.RestDays {
		if _, err := sched.ParseDate(d); err != nil {
			return fmt.Errorf("rest_days: %w", err)
		}
	}
	for _, v := range p.Vacations {
		from, err := sched.ParseDate(v.From)
		if err != nil {
			return fmt.Errorf("vacations.from: %w", err)
		}
		to, err := sched.ParseDate(v.To)
		if err != nil {
			return fmt.Errorf("vacations.to: %w", err)
		}
		if to.Before(from) {
			return fmt.Errorf("vacation %s..%s ends before it starts", v.From, v.To)
		}
	}
	for d, h := range p.Hours {
		if _, err := sched.ParseDate(d); err != nil {
			return fmt.Errorf("hours: %w", err)
		}
		if h < 0 {
			return fmt.Errorf("hours for %s must not be negative", d)
		}
	}
	return nil
}

// Apply merges the plan into a calendar config and returns the updated copy
// plus the number of dates touched.
func (p *Plan) Apply(cal sched.CalendarConfig) (sched.CalendarConfig, int) {
	out := cal.Clone()
	touched := 0

	if p.DefaultHours > 0 {
		out.DefaultHours = p.DefaultHours
	}
	if p.WeekendRest != nil {
		out.WeekendRest = *p.WeekendRest
	}
	for _, d := range p.RestDays {
		date, _ := sched.ParseDate(d)
		out.SetRestDay(date, true)
		touched++
	}
	for _, v := range p.Vacations {
		from, _ := sched.ParseDate(v.From)
		to, _ := sched.ParseDate(v.To)
		for d := from; !to.Before(d); d = d.AddDays(1) {
			out.SetRestDay(d, true)
			touched++
		}
	}
	for d, h := range p.Hours {
		date, _ := sched.ParseDate(d)
		out.SetHours(date, h)
		touched++
	}
	return out, touched
}
