// Package state persists the scheduler document (current schedule, calendar,
// and undo history) as a JSON value in the database's kv table. The flat
// document read-modify-write keeps scheduling runs serialized at the
// persistence boundary: load, schedule, save.
package state

import (
	"encoding/json"
	"fmt"

	"github.com/easel-app/easel/internal/sched"
	"github.com/easel-app/easel/internal/store"
)

const stateKey = "scheduler_state"

// Load reads the persisted scheduler state, returning a fresh default state
// when none has been saved yet.
func Load(db *store.DB) (*sched.SchedulerState, error) {
	raw, err := db.GetKV(stateKey)
	if err != nil {
		return nil, fmt.Errorf("reading scheduler state: %w", err)
	}
	if raw == "" {
		return sched.NewSchedulerState(), nil
	}

	var s sched.SchedulerState
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("corrupt scheduler state: %w", err)
	}
	if s.Config.HoursPerDay == nil {
		s.Config.HoursPerDay = map[sched.Date]float64{}
	}
	if len(s.History) == 0 {
		s.Cursor = -1
	}
	return &s, nil
}

// Save writes the scheduler state back to the database.
func Save(db *store.DB, s *sched.SchedulerState) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding scheduler state: %w", err)
	}
	if err := db.SetKV(stateKey, string(raw)); err != nil {
		return fmt.Errorf("writing scheduler state: %w", err)
	}
	return nil
}

// Reset discards the persisted state entirely.
func Reset(db *store.DB) error {
	return db.DeleteKV(stateKey)
}

// workHoursKey holds the persisted work-hours configuration (service
// overrides don't fit the flat TOML config, so they live in the kv table).
const workHoursKey = "work_hours_config"

// LoadWorkHours reads the persisted work-hours configuration. The global
// default comes from config.toml; the caller overlays it after loading.
func LoadWorkHours(db *store.DB) (*sched.WorkHoursConfig, error) {
	raw, err := db.GetKV(workHoursKey)
	if err != nil {
		return nil, fmt.Errorf("reading work-hours config: %w", err)
	}
	if raw == "" {
		cfg := sched.DefaultWorkHoursConfig()
		return &cfg, nil
	}

	var cfg sched.WorkHoursConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("corrupt work-hours config: %w", err)
	}
	if cfg.CategoryDefaults == nil {
		cfg.CategoryDefaults = map[string]float64{}
	}
	if cfg.ServiceOverrides == nil {
		cfg.ServiceOverrides = map[string]float64{}
	}
	return &cfg, nil
}

// SaveWorkHours writes the work-hours configuration.
func SaveWorkHours(db *store.DB, cfg *sched.WorkHoursConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding work-hours config: %w", err)
	}
	return db.SetKV(workHoursKey, string(raw))
}

// priorityKey holds per-service and per-category priority maps, which also
// outgrow the flat TOML config.
const priorityKey = "priority_maps"

type priorityMaps struct {
	Categories map[string]int `json:"categories"`
	Services   map[string]int `json:"services"`
}

// LoadPriorityMaps reads the persisted per-category and per-service priority
// maps into a PriorityConfig built from the config-file knobs.
func LoadPriorityMaps(db *store.DB, pc *sched.PriorityConfig) error {
	raw, err := db.GetKV(priorityKey)
	if err != nil {
		return fmt.Errorf("reading priority maps: %w", err)
	}
	if pc.CategoryPriorities == nil {
		pc.CategoryPriorities = map[string]int{}
	}
	if pc.ServicePriorities == nil {
		pc.ServicePriorities = map[string]int{}
	}
	if raw == "" {
		return nil
	}

	var maps priorityMaps
	if err := json.Unmarshal([]byte(raw), &maps); err != nil {
		return fmt.Errorf("corrupt priority maps: %w", err)
	}
	for k, v := range maps.Categories {
		pc.CategoryPriorities[k] = v
	}
	for k, v := range maps.Services {
		pc.ServicePriorities[k] = v
	}
	return nil
}

// SavePriorityMaps persists the per-category and per-service priority maps.
func SavePriorityMaps(db *store.DB, pc *sched.PriorityConfig) error {
	raw, err := json.Marshal(priorityMaps{
		Categories: pc.CategoryPriorities,
		Services:   pc.ServicePriorities,
	})
	if err != nil {
		return fmt.Errorf("encoding priority maps: %w", err)
	}
	return db.SetKV(priorityKey, string(raw))
}
