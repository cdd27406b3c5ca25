package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// KeyType represents the data type of a config key.
type KeyType string

const (
	KeyTypeString KeyType = "string"
	KeyTypeInt    KeyType = "int"
	KeyTypeBool   KeyType = "bool"
	KeyTypeFloat  KeyType = "float"
)

// KeyEntry describes a known, settable config key.
type KeyEntry struct {
	// Type is the value's data type (string, int, bool, float).
	Type KeyType
	// Desc is a human-readable description shown in `easel config list`.
	Desc string
	// DefaultStr is the string representation of the default/zero value.
	DefaultStr string

	// get returns the current value as a string.
	get func(*Config) string
	// set validates and applies the value to cfg, returning an error on type mismatch.
	set func(cfg *Config, value string) error
	// unset resets the key to its schema default.
	unset func(cfg *Config)
}

// Get returns the current value of the key as a string.
func (e *KeyEntry) Get(cfg *Config) string { return e.get(cfg) }

// Set validates and sets the value, returning a descriptive error on type mismatch.
func (e *KeyEntry) Set(cfg *Config, value string) error { return e.set(cfg, value) }

// Unset resets the key to its schema default.
func (e *KeyEntry) Unset(cfg *Config) { e.unset(cfg) }

// SchemaKeys is the authoritative registry of all settable config keys.
// Keys use dot-notation matching the TOML section structure.
var SchemaKeys = map[string]*KeyEntry{
	"user.name": {
		Type:       KeyTypeString,
		Desc:       "Display name",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.User.Name },
		set:        func(cfg *Config, v string) error { cfg.User.Name = v; return nil },
		unset:      func(cfg *Config) { cfg.User.Name = "" },
	},
	"user.studio": {
		Type:       KeyTypeString,
		Desc:       "Shop or studio name",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.User.Studio },
		set:        func(cfg *Config, v string) error { cfg.User.Studio = v; return nil },
		unset:      func(cfg *Config) { cfg.User.Studio = "" },
	},
	"scheduler.default_hours": {
		Type:       KeyTypeFloat,
		Desc:       "Daily work-hour budget",
		DefaultStr: "8",
		get:        func(cfg *Config) string { return formatFloat(cfg.Scheduler.DefaultHours) },
		set: func(cfg *Config, v string) error {
			f, err := ParsePositiveFloat(v)
			if err != nil {
				return fmt.Errorf("invalid value %q for scheduler.default_hours: %w", v, err)
			}
			cfg.Scheduler.DefaultHours = f
			return nil
		},
		unset: func(cfg *Config) { cfg.Scheduler.DefaultHours = 8 },
	},
	"scheduler.weekend_rest": {
		Type:       KeyTypeBool,
		Desc:       "Treat Saturday and Sunday as rest days",
		DefaultStr: "true",
		get:        func(cfg *Config) string { return fmt.Sprintf("%t", cfg.Scheduler.RestsOnWeekends()) },
		set: func(cfg *Config, v string) error {
			b, err := ParseBoolValue(v)
			if err != nil {
				return fmt.Errorf("invalid value %q for scheduler.weekend_rest: %w", v, err)
			}
			cfg.Scheduler.WeekendRest = BoolPtr(b)
			return nil
		},
		unset: func(cfg *Config) { cfg.Scheduler.WeekendRest = BoolPtr(true) },
	},
	"scheduler.protect_days": {
		Type:       KeyTypeInt,
		Desc:       "Days of already-planned work protected from rescheduling (0 disables)",
		DefaultStr: "0",
		get:        func(cfg *Config) string { return strconv.Itoa(cfg.Scheduler.ProtectDays) },
		set: func(cfg *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n < 0 {
				return fmt.Errorf("invalid value %q for scheduler.protect_days: expected a non-negative integer", v)
			}
			cfg.Scheduler.ProtectDays = n
			return nil
		},
		unset: func(cfg *Config) { cfg.Scheduler.ProtectDays = 0 },
	},
	"scheduler.work_hours": {
		Type:       KeyTypeFloat,
		Desc:       "Default work-hour estimate for jobs without one",
		DefaultStr: "8",
		get:        func(cfg *Config) string { return formatFloat(cfg.Scheduler.WorkHours) },
		set: func(cfg *Config, v string) error {
			f, err := ParsePositiveFloat(v)
			if err != nil {
				return fmt.Errorf("invalid value %q for scheduler.work_hours: %w", v, err)
			}
			cfg.Scheduler.WorkHours = f
			return nil
		},
		unset: func(cfg *Config) { cfg.Scheduler.WorkHours = 8 },
	},
	"weights.due_date": weightKey("deadline urgency", func(cfg *Config) *float64 { return &cfg.Weights.DueDate }, "0.5"),
	"weights.status":   weightKey("workflow status", func(cfg *Config) *float64 { return &cfg.Weights.Status }, "0.3"),
	"weights.payment":  weightKey("payment status", func(cfg *Config) *float64 { return &cfg.Weights.Payment }, "0.1"),
	"weights.manual":   weightKey("manual knobs", func(cfg *Config) *float64 { return &cfg.Weights.Manual }, "0.1"),

	"priority.deadline":  knobKey("having a due date", func(cfg *Config) *int { return &cfg.Priority.Deadline }, 5),
	"priority.order_age": knobKey("order age", func(cfg *Config) *int { return &cfg.Priority.OrderAge }, 1),
	"priority.cost":      knobKey("commission cost", func(cfg *Config) *int { return &cfg.Priority.Cost }, 1),
	"priority.wip":       knobKey("in-progress work", func(cfg *Config) *int { return &cfg.Priority.WIP }, 8),
	"priority.ready":     knobKey("ready/pending work", func(cfg *Config) *int { return &cfg.Priority.Ready }, 5),
}

// weightKey builds a KeyEntry for one priority-weight field.
func weightKey(what string, field func(*Config) *float64, def string) *KeyEntry {
	return &KeyEntry{
		Type:       KeyTypeFloat,
		Desc:       "Weight for the " + what + " score term",
		DefaultStr: def,
		get:        func(cfg *Config) string { return formatFloat(*field(cfg)) },
		set: func(cfg *Config, v string) error {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid weight %q: expected a non-negative number", v)
			}
			*field(cfg) = f
			return nil
		},
		unset: func(cfg *Config) {
			d, _ := strconv.ParseFloat(def, 64)
			*field(cfg) = d
		},
	}
}

// knobKey builds a KeyEntry for one 1-10 manual priority knob.
func knobKey(what string, field func(*Config) *int, def int) *KeyEntry {
	return &KeyEntry{
		Type:       KeyTypeInt,
		Desc:       "Priority knob (1-10) for " + what,
		DefaultStr: strconv.Itoa(def),
		get:        func(cfg *Config) string { return strconv.Itoa(*field(cfg)) },
		set: func(cfg *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n < 1 || n > 10 {
				return fmt.Errorf("invalid priority %q: expected an integer from 1 to 10", v)
			}
			*field(cfg) = n
			return nil
		},
		unset: func(cfg *Config) { *field(cfg) = def },
	}
}

// ValidKeyNames returns the sorted list of all known config key names.
func ValidKeyNames() []string {
	names := make([]string, 0, len(SchemaKeys))
	for k := range SchemaKeys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LookupKey returns the KeyEntry for a known config key.
func LookupKey(key string) (*KeyEntry, bool) {
	entry, ok := SchemaKeys[key]
	return entry, ok
}

// ParseBoolValue accepts common boolean string representations.
// Valid truthy values: true, 1, yes, on.
// Valid falsy values: false, 0, no, off.
func ParseBoolValue(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q (use one of: true/false, 1/0, yes/no, on/off)", s)
	}
}

// ParsePositiveFloat parses a strictly positive number.
func ParsePositiveFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("expected a positive number")
	}
	return f, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
