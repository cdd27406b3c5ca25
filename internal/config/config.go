package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the top-level easel configuration. Scheduling defaults live
// here; per-date calendar data and the schedule itself live in the database.
type Config struct {
	User      UserConfig      `toml:"user"`
	Scheduler SchedulerConfig `toml:"scheduler"`
	Weights   WeightsConfig   `toml:"weights"`
	Priority  PriorityConfig  `toml:"priority"`
}

type UserConfig struct {
	Name string `toml:"name"`
	// Studio is the artist's shop or studio name, used in display output.
	Studio string `toml:"studio"`
}

// SchedulerConfig holds the calendar and allocation defaults.
type SchedulerConfig struct {
	// DefaultHours is the daily work-hour budget when no per-date override
	// exists.
	DefaultHours float64 `toml:"default_hours"`
	// WeekendRest treats Saturdays and Sundays as rest days.
	// Defaults to true when not set in config.
	WeekendRest *bool `toml:"weekend_rest,omitempty"`
	// ProtectDays keeps already-planned tasks within the next N days from
	// being moved by a reschedule. 0 disables the window.
	ProtectDays int `toml:"protect_days"`
	// WorkHours is the global default estimate for jobs with no explicit
	// hours and no service override.
	WorkHours float64 `toml:"work_hours"`
}

// RestsOnWeekends returns whether weekends are rest days.
// Treats nil (missing from config) as true.
func (s SchedulerConfig) RestsOnWeekends() bool {
	if s.WeekendRest == nil {
		return true
	}
	return *s.WeekendRest
}

// WeightsConfig gates the four priority-score contributions.
type WeightsConfig struct {
	DueDate float64 `toml:"due_date"`
	Status  float64 `toml:"status"`
	Payment float64 `toml:"payment"`
	Manual  float64 `toml:"manual"`
}

// PriorityConfig holds the manual priority knobs, each 1-10.
type PriorityConfig struct {
	Deadline int `toml:"deadline"`
	OrderAge int `toml:"order_age"`
	Cost     int `toml:"cost"`
	WIP      int `toml:"wip"`
	Ready    int `toml:"ready"`
}

// Paths returns standard XDG-compliant paths.
type Paths struct {
	ConfigDir  string
	DataDir    string
	CacheDir   string
	StateDir   string
	ConfigFile string
	DBFile     string
	VaultFile  string
}

// GetPaths returns the resolved paths, respecting XDG env vars.
func GetPaths() Paths {
	home, _ := os.UserHomeDir()

	configDir := envOr("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	dataDir := envOr("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	cacheDir := envOr("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	stateDir := envOr("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))

	easelConfig := filepath.Join(configDir, "easel")
	easelData := filepath.Join(dataDir, "easel")

	return Paths{
		ConfigDir:  easelConfig,
		DataDir:    easelData,
		CacheDir:   filepath.Join(cacheDir, "easel"),
		StateDir:   filepath.Join(stateDir, "easel"),
		ConfigFile: filepath.Join(easelConfig, "config.toml"),
		DBFile:     filepath.Join(easelData, "easel.db"),
		VaultFile:  filepath.Join(easelData, "vault.age"),
	}
}

// EnsureDirs creates all required directories.
func (p Paths) EnsureDirs() error {
	dirs := []string{p.ConfigDir, p.DataDir, p.CacheDir, p.StateDir}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Load reads config from disk, returning defaults if not found.
func Load() (*Config, error) {
	paths := GetPaths()
	cfg := defaultConfig()

	data, err := os.ReadFile(paths.ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to disk.
func Save(cfg *Config) error {
	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	f, err := os.Create(paths.ConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Initialized returns true if easel has been set up.
func Initialized() bool {
	paths := GetPaths()
	_, err := os.Stat(paths.ConfigFile)
	return err == nil
}

// BoolPtr returns a pointer to a bool value.
func BoolPtr(v bool) *bool {
	return &v
}

func defaultConfig() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			DefaultHours: 8,
			WeekendRest:  BoolPtr(true),
			ProtectDays:  0,
			WorkHours:    8,
		},
		Weights: WeightsConfig{
			DueDate: 0.5,
			Status:  0.3,
			Payment: 0.1,
			Manual:  0.1,
		},
		Priority: PriorityConfig{
			Deadline: 5,
			OrderAge: 1,
			Cost:     1,
			WIP:      8,
			Ready:    5,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
