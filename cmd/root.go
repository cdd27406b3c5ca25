package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/easel-app/easel/internal/config"
	"github.com/easel-app/easel/internal/job"
	"github.com/easel-app/easel/internal/sched"
	"github.com/easel-app/easel/internal/state"
	"github.com/easel-app/easel/internal/store"
	"github.com/easel-app/easel/internal/ui"
	"github.com/easel-app/easel/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "easel",
	Short: "Commission scheduling for freelance artists",
	Long:  `easel — your commission queue, planned onto a calendar you actually keep.`,
	RunE:  runDashboard,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Err(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(servicesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(vaultCmd)
	rootCmd.AddCommand(versionCmd)
}

// todayDate is the reference date handed to the scheduling core. The clock is
// read exactly once per command, here at the boundary.
func todayDate() sched.Date {
	return sched.Today(time.Now())
}

// calendarFor merges the calendar scalars from config.toml over the per-date
// overrides persisted with the scheduler state.
func calendarFor(cfg *config.Config, st *sched.SchedulerState) sched.CalendarConfig {
	cal := st.Config.Clone()
	if cfg.Scheduler.DefaultHours > 0 {
		cal.DefaultHours = cfg.Scheduler.DefaultHours
	}
	cal.WeekendRest = cfg.Scheduler.RestsOnWeekends()
	return cal
}

// workHoursFor loads the persisted work-hours maps and overlays the global
// default from config.toml.
func workHoursFor(cfg *config.Config, db *store.DB) (*sched.WorkHoursConfig, error) {
	wh, err := state.LoadWorkHours(db)
	if err != nil {
		return nil, err
	}
	if cfg.Scheduler.WorkHours > 0 {
		wh.GlobalDefault = cfg.Scheduler.WorkHours
	}
	return wh, nil
}

// priorityFor builds the scoring knobs from config.toml and merges in the
// persisted per-category and per-service priority maps.
func priorityFor(cfg *config.Config, db *store.DB) (*sched.PriorityConfig, error) {
	pc := sched.PriorityConfig{
		DeadlinePriority: cfg.Priority.Deadline,
		OrderAgePriority: cfg.Priority.OrderAge,
		CostPriority:     cfg.Priority.Cost,
		WIPPriority:      cfg.Priority.WIP,
		ReadyPriority:    cfg.Priority.Ready,
	}
	if err := state.LoadPriorityMaps(db, &pc); err != nil {
		return nil, err
	}
	return &pc, nil
}

func weightsFor(cfg *config.Config) sched.Weights {
	return sched.Weights{
		DueDate: cfg.Weights.DueDate,
		Status:  cfg.Weights.Status,
		Payment: cfg.Weights.Payment,
		Manual:  cfg.Weights.Manual,
	}
}

// runDashboard shows the at-a-glance status when you just type `easel`.
func runDashboard(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if !config.Initialized() {
		fmt.Println(ui.Greet(""))
		fmt.Println()
		fmt.Println("  Looks like this is your first time. Let's set things up!")
		fmt.Println()
		fmt.Printf("  Run %s to get started.\n", ui.Accent.Render("easel init"))
		fmt.Println()
		return nil
	}

	fmt.Println(ui.Greet(cfg.User.Name))
	fmt.Println()

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	today := todayDate()

	js := job.NewStore(db.Conn())
	open, total, overdue, err := js.Count(string(today))
	if err != nil {
		return fmt.Errorf("counting jobs: %w", err)
	}

	jobSummary := fmt.Sprintf("%d open", open)
	if total > 0 {
		jobSummary += fmt.Sprintf(" / %d total", total)
	}
	if overdue > 0 {
		jobSummary += ui.Error.Render(fmt.Sprintf(" (%d overdue!)", overdue))
	}
	ui.Kv(ui.IconJob+" Jobs", jobSummary)

	// Today's plan
	st, err := state.Load(db)
	if err != nil {
		return fmt.Errorf("loading schedule: %w", err)
	}
	cal := calendarFor(cfg, st)
	day := sched.BuildCalendarDay(today, cal, st.Tasks, today)
	switch {
	case day.IsRestDay || (day.IsWeekend && cal.WeekendRest):
		ui.Kv(ui.IconRest+" Today", "rest day")
	case day.UsedHours > 0:
		ui.Kv(ui.IconClock+"Today", fmt.Sprintf("%.1fh planned, %.1fh free", day.UsedHours, day.RemainingHours))
	default:
		ui.Kv(ui.IconClock+"Today", fmt.Sprintf("%.1fh free", day.RemainingHours))
	}

	ui.Kv(ui.IconCalendar+" Date", time.Now().Format("Monday, January 2"))
	ui.Kv("  "+ui.IconBrush+"Easel", version.Short())

	if overdue > 0 {
		ui.Tip("`easel schedule run` to replan around that overdue work.")
	} else if open > 0 {
		ui.Tip("`easel schedule show` to see what's on the calendar.")
	} else {
		ui.Tip("`easel jobs add \"something fun\"` to queue your next piece.")
	}

	fmt.Println()
	return nil
}
