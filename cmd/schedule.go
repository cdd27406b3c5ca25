package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/easel-app/easel/internal/catalog"
	"github.com/easel-app/easel/internal/config"
	"github.com/easel-app/easel/internal/job"
	"github.com/easel-app/easel/internal/sched"
	"github.com/easel-app/easel/internal/state"
	"github.com/easel-app/easel/internal/store"
	"github.com/easel-app/easel/internal/tui"
	"github.com/easel-app/easel/internal/ui"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Plan commissions onto the calendar",
	Long:  `Run the scheduler over your open commissions, inspect the plan, pin tasks in place, and undo runs you regret.`,
	RunE:  runScheduleShow,
}

var (
	scheduleRunFrom    string
	scheduleRunProtect int
	scheduleShowDays   int
)

func init() {
	scheduleCmd.AddCommand(scheduleRunCmd)
	scheduleCmd.AddCommand(scheduleShowCmd)
	scheduleCmd.AddCommand(scheduleOneCmd)
	scheduleCmd.AddCommand(scheduleLockCmd)
	scheduleCmd.AddCommand(scheduleUnlockCmd)
	scheduleCmd.AddCommand(scheduleDoneCmd)
	scheduleCmd.AddCommand(scheduleUndoCmd)
	scheduleCmd.AddCommand(scheduleRedoCmd)
	scheduleCmd.AddCommand(scheduleResetCmd)

	scheduleRunCmd.Flags().StringVar(&scheduleRunFrom, "from", "", "First allocation day (YYYY-MM-DD, default today)")
	scheduleRunCmd.Flags().IntVar(&scheduleRunProtect, "protect", -1, "Protect tasks within the next N days (default from config)")
	scheduleShowCmd.Flags().IntVar(&scheduleShowDays, "days", 14, "How many days ahead to show")
}

// scheduleEnv bundles everything a scheduling command needs.
type scheduleEnv struct {
	cfg      *config.Config
	db       *store.DB
	st       *sched.SchedulerState
	cal      sched.CalendarConfig
	jobs     []job.Job
	services []catalog.Service
	wh       *sched.WorkHoursConfig
	pc       *sched.PriorityConfig
}

func loadScheduleEnv() (*scheduleEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	db, err := store.Open()
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	st, err := state.Load(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	jobs, err := job.NewStore(db.Conn()).List(job.ListOptions{IncludeClosed: true})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("listing jobs: %w", err)
	}

	services, err := catalog.NewStore(db.Conn()).List()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("listing services: %w", err)
	}

	wh, err := workHoursFor(cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	pc, err := priorityFor(cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &scheduleEnv{
		cfg:      cfg,
		db:       db,
		st:       st,
		cal:      calendarFor(cfg, st),
		jobs:     jobs,
		services: services,
		wh:       wh,
		pc:       pc,
	}, nil
}

var scheduleRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Reschedule all open commissions",
	Long: `Run a full reschedule. Locked and completed tasks never move; tasks inside
the protection window are kept in place and new work fills in around them.`,
	Args: cobra.NoArgs,
	RunE: runScheduleRun,
}

func runScheduleRun(_ *cobra.Command, _ []string) error {
	env, err := loadScheduleEnv()
	if err != nil {
		return err
	}
	defer env.db.Close()

	opts := sched.Options{
		Today:       todayDate(),
		Weights:     weightsPtr(weightsFor(env.cfg)),
		ProtectDays: env.cfg.Scheduler.ProtectDays,
	}
	if scheduleRunProtect >= 0 {
		opts.ProtectDays = scheduleRunProtect
	}
	if scheduleRunFrom != "" {
		from, err := sched.ParseDate(scheduleRunFrom)
		if err != nil {
			return fmt.Errorf("invalid --from date: %w", err)
		}
		opts.StartFrom = from
	}

	tasks, err := sched.ScheduleJobs(env.jobs, env.cal, opts, env.wh, env.pc, env.services, env.st.Tasks)
	if err != nil {
		return err
	}

	env.st.Apply(tasks, env.cal, time.Now())
	if err := state.Save(env.db, env.st); err != nil {
		return err
	}

	printRunSummary(env, tasks)
	return nil
}

func printRunSummary(env *scheduleEnv, tasks []sched.ScheduledTask) {
	var last sched.Date
	for _, t := range tasks {
		if last.Before(t.EndDate) {
			last = t.EndDate
		}
	}

	if len(tasks) == 0 {
		ui.Ok("Schedule is empty — nothing to plan")
		return
	}
	ui.Ok(fmt.Sprintf("%d task(s) planned through %s", len(tasks), ui.Accent.Render(string(last))))

	// Pinned jobs sit outside the pool, so their held-back hours are not a
	// capacity miss and must not trip the warning.
	shortfall := sched.ShortfallHours(env.jobs, env.wh, tasks)
	if shortfall > 0.01 {
		ui.Warn(fmt.Sprintf("%.1fh of work didn't fit the next year of capacity (%.1fh placed)",
			shortfall, sched.ScheduledHours(tasks)))
		ui.Tip("free up rest days or raise daily hours, then `easel schedule run` again.")
	}
}

var scheduleShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the upcoming plan day by day",
	Args:  cobra.NoArgs,
	RunE:  runScheduleShow,
}

func runScheduleShow(_ *cobra.Command, _ []string) error {
	env, err := loadScheduleEnv()
	if err != nil {
		return err
	}
	defer env.db.Close()

	today := todayDate()
	days := scheduleShowDays
	if days <= 0 {
		days = 14
	}

	titles := jobTitles(env.jobs)

	ui.Header("Schedule")
	shown := 0
	for i := 0; i < days; i++ {
		d := today.AddDays(i)
		day := sched.BuildCalendarDay(d, env.cal, env.st.Tasks, today)
		if len(day.Tasks) == 0 && day.WorkHours == 0 && !day.IsToday {
			continue
		}
		printDay(day, titles)
		shown++
	}
	if shown == 0 {
		fmt.Println(ui.Muted.Render("  Nothing planned."))
		fmt.Println()
		fmt.Printf("  Plan your queue: %s\n", ui.Accent.Render("easel schedule run"))
	}
	fmt.Println()
	return nil
}

func printDay(day sched.CalendarDay, titles map[string]string) {
	label := fmt.Sprintf("%s %s", day.Date, day.Date.Weekday().String()[:3])
	switch {
	case day.IsToday:
		label = ui.Accent.Render(label + " ← today")
	case day.WorkHours == 0:
		label = ui.Muted.Render(label + " " + ui.IconRest)
	default:
		label = ui.ValueStyle.Render(label)
	}
	fmt.Println("  " + label)

	for _, t := range day.Tasks {
		title := titles[t.JobID]
		if title == "" {
			title = t.JobID
		}
		part := ""
		if t.SubTaskCount > 1 {
			part = ui.Muted.Render(fmt.Sprintf(" (part %d/%d)", t.SubTaskIndex+1, t.SubTaskCount))
		}
		pin := ""
		switch t.Status {
		case sched.TaskLocked:
			pin = " " + ui.IconLocked
		case sched.TaskCompleted:
			pin = " " + ui.IconDone
		}
		fmt.Printf("    %s %s%s%s\n",
			ui.Muted.Render(fmt.Sprintf("%4.1fh", t.HoursOn(day.Date))),
			title, part, pin)
	}
	if day.WorkHours > 0 && day.RemainingHours > 0 {
		fmt.Println(ui.Muted.Render(fmt.Sprintf("    %4.1fh free", day.RemainingHours)))
	}
}

func jobTitles(jobs []job.Job) map[string]string {
	titles := make(map[string]string, len(jobs))
	for _, j := range jobs {
		titles[j.ID] = j.Title
	}
	return titles
}

var scheduleOneCmd = &cobra.Command{
	Use:   "one <job-id>",
	Short: "Re-place a single commission without a full reschedule",
	Long: `Lay one commission's hours back onto the calendar, after every locked task,
leaving everything else untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runScheduleOne,
}

func runScheduleOne(_ *cobra.Command, args []string) error {
	env, err := loadScheduleEnv()
	if err != nil {
		return err
	}
	defer env.db.Close()

	j, err := resolveJob(job.NewStore(env.db.Conn()), args[0])
	if err != nil {
		return err
	}

	task := sched.RescheduleOne(j.ID, env.st.Tasks, env.jobs, env.cal, env.wh, env.pc, env.services, todayDate())
	if task == nil {
		return fmt.Errorf("no capacity found for %q", j.Title)
	}

	// Replace the job's movable tasks with the fresh placement.
	var tasks []sched.ScheduledTask
	for _, t := range env.st.Tasks {
		if t.JobID == j.ID && !t.Pinned() {
			continue
		}
		tasks = append(tasks, t)
	}
	tasks = append(tasks, *task)

	env.st.Apply(tasks, env.cal, time.Now())
	if err := state.Save(env.db, env.st); err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("%s re-placed %s → %s (%.1fh)",
		j.Title, ui.Accent.Render(string(task.StartDate)), ui.Accent.Render(string(task.EndDate)), task.TotalHours))
	return nil
}

var scheduleLockCmd = &cobra.Command{
	Use:   "lock [task-id]",
	Short: "Pin a task so reschedules never move it",
	Long:  `Pin a task in place. With no ID, pick one interactively.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return setTaskStatus(args, sched.TaskLocked, "locked in place "+ui.IconLocked)
	},
}

var scheduleUnlockCmd = &cobra.Command{
	Use:   "unlock [task-id]",
	Short: "Unpin a task so the next reschedule can move it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return setTaskStatus(args, sched.TaskNormal, "unlocked")
	},
}

var scheduleDoneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task's work as finished",
	Long:  `Completed tasks stay on the calendar as a record and never move. With no ID, pick one interactively.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return setTaskStatus(args, sched.TaskCompleted, "marked done "+ui.IconDone)
	},
}

// taskItem adapts a scheduled task for the fuzzy picker.
type taskItem struct {
	task  sched.ScheduledTask
	title string
}

func (i taskItem) FilterValue() string { return i.title + " " + i.task.TaskID }

func (i taskItem) Title() string {
	t := i.title
	if i.task.SubTaskCount > 1 {
		t += fmt.Sprintf(" (part %d/%d)", i.task.SubTaskIndex+1, i.task.SubTaskCount)
	}
	return t
}

func (i taskItem) Description() string {
	desc := fmt.Sprintf("%s → %s · %.1fh", i.task.StartDate, i.task.EndDate, i.task.TotalHours)
	switch i.task.Status {
	case sched.TaskLocked:
		desc += " " + ui.IconLocked
	case sched.TaskCompleted:
		desc += " " + ui.IconDone
	}
	return desc
}

func taskItems(tasks []sched.ScheduledTask, titles map[string]string) []tui.Item {
	items := make([]tui.Item, 0, len(tasks))
	for _, t := range tasks {
		title := titles[t.JobID]
		if title == "" {
			title = t.JobID
		}
		items = append(items, taskItem{task: t, title: title})
	}
	return items
}

// setTaskStatus updates one task's status, by ID or unique ID fragment when
// given, otherwise via an interactive picker.
func setTaskStatus(args []string, status sched.TaskStatus, verb string) error {
	env, err := loadScheduleEnv()
	if err != nil {
		return err
	}
	defer env.db.Close()

	idx := -1
	if len(args) == 1 {
		idOrFragment := args[0]
		for i, t := range env.st.Tasks {
			if t.TaskID == idOrFragment {
				idx = i
				break
			}
		}
		if idx < 0 {
			for i, t := range env.st.Tasks {
				if strings.Contains(t.TaskID, idOrFragment) {
					if idx >= 0 {
						return fmt.Errorf("%q is ambiguous: multiple tasks match", idOrFragment)
					}
					idx = i
				}
			}
		}
		if idx < 0 {
			return fmt.Errorf("no scheduled task matches %q", idOrFragment)
		}
	} else {
		if !tui.IsTTY() {
			return fmt.Errorf("task id required (run from a terminal to pick one)")
		}
		if len(env.st.Tasks) == 0 {
			return fmt.Errorf("nothing scheduled — run `easel schedule run` first")
		}
		choice, err := tui.Run(taskItems(env.st.Tasks, jobTitles(env.jobs)), tui.WithTitle("Pick a task"))
		if err != nil {
			return err
		}
		if choice == nil {
			return nil
		}
		picked := choice.(taskItem)
		for i, t := range env.st.Tasks {
			if t.TaskID == picked.task.TaskID {
				idx = i
				break
			}
		}
	}

	tasks := append([]sched.ScheduledTask(nil), env.st.Tasks...)
	tasks[idx] = tasks[idx].Clone()
	tasks[idx].Status = status

	env.st.Apply(tasks, env.cal, time.Now())
	if err := state.Save(env.db, env.st); err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("%s %s", ui.Accent.Render(tasks[idx].TaskID), verb))
	return nil
}

var scheduleUndoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the last scheduling change",
	Args:  cobra.NoArgs,
	RunE:  runScheduleUndo,
}

func runScheduleUndo(_ *cobra.Command, _ []string) error {
	env, err := loadScheduleEnv()
	if err != nil {
		return err
	}
	defer env.db.Close()

	if !env.st.Undo() {
		return fmt.Errorf("nothing to undo")
	}
	if err := state.Save(env.db, env.st); err != nil {
		return err
	}
	ui.Ok("Rolled back one scheduling change")
	return nil
}

var scheduleRedoCmd = &cobra.Command{
	Use:   "redo",
	Short: "Redo an undone scheduling change",
	Args:  cobra.NoArgs,
	RunE:  runScheduleRedo,
}

func runScheduleRedo(_ *cobra.Command, _ []string) error {
	env, err := loadScheduleEnv()
	if err != nil {
		return err
	}
	defer env.db.Close()

	if !env.st.Redo() {
		return fmt.Errorf("nothing to redo")
	}
	if err := state.Save(env.db, env.st); err != nil {
		return err
	}
	ui.Ok("Re-applied the undone scheduling change")
	return nil
}

var scheduleResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the schedule and its history",
	Args:  cobra.NoArgs,
	RunE:  runScheduleReset,
}

func runScheduleReset(_ *cobra.Command, _ []string) error {
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	if err := state.Reset(db); err != nil {
		return err
	}
	ui.Ok("Schedule cleared — jobs and calendar settings were kept")
	return nil
}

func weightsPtr(w sched.Weights) *sched.Weights {
	return &w
}
