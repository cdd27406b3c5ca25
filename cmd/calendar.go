package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/easel-app/easel/internal/calplan"
	"github.com/easel-app/easel/internal/config"
	"github.com/easel-app/easel/internal/sched"
	"github.com/easel-app/easel/internal/state"
	"github.com/easel-app/easel/internal/tui"
	"github.com/easel-app/easel/internal/ui"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Manage your working calendar",
	Long:  `Mark rest days and vacations, override daily hours, and see the month at a glance.`,
	RunE:  runCalendarShow,
}

var calendarMonth string

func init() {
	calendarCmd.AddCommand(calendarShowCmd)
	calendarCmd.AddCommand(calendarDayCmd)
	calendarCmd.AddCommand(calendarRestCmd)
	calendarCmd.AddCommand(calendarWorkCmd)
	calendarCmd.AddCommand(calendarHoursCmd)
	calendarCmd.AddCommand(calendarWeekendsCmd)
	calendarCmd.AddCommand(calendarImportCmd)

	calendarShowCmd.Flags().StringVar(&calendarMonth, "month", "", "Month to show (YYYY-MM, default current)")
	calendarCmd.Flags().StringVar(&calendarMonth, "month", "", "Month to show (YYYY-MM, default current)")
}

var calendarShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a month of working days and planned hours",
	Args:  cobra.NoArgs,
	RunE:  runCalendarShow,
}

func runCalendarShow(_ *cobra.Command, _ []string) error {
	env, err := loadScheduleEnv()
	if err != nil {
		return err
	}
	defer env.db.Close()

	today := todayDate()

	first := today.Time()
	if calendarMonth != "" {
		t, err := time.Parse("2006-01", calendarMonth)
		if err != nil {
			return fmt.Errorf("invalid month %q (use YYYY-MM)", calendarMonth)
		}
		first = t
	}
	first = time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)

	// On a terminal the month opens as an interactive view; piped output
	// gets the plain grid.
	if tui.IsTTY() {
		return tui.RunCalendar(env.cal, env.st.Tasks, today, first)
	}

	ui.Header(first.Format("January 2006"))
	fmt.Println(ui.Muted.Render("  Mon   Tue   Wed   Thu   Fri   Sat   Sun"))

	// Leading blanks up to the first day's weekday (Monday-first).
	offset := (int(first.Weekday()) + 6) % 7
	row := make([]string, 0, 7)
	for i := 0; i < offset; i++ {
		row = append(row, "     ")
	}

	daysInMonth := first.AddDate(0, 1, -1).Day()
	for dayNum := 1; dayNum <= daysInMonth; dayNum++ {
		d := sched.DateOf(first.AddDate(0, 0, dayNum-1))
		row = append(row, renderCalendarCell(dayNum, sched.BuildCalendarDay(d, env.cal, env.st.Tasks, today)))
		if len(row) == 7 {
			fmt.Println("  " + strings.Join(row, " "))
			row = row[:0]
		}
	}
	if len(row) > 0 {
		fmt.Println("  " + strings.Join(row, " "))
	}

	fmt.Println()
	fmt.Println(ui.Muted.Render("  ·Nh planned hours  " + ui.IconRest + " rest day"))
	fmt.Println()
	return nil
}

// renderCalendarCell formats one day as a fixed-width 5-cell: day number plus
// a planned-hours marker.
func renderCalendarCell(dayNum int, day sched.CalendarDay) string {
	cell := fmt.Sprintf("%2d", dayNum)
	switch {
	case day.UsedHours > 0:
		cell += fmt.Sprintf("·%.0f", day.UsedHours)
	case day.WorkHours == 0:
		cell += " " + ui.IconRest
	}
	cell = fmt.Sprintf("%-5s", cell)

	switch {
	case day.IsToday:
		return ui.Accent.Render(cell)
	case day.WorkHours == 0:
		return ui.Muted.Render(cell)
	case day.UsedHours > 0:
		return ui.ValueStyle.Render(cell)
	default:
		return cell
	}
}

var calendarDayCmd = &cobra.Command{
	Use:   "day [date]",
	Short: "Show one day's plan in detail",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCalendarDay,
}

func runCalendarDay(_ *cobra.Command, args []string) error {
	today := todayDate()
	d := today
	if len(args) == 1 {
		var err error
		if d, err = sched.ParseDate(args[0]); err != nil {
			return err
		}
	}

	env, err := loadScheduleEnv()
	if err != nil {
		return err
	}
	defer env.db.Close()

	day := sched.BuildCalendarDay(d, env.cal, env.st.Tasks, today)

	fmt.Println()
	printDay(day, jobTitles(env.jobs))
	if day.WorkHours > 0 {
		fmt.Printf("    %s\n", ui.Muted.Render(
			fmt.Sprintf("%.1fh budget · %.1fh planned · %.1fh free",
				day.WorkHours, day.UsedHours, day.RemainingHours)))
	}
	fmt.Println()
	return nil
}

var calendarRestCmd = &cobra.Command{
	Use:   "rest <date>...",
	Short: "Mark dates as rest days",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return setRestDays(args, true, "marked as rest "+ui.IconRest)
	},
}

var calendarWorkCmd = &cobra.Command{
	Use:   "work <date>...",
	Short: "Mark dates as working days again",
	Long:  `Remove dates from the rest-day list. Weekends stay off unless scheduler.weekend_rest is false.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return setRestDays(args, false, "back to working days")
	},
}

func setRestDays(args []string, rest bool, verb string) error {
	dates := make([]sched.Date, 0, len(args))
	for _, a := range args {
		d, err := sched.ParseDate(a)
		if err != nil {
			return err
		}
		dates = append(dates, d)
	}

	env, err := loadScheduleEnv()
	if err != nil {
		return err
	}
	defer env.db.Close()

	cal := env.cal.Clone()
	for _, d := range dates {
		cal.SetRestDay(d, rest)
	}

	env.st.Apply(env.st.Tasks, cal, time.Now())
	if err := state.Save(env.db, env.st); err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("%d date(s) %s", len(dates), verb))
	ui.Tip("`easel schedule run` to replan around the change.")
	return nil
}

var calendarHoursCmd = &cobra.Command{
	Use:   "hours <date> <hours|clear>",
	Short: "Override the working hours for one date",
	Long:  `Set a per-date hours budget, overriding the daily default. Pass "clear" to remove the override, or 0 for a zero-hour day.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runCalendarHours,
}

func runCalendarHours(_ *cobra.Command, args []string) error {
	d, err := sched.ParseDate(args[0])
	if err != nil {
		return err
	}

	hours := -1.0
	clearing := strings.EqualFold(args[1], "clear")
	if !clearing {
		hours, err = strconv.ParseFloat(args[1], 64)
		if err != nil || hours < 0 {
			return fmt.Errorf("invalid hours %q (use a non-negative number or \"clear\")", args[1])
		}
	}

	env, err := loadScheduleEnv()
	if err != nil {
		return err
	}
	defer env.db.Close()

	cal := env.cal.Clone()
	cal.SetHours(d, hours)

	env.st.Apply(env.st.Tasks, cal, time.Now())
	if err := state.Save(env.db, env.st); err != nil {
		return err
	}

	if clearing {
		ui.Ok(fmt.Sprintf("%s back to the daily default", d))
	} else {
		ui.Ok(fmt.Sprintf("%s budgeted at %sh", d, ui.Accent.Render(args[1])))
	}
	return nil
}

var calendarWeekendsCmd = &cobra.Command{
	Use:   "weekends <on|off>",
	Short: "Turn weekend rest on or off",
	Long:  `"on" keeps Saturdays and Sundays free; "off" opens them for scheduling.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCalendarWeekends,
}

func runCalendarWeekends(_ *cobra.Command, args []string) error {
	var rest bool
	switch strings.ToLower(args[0]) {
	case "on", "yes", "true":
		rest = true
	case "off", "no", "false":
		rest = false
	default:
		return fmt.Errorf("invalid value %q (use on or off)", args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Scheduler.WeekendRest = config.BoolPtr(rest)
	if err := config.Save(cfg); err != nil {
		return err
	}

	env, err := loadScheduleEnv()
	if err != nil {
		return err
	}
	defer env.db.Close()

	cal := env.cal.Clone()
	cal.WeekendRest = rest

	env.st.Apply(env.st.Tasks, cal, time.Now())
	if err := state.Save(env.db, env.st); err != nil {
		return err
	}

	if rest {
		ui.Ok("Weekends off " + ui.IconRest)
	} else {
		ui.Ok("Weekends open for work")
	}
	ui.Tip("`easel schedule run` to replan around the change.")
	return nil
}

var calendarImportCmd = &cobra.Command{
	Use:   "import <plan.yaml>",
	Short: "Apply a calendar plan file",
	Long: `Apply a YAML calendar plan: rest days, vacation ranges, and per-date hour
overrides, in one shot. Handy for blocking out convention season.`,
	Args: cobra.ExactArgs(1),
	RunE: runCalendarImport,
}

func runCalendarImport(_ *cobra.Command, args []string) error {
	plan, err := calplan.Load(args[0])
	if err != nil {
		return err
	}

	env, err := loadScheduleEnv()
	if err != nil {
		return err
	}
	defer env.db.Close()

	cal, touched := plan.Apply(env.cal)

	env.st.Apply(env.st.Tasks, cal, time.Now())
	if err := state.Save(env.db, env.st); err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("Calendar plan applied: %d date(s) touched", touched))
	ui.Tip("`easel schedule run` to replan around the new calendar.")
	return nil
}
