package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/easel-app/easel/internal/job"
	"github.com/easel-app/easel/internal/sched"
	"github.com/easel-app/easel/internal/store"
	"github.com/easel-app/easel/internal/tui"
	"github.com/easel-app/easel/internal/ui"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage your commission queue",
	Long:  `Track commissions: add, import from marketplace exports, update status and payment. Running bare opens the interactive browser.`,
	RunE:  runJobsBrowse,
}

var (
	jobsListAll bool

	jobsAddClient  string
	jobsAddDue     string
	jobsAddCost    float64
	jobsAddHours   float64
	jobsAddService string
	jobsAddStatus  string
	jobsAddPay     string
)

func init() {
	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsAddCmd)
	jobsCmd.AddCommand(jobsSetCmd)
	jobsCmd.AddCommand(jobsDoneCmd)
	jobsCmd.AddCommand(jobsPayCmd)
	jobsCmd.AddCommand(jobsHoursCmd)
	jobsCmd.AddCommand(jobsRmCmd)
	jobsCmd.AddCommand(jobsImportCmd)

	jobsListCmd.Flags().BoolVarP(&jobsListAll, "all", "a", false, "Include completed, cancelled, and rejected jobs")

	jobsAddCmd.Flags().StringVar(&jobsAddClient, "client", "", "Client name")
	jobsAddCmd.Flags().StringVar(&jobsAddDue, "due", "", "Due date (YYYY-MM-DD)")
	jobsAddCmd.Flags().Float64Var(&jobsAddCost, "cost", 0, "Total price of the commission")
	jobsAddCmd.Flags().Float64Var(&jobsAddHours, "hours", 0, "Estimated work hours")
	jobsAddCmd.Flags().StringVar(&jobsAddService, "service", "", "Service catalog ID")
	jobsAddCmd.Flags().StringVar(&jobsAddStatus, "status", "pending", "Initial status")
	jobsAddCmd.Flags().StringVar(&jobsAddPay, "pay", "unpaid", "Payment status")
}

// runJobsBrowse opens the interactive browser on a TTY, or falls back to the
// plain list.
func runJobsBrowse(cmd *cobra.Command, args []string) error {
	if !tui.IsTTY() {
		return runJobsList(cmd, args)
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	js := job.NewStore(db.Conn())
	jobs, err := js.List(job.ListOptions{IncludeClosed: jobsListAll})
	if err != nil {
		return fmt.Errorf("listing jobs: %w", err)
	}

	actions, err := tui.RunJobs(jobs, string(todayDate()))
	if err != nil {
		return err
	}

	for _, a := range actions {
		switch a.Type {
		case "status":
			if err := js.SetStatus(a.ID, a.Status); err != nil {
				return fmt.Errorf("updating %s: %w", a.ID, err)
			}
		case "delete":
			if err := js.Delete(a.ID); err != nil {
				return fmt.Errorf("deleting %s: %w", a.ID, err)
			}
		}
	}
	if len(actions) > 0 {
		ui.Ok(fmt.Sprintf("%d change(s) applied", len(actions)))
		ui.Tip("`easel schedule run` to fold the changes into the calendar.")
	}
	return nil
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List commissions",
	Args:  cobra.NoArgs,
	RunE:  runJobsList,
}

func runJobsList(_ *cobra.Command, _ []string) error {
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	js := job.NewStore(db.Conn())
	jobs, err := js.List(job.ListOptions{IncludeClosed: jobsListAll})
	if err != nil {
		return fmt.Errorf("listing jobs: %w", err)
	}

	ui.Header("Commissions")
	if len(jobs) == 0 {
		fmt.Println(ui.Muted.Render("  Nothing in the queue."))
		fmt.Println()
		fmt.Printf("  Get started: %s\n", ui.Accent.Render("easel jobs add \"chibi icon\" --client mika"))
		fmt.Println()
		return nil
	}

	today := string(todayDate())
	for _, j := range jobs {
		line := fmt.Sprintf("  %s %s %s %s",
			ui.Muted.Render(shortID(j.ID)),
			job.FormatStatusTag(j.Status),
			job.FormatPaymentTag(j.PaymentStatus),
			j.Title,
		)
		if j.Client != "" {
			line += ui.Muted.Render(" · " + j.Client)
		}
		line += " " + job.FormatDue(j.DueDate, today)
		if j.TotalCost > 0 {
			line += " " + job.FormatCost(j.TotalCost, "")
		}
		fmt.Println(line)
	}
	fmt.Println()
	return nil
}

var jobsAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a commission to the queue",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsAdd,
}

func runJobsAdd(_ *cobra.Command, args []string) error {
	title := strings.TrimSpace(args[0])
	if title == "" {
		return fmt.Errorf("commission title can't be empty")
	}

	status, err := job.ParseStatus(jobsAddStatus)
	if err != nil {
		return err
	}
	pay, err := job.ParsePaymentStatus(jobsAddPay)
	if err != nil {
		return err
	}
	if jobsAddDue != "" {
		if _, err := sched.ParseDate(jobsAddDue); err != nil {
			return fmt.Errorf("invalid due date: %w", err)
		}
	}
	if jobsAddHours < 0 {
		return fmt.Errorf("estimated hours can't be negative")
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	j := job.Job{
		ID:             uuid.NewString(),
		Title:          title,
		Client:         jobsAddClient,
		Status:         status,
		PaymentStatus:  pay,
		DueDate:        jobsAddDue,
		TotalCost:      jobsAddCost,
		EstimatedHours: jobsAddHours,
		ServiceID:      jobsAddService,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := job.NewStore(db.Conn()).Add(j); err != nil {
		return fmt.Errorf("adding job: %w", err)
	}

	ui.Ok(fmt.Sprintf("%s queued as %s", title, ui.Accent.Render(shortID(j.ID))))
	return nil
}

var jobsSetCmd = &cobra.Command{
	Use:   "set <id> <status>",
	Short: "Update a commission's workflow status",
	Long:  `Set the workflow status: draft, pending (ready), in_progress (wip), completed (done), cancelled, rejected.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runJobsSet,
}

func runJobsSet(_ *cobra.Command, args []string) error {
	status, err := job.ParseStatus(args[1])
	if err != nil {
		return err
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	js := job.NewStore(db.Conn())
	j, err := resolveJob(js, args[0])
	if err != nil {
		return err
	}

	if err := js.SetStatus(j.ID, status); err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	ui.Ok(fmt.Sprintf("%s is now %s", j.Title, ui.Accent.Render(job.StatusLabel(status))))
	return nil
}

var jobsDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a commission completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJobsSet(cmd, []string{args[0], "completed"})
	},
}

var jobsPayCmd = &cobra.Command{
	Use:   "pay <id> <payment>",
	Short: "Update a commission's payment status",
	Long:  `Set the payment status: unpaid, partial (deposit), paid (full).`,
	Args:  cobra.ExactArgs(2),
	RunE:  runJobsPay,
}

func runJobsPay(_ *cobra.Command, args []string) error {
	pay, err := job.ParsePaymentStatus(args[1])
	if err != nil {
		return err
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	js := job.NewStore(db.Conn())
	j, err := resolveJob(js, args[0])
	if err != nil {
		return err
	}

	if err := js.SetPaymentStatus(j.ID, pay); err != nil {
		return fmt.Errorf("updating payment: %w", err)
	}

	ui.Ok(fmt.Sprintf("%s marked %s", j.Title, ui.Accent.Render(job.PaymentLabel(pay))))
	return nil
}

var jobsHoursCmd = &cobra.Command{
	Use:   "hours <id> <hours>",
	Short: "Set a commission's explicit work-hour estimate",
	Long:  `Set the explicit hour estimate for one commission. Pass 0 to clear it and fall back to service overrides and the global default.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runJobsHours,
}

func runJobsHours(_ *cobra.Command, args []string) error {
	hours, err := strconv.ParseFloat(args[1], 64)
	if err != nil || hours < 0 {
		return fmt.Errorf("invalid hours %q (use a non-negative number)", args[1])
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	js := job.NewStore(db.Conn())
	j, err := resolveJob(js, args[0])
	if err != nil {
		return err
	}

	if err := js.SetEstimatedHours(j.ID, hours); err != nil {
		return fmt.Errorf("updating hours: %w", err)
	}

	if hours == 0 {
		ui.Ok(fmt.Sprintf("%s estimate cleared", j.Title))
	} else {
		ui.Ok(fmt.Sprintf("%s estimated at %sh", j.Title, ui.Accent.Render(strconv.FormatFloat(hours, 'g', -1, 64))))
	}
	return nil
}

var jobsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a commission",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsRm,
}

func runJobsRm(_ *cobra.Command, args []string) error {
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	js := job.NewStore(db.Conn())
	j, err := resolveJob(js, args[0])
	if err != nil {
		return err
	}

	if err := js.Delete(j.ID); err != nil {
		return fmt.Errorf("removing job: %w", err)
	}

	ui.Ok(fmt.Sprintf("%s removed", j.Title))
	return nil
}

var jobsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import commissions from a marketplace export",
	Long:  `Read a marketplace commission export (JSON) and upsert every commission. Re-importing refreshes existing entries in place.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsImport,
}

func runJobsImport(_ *cobra.Command, args []string) error {
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	n, err := job.NewStore(db.Conn()).ImportFile(args[0])
	if err != nil {
		return fmt.Errorf("importing commissions: %w", err)
	}

	ui.Ok(fmt.Sprintf("%d commission(s) imported", n))
	ui.Tip("`easel schedule run` to plan the new work.")
	return nil
}

// resolveJob finds a job by exact ID or unique prefix, so users can type the
// short ID shown in listings.
func resolveJob(js *job.Store, idOrPrefix string) (*job.Job, error) {
	if j, err := js.Get(idOrPrefix); err == nil {
		return j, nil
	}

	jobs, err := js.List(job.ListOptions{IncludeClosed: true})
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}

	var matches []job.Job
	for _, j := range jobs {
		if strings.HasPrefix(j.ID, idOrPrefix) {
			matches = append(matches, j)
		}
	}
	switch len(matches) {
	case 1:
		m := matches[0]
		return &m, nil
	case 0:
		return nil, fmt.Errorf("no commission matches %q", idOrPrefix)
	default:
		return nil, fmt.Errorf("%q is ambiguous: %d commissions match", idOrPrefix, len(matches))
	}
}

// shortID truncates a UUID for display; full IDs still work everywhere.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
