package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/easel-app/easel/internal/catalog"
	"github.com/easel-app/easel/internal/config"
	"github.com/easel-app/easel/internal/state"
	"github.com/easel-app/easel/internal/store"
	"github.com/easel-app/easel/internal/ui"
)

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "Manage your service catalog",
	Long:  `Your marketplace listings: the services commissions link to, with per-service hour estimates and priorities.`,
	RunE:  runServicesList,
}

var servicesPriorityCategory string

func init() {
	servicesCmd.AddCommand(servicesListCmd)
	servicesCmd.AddCommand(servicesImportCmd)
	servicesCmd.AddCommand(servicesHoursCmd)
	servicesCmd.AddCommand(servicesPriorityCmd)

	servicesPriorityCmd.Flags().StringVar(&servicesPriorityCategory, "category", "", "Set the priority for a whole category instead of one service")
}

var servicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog services",
	Args:  cobra.NoArgs,
	RunE:  runServicesList,
}

func runServicesList(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	services, err := catalog.NewStore(db.Conn()).List()
	if err != nil {
		return fmt.Errorf("listing services: %w", err)
	}

	wh, err := workHoursFor(cfg, db)
	if err != nil {
		return err
	}
	pc, err := priorityFor(cfg, db)
	if err != nil {
		return err
	}

	ui.Header("Services")
	if len(services) == 0 {
		fmt.Println(ui.Muted.Render("  No services yet."))
		fmt.Println()
		fmt.Printf("  Import your listings: %s\n", ui.Accent.Render("easel services import listings.json"))
		fmt.Println()
		return nil
	}

	for _, s := range services {
		open := ui.Muted.Render("closed")
		if s.Open {
			open = ui.Success.Render("open")
		}
		line := fmt.Sprintf("  %s %s %s",
			ui.Muted.Render(shortID(s.ID)), ui.ValueStyle.Render(s.Name), open)
		if s.Category != "" {
			line += ui.Muted.Render(" · " + s.Category)
		}
		if s.Price > 0 {
			cur := s.Currency
			if cur == "" {
				cur = "$"
			}
			line += " " + ui.Subtitle.Render(fmt.Sprintf("%s%.0f", cur, s.Price))
		}
		if h, ok := wh.ServiceOverrides[s.ID]; ok {
			line += ui.Muted.Render(fmt.Sprintf(" · %gh", h))
		}
		if p, ok := pc.ServicePriorities[s.ID]; ok {
			line += ui.Muted.Render(fmt.Sprintf(" · prio %d", p))
		}
		fmt.Println(line)
	}
	fmt.Println()
	return nil
}

var servicesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import services from a marketplace listings export",
	Args:  cobra.ExactArgs(1),
	RunE:  runServicesImport,
}

func runServicesImport(_ *cobra.Command, args []string) error {
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	n, err := catalog.NewStore(db.Conn()).ImportFile(args[0])
	if err != nil {
		return fmt.Errorf("importing services: %w", err)
	}

	ui.Ok(fmt.Sprintf("%d service(s) imported", n))
	return nil
}

var servicesHoursCmd = &cobra.Command{
	Use:   "hours <service-id> <hours|clear>",
	Short: "Set the default work-hour estimate for a service",
	Long:  `Commissions of this service without an explicit estimate use this many hours. Pass "clear" to fall back to the global default.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runServicesHours,
}

func runServicesHours(_ *cobra.Command, args []string) error {
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	svc, err := resolveService(db, args[0])
	if err != nil {
		return err
	}

	wh, err := state.LoadWorkHours(db)
	if err != nil {
		return err
	}

	if args[1] == "clear" {
		delete(wh.ServiceOverrides, svc.ID)
		if err := state.SaveWorkHours(db, wh); err != nil {
			return err
		}
		ui.Ok(fmt.Sprintf("%s back to the global default", svc.Name))
		return nil
	}

	hours, err := strconv.ParseFloat(args[1], 64)
	if err != nil || hours <= 0 {
		return fmt.Errorf("invalid hours %q (use a positive number or \"clear\")", args[1])
	}
	wh.ServiceOverrides[svc.ID] = hours
	if err := state.SaveWorkHours(db, wh); err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("%s estimated at %sh per commission", svc.Name, ui.Accent.Render(args[1])))
	return nil
}

var servicesPriorityCmd = &cobra.Command{
	Use:   "priority <service-id> <1-10>",
	Short: "Rank a service (or category) for manual priority",
	Long: `Set the manual priority for one service, or a whole category with --category.
A service's own entry beats its category's. Higher means scheduled sooner.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runServicesPriority,
}

func runServicesPriority(_ *cobra.Command, args []string) error {
	// With --category the single positional arg is the rank.
	rankArg := args[len(args)-1]
	rank, err := strconv.Atoi(rankArg)
	if err != nil || rank < 1 || rank > 10 {
		return fmt.Errorf("invalid priority %q (use 1-10)", rankArg)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	pc, err := priorityFor(cfg, db)
	if err != nil {
		return err
	}

	if servicesPriorityCategory != "" {
		pc.CategoryPriorities[servicesPriorityCategory] = rank
		if err := state.SavePriorityMaps(db, pc); err != nil {
			return err
		}
		ui.Ok(fmt.Sprintf("category %s ranked %d", ui.Accent.Render(servicesPriorityCategory), rank))
		return nil
	}

	if len(args) != 2 {
		return fmt.Errorf("usage: easel services priority <service-id> <1-10>")
	}
	svc, err := resolveService(db, args[0])
	if err != nil {
		return err
	}

	pc.ServicePriorities[svc.ID] = rank
	if err := state.SavePriorityMaps(db, pc); err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("%s ranked %d", svc.Name, rank))
	return nil
}

// resolveService finds a service by exact ID or unique prefix.
func resolveService(db *store.DB, idOrPrefix string) (*catalog.Service, error) {
	cs := catalog.NewStore(db.Conn())
	if svc, err := cs.Get(idOrPrefix); err == nil {
		return svc, nil
	}

	services, err := cs.List()
	if err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}

	var matches []catalog.Service
	for _, s := range services {
		if strings.HasPrefix(s.ID, idOrPrefix) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 1:
		m := matches[0]
		return &m, nil
	case 0:
		return nil, fmt.Errorf("no service matches %q", idOrPrefix)
	default:
		return nil, fmt.Errorf("%q is ambiguous: %d services match", idOrPrefix, len(matches))
	}
}
