package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/easel-app/easel/internal/config"
	"github.com/easel-app/easel/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and manage configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print configuration file path",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(config.GetPaths().ConfigFile)
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settable keys with their current values",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

func runConfigList(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ui.Header("Config keys")
	for _, name := range config.ValidKeyNames() {
		entry, _ := config.LookupKey(name)
		val := entry.Get(cfg)
		line := fmt.Sprintf("  %-28s %-10s %s",
			ui.KeyStyle.Render(name), ui.ValueStyle.Render(val), ui.Muted.Render(entry.Desc))
		fmt.Println(line)
	}
	fmt.Println()
	return nil
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  `Set a configuration value. Run 'easel config list' to see every key, its type, and its current value.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	entry, ok := config.LookupKey(key)
	if !ok {
		return fmt.Errorf("unknown config key %q (run %s to see available keys)",
			key, ui.Accent.Render("easel config list"))
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := entry.Set(cfg, value); err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	ui.Ok(fmt.Sprintf("%s = %s", key, value))
	return nil
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

func runConfigGet(_ *cobra.Command, args []string) error {
	entry, ok := config.LookupKey(args[0])
	if !ok {
		return fmt.Errorf("unknown config key %q", args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Println(entry.Get(cfg))
	return nil
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Reset a configuration value to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

func runConfigUnset(_ *cobra.Command, args []string) error {
	key := args[0]

	entry, ok := config.LookupKey(key)
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	entry.Unset(cfg)

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	ui.Ok(fmt.Sprintf("%s reset to %s", key, entry.DefaultStr))
	return nil
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	paths := config.GetPaths()

	ui.Header("Configuration")
	fmt.Println()
	ui.Kv("Name", cfg.User.Name)
	ui.Kv("Studio", cfg.User.Studio)
	ui.Kv("Daily hours", fmt.Sprintf("%g", cfg.Scheduler.DefaultHours))
	ui.Kv("Weekends", weekendLabel(cfg.Scheduler.RestsOnWeekends()))
	ui.Kv("Protect days", fmt.Sprintf("%d", cfg.Scheduler.ProtectDays))
	ui.Kv("Weights", fmt.Sprintf("due %g / status %g / pay %g / manual %g",
		cfg.Weights.DueDate, cfg.Weights.Status, cfg.Weights.Payment, cfg.Weights.Manual))
	fmt.Println()
	ui.Kv("Config", paths.ConfigFile)
	ui.Kv("Data", paths.DBFile)
	ui.Kv("Vault", paths.VaultFile)
	fmt.Println()
	ui.Tip(fmt.Sprintf("Edit directly: %s", ui.Accent.Render("$EDITOR "+paths.ConfigFile)))
	fmt.Println()

	return nil
}

func weekendLabel(rest bool) string {
	if rest {
		return "rest"
	}
	return "working"
}
