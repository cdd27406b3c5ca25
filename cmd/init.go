package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/easel-app/easel/internal/config"
	"github.com/easel-app/easel/internal/store"
	"github.com/easel-app/easel/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up easel for the first time",
	Long:  `Initialize easel with your preferences. Creates config and data directories.`,
	RunE:  runInit,
}

func runInit(_ *cobra.Command, _ []string) error {
	return runInitWithReader(bufio.NewReader(os.Stdin))
}

func runInitWithReader(reader *bufio.Reader) error {
	fmt.Println(ui.Title.Render(ui.IconEasel + "Welcome to easel!"))
	fmt.Println()
	ui.Inf("Let's get you set up. This takes about 30 seconds.")
	fmt.Println()

	name := prompt(reader, "  What should I call you?", guessName())
	studio := prompt(reader, "  Your shop or studio name? (optional)", "")
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.User.Name = name
	cfg.User.Studio = studio

	// Daily hours
	hoursInput := prompt(reader, "  How many hours do you paint on a working day?", "8")
	if h, err := strconv.ParseFloat(hoursInput, 64); err == nil && h > 0 {
		cfg.Scheduler.DefaultHours = h
	} else {
		ui.Warn(fmt.Sprintf("couldn't read %q, keeping %g hours", hoursInput, cfg.Scheduler.DefaultHours))
	}

	// Weekends
	weekendInput := prompt(reader, "  Take weekends off?", "Y/n")
	switch strings.ToLower(strings.TrimSpace(weekendInput)) {
	case "n", "no":
		cfg.Scheduler.WeekendRest = config.BoolPtr(false)
	default:
		cfg.Scheduler.WeekendRest = config.BoolPtr(true)
	}
	fmt.Println()

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	// Initialize database
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	db.Close()

	paths := config.GetPaths()

	if name != "" {
		ui.Ok("All set, " + name + "!")
	} else {
		ui.Ok("All set!")
	}
	fmt.Println()
	fmt.Println(ui.Muted.Render("  Created:"))
	fmt.Printf("    Config  %s\n", ui.Muted.Render(paths.ConfigFile))
	fmt.Printf("    Data    %s\n", ui.Muted.Render(paths.DBFile))
	fmt.Println()

	fmt.Println(ui.Muted.Render("  What you've got:"))
	fmt.Println()
	printCapabilityRow("jobs", `easel jobs add "chibi icon" --client mika --due 2026-09-15`)
	printCapabilityRow("schedule", "easel schedule run")
	printCapabilityRow("calendar", "easel calendar rest 2026-09-01")
	printCapabilityRow("services", "easel services import listings.json")
	printCapabilityRow("vault", "easel vault set vgen <token>")
	fmt.Println()
	fmt.Printf("  You're ready to go. Type %s to see your dashboard.\n", ui.Accent.Render("easel"))
	fmt.Println()

	return nil
}

// printCapabilityRow prints a single row in the capability table.
func printCapabilityRow(feature, example string) {
	label := fmt.Sprintf("%-10s", feature)
	fmt.Printf("    %s %s — %s\n",
		ui.Success.Render(ui.IconOk),
		ui.KeyStyle.Render(label),
		ui.Accent.Render(example),
	)
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s %s ", question, ui.Muted.Render(fmt.Sprintf("(%s)", defaultVal)))
	} else {
		fmt.Printf("%s ", question)
	}

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}
	return input
}

func guessName() string {
	// Try git config first
	if name := gitUserName(); name != "" {
		return name
	}
	// Fall back to OS user
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return ""
}

func gitUserName() string {
	// Lightweight: parse ~/.gitconfig directly, no exec.
	home, _ := os.UserHomeDir()
	data, err := os.ReadFile(home + "/.gitconfig")
	if err != nil {
		return ""
	}

	inUser := false
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "[user]" {
			inUser = true
			continue
		}
		if strings.HasPrefix(line, "[") {
			inUser = false
			continue
		}
		if inUser && strings.HasPrefix(line, "name") {
			parts := strings.SplitN(line, "=", 2)
			if len(parts) == 2 {
				return strings.Trim(strings.TrimSpace(parts[1]), `"`)
			}
		}
	}
	return ""
}
