package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/easel-app/easel/internal/ui"
	"github.com/easel-app/easel/internal/vault"
)

// vaultKeychainStore is the OS keychain backend for passphrase storage.
// Replaceable in tests via direct assignment in the cmd package.
var vaultKeychainStore vault.PassphraseStore = vault.NewPlatformStore()

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Marketplace credentials — encrypted at rest with age",
	Long:  `Store marketplace API tokens encrypted at rest. Set EASEL_VAULT_PASSPHRASE to skip the prompt.`,
	RunE:  runVaultHelp,
}

var (
	vaultSetAccount string
	vaultGetCopy    bool
	vaultImportFile string
	vaultExportFile string
)

func init() {
	vaultCmd.AddCommand(vaultSetCmd)
	vaultCmd.AddCommand(vaultGetCmd)
	vaultCmd.AddCommand(vaultListCmd)
	vaultCmd.AddCommand(vaultRmCmd)
	vaultCmd.AddCommand(vaultExportCmd)
	vaultCmd.AddCommand(vaultImportCmd)
	vaultCmd.AddCommand(vaultUnlockCmd)
	vaultCmd.AddCommand(vaultLockCmd)

	vaultSetCmd.Flags().StringVar(&vaultSetAccount, "account", "", "Account or shop name on the marketplace")
	vaultGetCmd.Flags().BoolVar(&vaultGetCopy, "copy", false, "Copy token to clipboard instead of printing")
	vaultExportCmd.Flags().StringVarP(&vaultExportFile, "output", "o", "", "Output file path (default: stdout)")
	vaultImportCmd.Flags().StringVarP(&vaultImportFile, "file", "f", "", "Input file path (default: stdin)")
}

func runVaultHelp(_ *cobra.Command, _ []string) error {
	fmt.Println()
	fmt.Println(ui.Title.Render("  "+ui.IconVault+" easel vault") + ui.Muted.Render(" — marketplace tokens, locked away"))
	fmt.Println()
	fmt.Println(ui.Muted.Render("  API tokens for the marketplaces you import from, encrypted with age."))
	fmt.Println(ui.Muted.Render("  Set EASEL_VAULT_PASSPHRASE to skip the password prompt."))
	fmt.Println()
	fmt.Println(ui.Accent.Render("  Commands:"))
	fmt.Println()
	fmt.Printf("    %s  Store or update a marketplace token\n", ui.KeyStyle.Render("set <marketplace> <token>"))
	fmt.Printf("    %s  Retrieve a token\n", ui.KeyStyle.Render("get <marketplace>"))
	fmt.Printf("    %s  List stored marketplaces\n", ui.KeyStyle.Render("list"))
	fmt.Printf("    %s  Delete a credential permanently\n", ui.KeyStyle.Render("rm <marketplace>"))
	fmt.Printf("    %s  Export encrypted vault for backup\n", ui.KeyStyle.Render("export"))
	fmt.Printf("    %s  Restore vault from a backup\n", ui.KeyStyle.Render("import <file>"))
	fmt.Printf("    %s  Save passphrase to OS keychain\n", ui.KeyStyle.Render("unlock"))
	fmt.Printf("    %s  Remove passphrase from OS keychain\n", ui.KeyStyle.Render("lock"))
	fmt.Println()
	fmt.Println(ui.Accent.Render("  Examples:"))
	fmt.Println()
	fmt.Printf("    %s\n", ui.Muted.Render("easel vault set vgen vg_tok_... --account mika-draws"))
	fmt.Printf("    %s\n", ui.Muted.Render("easel vault get vgen --copy"))
	fmt.Printf("    %s\n", ui.Muted.Render("easel vault export -o vault-backup.age"))
	fmt.Println()
	ui.Tip("run 'easel vault unlock' to store your passphrase in the OS keychain — no more prompts")
	fmt.Println()
	return nil
}

var vaultSetCmd = &cobra.Command{
	Use:   "set <marketplace> <token>",
	Short: "Store or update a marketplace token (encrypted)",
	Long:  `Encrypt and store a marketplace API token. If the marketplace already has a credential, it is overwritten.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runVaultSet,
}

func runVaultSet(_ *cobra.Command, args []string) error {
	marketplace, token := args[0], args[1]

	passphrase, err := readPassphrase(false)
	if err != nil {
		return err
	}

	v := vault.New(passphrase)
	cred := vault.Credential{
		Marketplace: marketplace,
		Account:     vaultSetAccount,
		Token:       token,
	}
	if err := v.Set(cred); err != nil {
		return formatVaultError(err)
	}

	ui.Ok(fmt.Sprintf("%s credential locked away in the vault", ui.Accent.Render(marketplace)))
	return nil
}

var vaultGetCmd = &cobra.Command{
	Use:   "get <marketplace>",
	Short: "Retrieve a marketplace token",
	Long:  `Decrypt and print a token to stdout. Use --copy to copy to clipboard.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runVaultGet,
}

func runVaultGet(_ *cobra.Command, args []string) error {
	marketplace := args[0]

	passphrase, err := readPassphrase(false)
	if err != nil {
		return err
	}

	v := vault.New(passphrase)
	cred, err := v.Get(marketplace)
	if err != nil {
		return formatVaultError(err)
	}

	if vaultGetCopy {
		if err := copyToClipboard(cred.Token); err != nil {
			return fmt.Errorf("clipboard copy failed: %v — install xclip or xsel (Linux) or use pbcopy (macOS), or drop --copy to print instead", err)
		}
		ui.Ok(fmt.Sprintf("%s token copied to clipboard", ui.Accent.Render(marketplace)))
		return nil
	}

	fmt.Println(cred.Token)
	return nil
}

var vaultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored marketplaces (tokens stay hidden)",
	Args:  cobra.NoArgs,
	RunE:  runVaultList,
}

func runVaultList(_ *cobra.Command, _ []string) error {
	passphrase, err := readPassphrase(false)
	if err != nil {
		return err
	}

	v := vault.New(passphrase)
	marketplaces, err := v.List()
	if err != nil {
		return formatVaultError(err)
	}

	fmt.Println()
	fmt.Println(ui.Title.Render("  Vault Credentials"))
	fmt.Println()

	if len(marketplaces) == 0 {
		fmt.Println(ui.Muted.Render("  No credentials stored yet."))
		fmt.Println()
		fmt.Printf("  Get started: %s\n", ui.Accent.Render("easel vault set <marketplace> <token>"))
		fmt.Println()
		return nil
	}

	for _, m := range marketplaces {
		cred, err := v.Get(m)
		if err != nil {
			return formatVaultError(err)
		}
		line := fmt.Sprintf("  %s %s", ui.IconVault, ui.KeyStyle.Render(m))
		if cred.Account != "" {
			line += ui.Muted.Render(" · " + cred.Account)
		}
		fmt.Println(line)
	}

	fmt.Println()
	fmt.Printf(ui.Muted.Render("  %d credential(s) stored in %s\n"), len(marketplaces), v.Path())
	fmt.Println()
	return nil
}

var vaultRmCmd = &cobra.Command{
	Use:   "rm <marketplace>",
	Short: "Permanently delete a credential",
	Args:  cobra.ExactArgs(1),
	RunE:  runVaultRm,
}

func runVaultRm(_ *cobra.Command, args []string) error {
	marketplace := args[0]

	passphrase, err := readPassphrase(false)
	if err != nil {
		return err
	}

	v := vault.New(passphrase)
	if err := v.Delete(marketplace); err != nil {
		return formatVaultError(err)
	}

	ui.Ok(fmt.Sprintf("%s removed from the vault", ui.Accent.Render(marketplace)))
	return nil
}

var vaultExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export an encrypted vault backup",
	Long:  `Write the encrypted vault blob to a file or stdout. The export is still encrypted — safe to store anywhere.`,
	Args:  cobra.NoArgs,
	RunE:  runVaultExport,
}

func runVaultExport(_ *cobra.Command, _ []string) error {
	passphrase, err := readPassphrase(false)
	if err != nil {
		return err
	}

	v := vault.New(passphrase)

	var w io.Writer
	if vaultExportFile != "" {
		if err := validateExportPath(vaultExportFile); err != nil {
			return err
		}
		f, err := os.Create(vaultExportFile)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	if err := v.Export(w); err != nil {
		return formatVaultError(err)
	}

	if vaultExportFile != "" {
		fmt.Fprintf(os.Stderr, "%s Vault exported to %s\n", ui.IconOk, ui.Accent.Render(vaultExportFile))
	}
	return nil
}

var vaultImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import an encrypted vault backup",
	Long: `Replace the current vault with an encrypted backup.
The import file must be a valid age-encrypted vault blob created by 'easel vault export'.
The current vault is replaced entirely (no merge). This operation requires the same passphrase used during export.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVaultImport,
}

func runVaultImport(_ *cobra.Command, args []string) error {
	passphrase, err := readPassphrase(false)
	if err != nil {
		return err
	}

	var r io.Reader
	importPath := vaultImportFile
	if len(args) > 0 {
		importPath = args[0]
	}

	if importPath != "" {
		if err := validateImportPath(importPath); err != nil {
			return err
		}
		f, err := os.Open(importPath)
		if err != nil {
			return fmt.Errorf("opening import file: %w", err)
		}
		defer f.Close()
		r = f
	} else {
		r = os.Stdin
	}

	v := vault.New(passphrase)
	if err := v.Import(r); err != nil {
		return formatVaultError(err)
	}

	ui.Ok("Vault imported — all credentials restored")
	return nil
}

// readPassphrase reads the vault passphrase using the following resolution order:
//  1. EASEL_VAULT_PASSPHRASE env var (always wins)
//  2. OS keychain (via vaultKeychainStore)
//  3. Interactive TTY prompt
func readPassphrase(confirm bool) (string, error) {
	if p := os.Getenv("EASEL_VAULT_PASSPHRASE"); p != "" {
		return p, nil
	}

	// Check OS keychain before prompting.
	if p, err := vaultKeychainStore.Get(vault.ServiceName); err != nil {
		if !vault.IsKeychainMiss(err) {
			return "", fmt.Errorf("reading passphrase from keychain: %w", err)
		}
	} else if p != "" {
		return p, nil
	}

	// Prompt interactively.
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("vault passphrase required — set %s, run %s, or run interactively",
			"EASEL_VAULT_PASSPHRASE", ui.Accent.Render("easel vault unlock"))
	}

	fmt.Fprint(os.Stderr, ui.Muted.Render("  Vault passphrase: "))
	passBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}

	passphrase := strings.TrimSpace(string(passBytes))
	if passphrase == "" {
		return "", fmt.Errorf("passphrase can't be empty — set EASEL_VAULT_PASSPHRASE or type it when prompted")
	}

	if confirm {
		fmt.Fprint(os.Stderr, ui.Muted.Render("  Confirm passphrase: "))
		confirmBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading passphrase confirmation: %w", err)
		}
		if string(passBytes) != string(confirmBytes) {
			return "", fmt.Errorf("passphrases do not match")
		}
	}

	return passphrase, nil
}

var vaultUnlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Store vault passphrase in the OS keychain",
	Long: `Prompt for the vault passphrase and store it securely in the OS keychain.
Once stored, all vault commands work without prompting or setting env vars.
Use 'easel vault lock' to remove it.`,
	Args: cobra.NoArgs,
	RunE: runVaultUnlock,
}

func runVaultUnlock(_ *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return fmt.Errorf("vault unlock requires an interactive terminal")
	}

	fmt.Fprint(os.Stderr, ui.Muted.Render("  Vault passphrase: "))
	passBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("reading passphrase: %w", err)
	}

	passphrase := strings.TrimSpace(string(passBytes))
	if passphrase == "" {
		return fmt.Errorf("passphrase can't be empty")
	}

	if err := vaultKeychainStore.Set(vault.ServiceName, passphrase); err != nil {
		if errors.Is(err, vault.ErrNotSupported) {
			return fmt.Errorf(
				"%w: keychain not available on this platform\n\nSet %s in your shell profile instead.",
				vault.ErrNotSupported,
				ui.Accent.Render("EASEL_VAULT_PASSPHRASE=<passphrase>"),
			)
		}
		return fmt.Errorf("storing passphrase in keychain: %w", err)
	}

	ui.Ok("Passphrase stored in OS keychain — vault commands will no longer prompt")
	return nil
}

var vaultLockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Remove vault passphrase from the OS keychain",
	Long:  `Remove the stored passphrase from the OS keychain. Future vault commands will prompt again.`,
	Args:  cobra.NoArgs,
	RunE:  runVaultLock,
}

func runVaultLock(_ *cobra.Command, _ []string) error {
	if err := vaultKeychainStore.Delete(vault.ServiceName); err != nil {
		if errors.Is(err, vault.ErrNotSupported) {
			return fmt.Errorf(
				"%w: keychain not available on this platform\n\nUnset %s in your shell profile instead.",
				vault.ErrNotSupported,
				ui.Accent.Render("EASEL_VAULT_PASSPHRASE"),
			)
		}
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println(ui.Muted.Render("  No passphrase stored in keychain."))
			return nil
		}
		return fmt.Errorf("removing passphrase from keychain: %w", err)
	}

	ui.Ok("Passphrase removed from OS keychain — next vault command will prompt")
	return nil
}

// formatVaultError wraps vault errors with actionable messages.
func formatVaultError(err error) error {
	if errors.Is(err, vault.ErrWrongPassphrase) {
		return fmt.Errorf("wrong passphrase — double-check EASEL_VAULT_PASSPHRASE or try again interactively")
	}
	if errors.Is(err, vault.ErrCorruptedVault) {
		return fmt.Errorf("vault appears corrupted — restore from a backup with `easel vault import <file>`")
	}
	return err
}

// copyToClipboard copies text to the system clipboard using platform tools.
func copyToClipboard(text string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "linux":
		// Try xclip first, then xsel, then wl-copy (Wayland)
		if _, err := exec.LookPath("xclip"); err == nil {
			cmd = exec.Command("xclip", "-selection", "clipboard")
		} else if _, err := exec.LookPath("xsel"); err == nil {
			cmd = exec.Command("xsel", "--clipboard", "--input")
		} else if _, err := exec.LookPath("wl-copy"); err == nil {
			cmd = exec.Command("wl-copy")
		} else {
			return fmt.Errorf("no clipboard tool found (install xclip, xsel, or wl-copy)")
		}
	case "windows":
		cmd = exec.Command("clip")
	default:
		return fmt.Errorf("clipboard not supported on %s", runtime.GOOS)
	}

	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// validateExportPath checks the export destination path is valid.
func validateExportPath(path string) error {
	clean := filepath.Clean(path)
	// Check parent directory exists.
	dir := filepath.Dir(clean)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("export directory does not exist: %s", dir)
	}
	return nil
}

// validateImportPath checks the import source path is valid and exists.
func validateImportPath(path string) error {
	clean := filepath.Clean(path)
	info, err := os.Stat(clean)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("import file not found: %s", path)
		}
		return fmt.Errorf("checking import file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("import path must be a file, not a directory: %s", path)
	}
	return nil
}
