// Package cli implements the cobra-based CLI commands for keepass-rofi.
//
// The root command itself performs the main action (pick an entry, copy a
// field to the clipboard). The list and show subcommands are defined in
// their own files within this package. This file defines the root command,
// the layered settings resolution (flags over environment over config file)
// and the error-to-exit-code translation.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/ettle/strcase"
	"github.com/spf13/cobra"

	"github.com/rubikonx9/keepass-rofi/internal/config"
	"github.com/rubikonx9/keepass-rofi/internal/model"
	"github.com/rubikonx9/keepass-rofi/internal/picker"
)

// Flag names, shared between flag registration, the environment layer and
// the config file layer.
const (
	flagFilename         = "filename"
	flagPassword         = "password"
	flagKeyFile          = "keyfile"
	flagPrompt           = "prompt"
	flagAll              = "all"
	flagField            = "field"
	flagClear            = "clear"
	flagPicker           = "picker"
	flagClipboardCommand = "clipboard-command"
	flagConfig           = "config"
	flagVerbose          = "verbose"
)

// envPrefix namespaces the environment variables that override flags.
const envPrefix = "KPR_"

// verbose enables debug logging. It is bound to the persistent --verbose
// flag on the root command, which makes it available to every subcommand.
var verbose bool

// Version, Commit and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// rootFlags holds the settings shared by the root command and its
// subcommands. A single instance is bound to the persistent flags in
// NewRootCommand and passed to each subcommand constructor, so by the time
// a RunE executes the struct reflects the fully resolved settings.
type rootFlags struct {
	// filename is the path to the KeePass database file.
	filename string

	// password unlocks the database. It can also arrive via KPR_PASSWORD
	// or, interactively, via --prompt.
	password string

	// keyFile is an optional key file that unlocks the database, either
	// alone or combined with the password.
	keyFile string

	// promptPass asks for the password on the terminal instead of taking
	// it from a flag or the environment.
	promptPass bool

	// all flattens the group tree into a single menu of entries.
	all bool

	// field is the entry field to copy (e.g. "Password", "UserName").
	field string

	// clear is the delay in seconds after which the clipboard is wiped.
	// Zero disables clearing.
	clear int

	// pickerCmd is the dmenu-compatible command used to present menus.
	pickerCmd string

	// clipboardCmd overrides the system clipboard with a custom command
	// that receives the copied value on stdin.
	clipboardCmd string

	// configPath points at an explicit config file. Empty means the
	// well-known candidates under the user config directory are probed.
	configPath string
}

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		// Use is the one-line usage pattern shown in help output.
		Use:   "keepass-rofi",
		Short: "Pick a KeePass entry with rofi and copy it to the clipboard",
		Long: `keepass-rofi unlocks a KeePass (KDBX) database and walks its group tree
through a dmenu-compatible picker such as rofi. Selecting an entry copies
one of its fields (the password by default) to the clipboard.

Settings are resolved from flags, then KPR_* environment variables, then
the config file.`,

		// The root command takes no positional arguments; everything is
		// driven by flags.
		Args: cobra.NoArgs,

		// SilenceUsage keeps cobra from printing usage on every error.
		// Error output is handled in Execute.
		SilenceUsage: true,

		// SilenceErrors keeps cobra from printing errors automatically.
		SilenceErrors: true,

		// Version is displayed when the --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			setupLogging(verbose)
			file, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			return applyLayers(cmd, file)
		},

		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCopy(cmd, flags)
		},
	}

	// PersistentFlags are inherited by all subcommands. Any flag defined
	// here is automatically available in list and show without
	// re-declaration.
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.filename, flagFilename, "f", "", "Path to the KDBX database file")
	pf.StringVarP(&flags.password, flagPassword, "p", "", "Password for the database")
	pf.StringVar(&flags.keyFile, flagKeyFile, "", "Key file for the database")
	pf.BoolVar(&flags.promptPass, flagPrompt, false, "Ask for the password on the terminal")
	pf.BoolVarP(&flags.all, flagAll, "a", false, "Flatten all groups into a single entry menu")
	pf.StringVar(&flags.field, flagField, model.FieldPassword, "Entry field to copy")
	pf.IntVar(&flags.clear, flagClear, 0, "Clear the clipboard after this many seconds (0 disables)")
	pf.StringVar(&flags.pickerCmd, flagPicker, picker.DefaultCommand, "Picker command; {prompt} is replaced by the current group")
	pf.StringVar(&flags.clipboardCmd, flagClipboardCommand, "", "Clipboard command reading the value from stdin (default: system clipboard)")
	pf.StringVar(&flags.configPath, flagConfig, "", "Path to the config file")
	pf.BoolVarP(&verbose, flagVerbose, "v", false, "Enable debug logging")

	// Register subcommands. Each is defined in its own file (list.go,
	// show.go) and returns a *cobra.Command.
	rootCmd.AddCommand(NewListCommand(flags))
	rootCmd.AddCommand(NewShowCommand(flags))

	return rootCmd
}

// Execute runs the root command and translates errors into a process exit
// code. It returns the code instead of calling os.Exit so tests can drive
// the full command path.
//
// CLIError values carry their own exit codes; other errors map to the
// usage code. An explicit help request also exits with the usage code, so
// scripts can tell a help display apart from a successful copy.
func Execute(ctx context.Context, rootCmd *cobra.Command, args []string) int {
	normalized, helpRequested := NormalizeArgs(args)
	rootCmd.SetArgs(normalized)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr.Message, cliErr.Err)
			return int(cliErr.Code)
		}

		printError(err.Error(), nil)
		return int(model.ExitUsage)
	}

	if helpRequested {
		return int(model.ExitUsage)
	}
	return int(model.ExitSuccess)
}

// NormalizeArgs rewrites the legacy -? help alias into --help, which cobra
// understands natively. It also reports whether help was requested
// explicitly in any form (-?, -h, --help or the help subcommand).
// Arguments following a bare "--" separator are passed through untouched.
func NormalizeArgs(args []string) ([]string, bool) {
	normalized := make([]string, 0, len(args))
	help := false
	passthrough := false

	for _, arg := range args {
		if passthrough {
			normalized = append(normalized, arg)
			continue
		}
		switch arg {
		case "--":
			passthrough = true
		case "-?":
			normalized = append(normalized, "--help")
			help = true
			continue
		case "-h", "--help":
			help = true
		}
		normalized = append(normalized, arg)
	}

	if len(args) > 0 && args[0] == "help" {
		help = true
	}
	return normalized, help
}

// EnvVar returns the environment variable that overrides the given flag,
// e.g. "clipboard-command" becomes "KPR_CLIPBOARD_COMMAND".
func EnvVar(flag string) string {
	return envPrefix + strcase.ToSNAKE(flag)
}

// envOverridable lists the flags that may be supplied through the
// environment. The password is overridable here but deliberately absent
// from the config file layer: secrets do not belong in a file that is
// routinely committed to dotfile repos.
var envOverridable = []string{
	flagFilename,
	flagPassword,
	flagKeyFile,
	flagField,
	flagClear,
	flagPicker,
	flagClipboardCommand,
}

// applyLayers fills in flags the user did not set on the command line,
// first from KPR_* environment variables, then from the config file.
// pflag marks a flag as Changed when Set is called, so the environment
// layer automatically shadows the file layer.
func applyLayers(cmd *cobra.Command, file *config.File) error {
	for _, name := range envOverridable {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || flag.Changed {
			continue
		}
		value, ok := os.LookupEnv(EnvVar(name))
		if !ok || value == "" {
			continue
		}
		if err := cmd.Flags().Set(name, value); err != nil {
			return model.WrapCLIError(model.ExitUsage, fmt.Sprintf("invalid value in %s", EnvVar(name)), err)
		}
	}

	fileValues := []struct {
		name  string
		value string
	}{
		{flagFilename, file.Filename},
		{flagKeyFile, file.KeyFile},
		{flagField, file.Field},
		{flagPicker, file.Picker},
		{flagClipboardCommand, file.ClipboardCommand},
		{flagClear, ""},
	}
	if file.Clear > 0 {
		fileValues[len(fileValues)-1].value = strconv.Itoa(file.Clear)
	}

	for _, fv := range fileValues {
		if fv.value == "" {
			continue
		}
		flag := cmd.Flags().Lookup(fv.name)
		if flag == nil || flag.Changed {
			continue
		}
		if err := cmd.Flags().Set(fv.name, fv.value); err != nil {
			return model.WrapCLIError(model.ExitUsage, fmt.Sprintf("invalid %q in config file", fv.name), err)
		}
	}
	return nil
}

// setupLogging installs the default slog logger. Everything goes to
// stderr; stdout is reserved for command output.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// printError outputs "Error: <message>" on stderr, appending the
// underlying cause when present.
func printError(message string, underlying error) {
	if underlying != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}
