// Package cli: list.go implements the "keepass-rofi list" command.
//
// The list command prints every entry of the database together with its
// group path, without going through the picker. It is the non-interactive
// companion to the root command and is meant for shell pipelines; secrets
// are never part of the output.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rubikonx9/keepass-rofi/internal/model"
)

// Output format values accepted by the --output flag.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// listFlags holds the flag values for the list command.
// These are bound to cobra flags in NewListCommand.
type listFlags struct {
	// output selects the rendering: "text" (default), "json" or "yaml".
	output string
}

// NewListCommand creates the "list" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewListCommand(root *rootFlags) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all entries in the database",
		Long: `List every entry in the database with its group path, title,
username and URL. Protected fields such as passwords are never printed.

Examples:
  keepass-rofi list -f vault.kdbx -p secret
  keepass-rofi list -f vault.kdbx -p secret -o json`,

		// No positional arguments are accepted.
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, root, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", outputText,
		"Output format: text, json, yaml")

	return cmd
}

// runList is the main logic function for the list command.
// It opens the database, flattens the tree into rows and renders them in
// the requested format.
func runList(cmd *cobra.Command, root *rootFlags, flags *listFlags) error {
	// Step 1: Validate the invocation.
	switch flags.output {
	case outputText, outputJSON, outputYAML:
	default:
		return model.NewCLIError(model.ExitUsage,
			fmt.Sprintf("invalid output format %q: valid values are text, json, yaml", flags.output))
	}
	if err := requireDatabaseFlags(cmd, root); err != nil {
		return err
	}

	// Step 2: Unlock and load the database.
	store, err := openStore(root)
	if err != nil {
		return err
	}

	// Step 3: Flatten the tree into one row per entry. Rows keep the
	// database order, which is already deterministic.
	rows := collectRows(store)

	// Step 4: Render in the requested format.
	out := cmd.OutOrStdout()
	switch flags.output {
	case outputJSON:
		return printEntriesJSON(out, rows)
	case outputYAML:
		return printEntriesYAML(out, rows)
	default:
		printEntriesText(out, rows)
		return nil
	}
}

// listRow is the output structure for a single entry in the list command.
// The same struct serves the JSON and YAML renderings.
type listRow struct {
	Path     string `json:"path" yaml:"path"`
	Title    string `json:"title" yaml:"title"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
}

// listResult is the top-level output structure wrapping all rows.
type listResult struct {
	Entries []listRow `json:"entries" yaml:"entries"`
}

// collectRows walks the group tree and builds one row per entry. The path
// column joins the group names from the root down with "/".
func collectRows(store *model.Store) []listRow {
	// Use an empty slice instead of nil so JSON output shows [] instead
	// of null when the database has no entries.
	rows := make([]listRow, 0)
	model.WalkEntries(store.Root, func(path []string, entry model.Entry) {
		rows = append(rows, listRow{
			Path:     strings.Join(path, "/"),
			Title:    entry.Title(),
			Username: entry.Username(),
			URL:      entry.URL(),
		})
	})
	return rows
}

// printEntriesJSON renders the rows as indented JSON under a top-level
// "entries" key.
func printEntriesJSON(w io.Writer, rows []listRow) error {
	data, err := json.MarshalIndent(listResult{Entries: rows}, "", "  ")
	if err != nil {
		return model.WrapCLIError(model.ExitUsage, "could not render entries as JSON", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// printEntriesYAML renders the rows as a YAML document under a top-level
// "entries" key.
func printEntriesYAML(w io.Writer, rows []listRow) error {
	data, err := yaml.Marshal(listResult{Entries: rows})
	if err != nil {
		return model.WrapCLIError(model.ExitUsage, "could not render entries as YAML", err)
	}
	_, _ = w.Write(data)
	return nil
}

// printEntriesText renders the rows as a human-readable table with
// aligned columns.
//
// The table format is:
//
//	PATH                 TITLE                USERNAME             URL
//	Root/Work            Email                alice                https://mail.example.com
//	Root/Personal        Bank                 bob                  -
func printEntriesText(w io.Writer, rows []listRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return
	}

	fmt.Fprintf(w, "%-24s %-24s %-20s %s\n", "PATH", "TITLE", "USERNAME", "URL")
	for _, row := range rows {
		fmt.Fprintf(w, "%-24s %-24s %-20s %s\n",
			row.Path,
			row.Title,
			dashIfEmpty(row.Username),
			dashIfEmpty(row.URL),
		)
	}
}

// dashIfEmpty substitutes "-" for empty cells so the table stays legible.
func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
