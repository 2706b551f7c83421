// Package cli: show.go implements the "keepass-rofi show" command.
//
// The show command runs the same interactive selection as the root
// command but prints the chosen entry's fields to stdout instead of
// touching the clipboard. Protected fields are masked unless --reveal
// is given.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rubikonx9/keepass-rofi/internal/model"
	"github.com/rubikonx9/keepass-rofi/internal/selector"
)

// showFlags holds the flag values for the show command.
type showFlags struct {
	// reveal prints protected fields verbatim instead of masked.
	reveal bool
}

// NewShowCommand creates the "show" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewShowCommand(root *rootFlags) *cobra.Command {
	flags := &showFlags{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Pick an entry and print its fields",
		Long: `Pick an entry through the picker and print its fields to stdout.

Protected fields such as passwords are masked; pass --reveal to print
them verbatim.

Examples:
  keepass-rofi show -f vault.kdbx -p secret
  keepass-rofi show -f vault.kdbx -p secret --reveal`,

		// No positional arguments are accepted.
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmd, root, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.reveal, "reveal", false, "Print protected fields verbatim")

	return cmd
}

// runShow is the main logic function for the show command.
func runShow(cmd *cobra.Command, root *rootFlags, flags *showFlags) error {
	// Step 1: Validate the invocation.
	if err := requireDatabaseFlags(cmd, root); err != nil {
		return err
	}

	// Step 2: Unlock and load the database.
	store, err := openStore(root)
	if err != nil {
		return err
	}

	// Step 3: Let the user pick an entry.
	outcome, err := selectEntry(cmd.Context(), root, store)
	if err != nil {
		return err
	}
	if outcome.State == selector.StateCancelled {
		return nil
	}

	// Step 4: Print the fields in database order.
	printEntry(cmd.OutOrStdout(), *outcome.Entry, flags.reveal)
	return nil
}

// printEntry writes one "Key: Value" line per field. Protected values
// are masked unless reveal is set.
func printEntry(w io.Writer, entry model.Entry, reveal bool) {
	for _, field := range entry.Fields {
		value := field.Value
		if field.Protected && !reveal {
			value = model.MaskSecret(value)
		}
		fmt.Fprintf(w, "%s: %s\n", field.Key, value)
	}
}
