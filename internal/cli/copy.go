// Package cli: copy.go implements the default action of the root command.
//
// A bare keepass-rofi invocation opens the database, presents the group
// tree through the picker until an entry is chosen and copies one of its
// fields to the clipboard. A dismissed picker ends the run successfully
// without copying anything.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rubikonx9/keepass-rofi/internal/clipboard"
	"github.com/rubikonx9/keepass-rofi/internal/kdbx"
	"github.com/rubikonx9/keepass-rofi/internal/model"
	"github.com/rubikonx9/keepass-rofi/internal/picker"
	"github.com/rubikonx9/keepass-rofi/internal/selector"
)

// runCopy is the main logic behind the bare keepass-rofi invocation.
func runCopy(cmd *cobra.Command, flags *rootFlags) error {
	ctx := cmd.Context()

	// Step 1: Validate the invocation.
	if err := requireDatabaseFlags(cmd, flags); err != nil {
		return err
	}

	// Step 2: Unlock and load the database.
	store, err := openStore(flags)
	if err != nil {
		return err
	}

	// Step 3: Let the user pick an entry.
	outcome, err := selectEntry(ctx, flags, store)
	if err != nil {
		return err
	}
	if outcome.State == selector.StateCancelled {
		// A dismissed picker is the normal way to leave the tool.
		slog.Debug("selection cancelled, nothing copied")
		return nil
	}

	// Step 4: Copy the requested field.
	field, ok := outcome.Entry.Lookup(flags.field)
	if !ok {
		return model.NewCLIError(model.ExitPicker,
			fmt.Sprintf("entry %q has no field %q", outcome.Entry.Title(), flags.field))
	}

	writer := clipboard.NewWriter(flags.clipboardCmd)
	if err := writer.Write(field.Value); err != nil {
		return err
	}
	slog.Debug("copied field to clipboard",
		"entry", outcome.Entry.Title(),
		"field", flags.field,
		"value", model.MaskSecret(field.Value))
	fmt.Fprintf(cmd.ErrOrStderr(), "Copied %s of %q to clipboard.\n", flags.field, outcome.Entry.Title())

	// Step 5: Optionally wipe the clipboard after a delay. An interrupt
	// during the countdown still wipes before the process exits.
	if err := clipboard.ClearAfter(ctx, writer, time.Duration(flags.clear)*time.Second, cmd.ErrOrStderr()); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return nil
}

// requireDatabaseFlags enforces the minimum viable invocation: a database
// path plus at least one credential source. Violations display help and
// return a usage error.
func requireDatabaseFlags(cmd *cobra.Command, flags *rootFlags) error {
	var missing []string
	if flags.filename == "" {
		missing = append(missing, "--filename")
	}
	if flags.password == "" && flags.keyFile == "" && !flags.promptPass {
		missing = append(missing, "one of --password, --prompt or --keyfile")
	}
	if len(missing) == 0 {
		return nil
	}

	_ = cmd.Help()
	return model.NewCLIError(model.ExitUsage, "missing "+strings.Join(missing, " and "))
}

// openStore resolves the password source and loads the database.
func openStore(flags *rootFlags) (*model.Store, error) {
	password := flags.password
	if flags.promptPass && password == "" {
		read, err := promptPassword(os.Stderr)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitUsage, "could not read password", err)
		}
		password = read
	}

	return kdbx.Open(kdbx.Options{
		Path:     flags.filename,
		Password: password,
		KeyFile:  flags.keyFile,
	})
}

// promptPassword asks for the password on the controlling terminal with
// echo disabled. The prompt goes to out so that stdout stays clean.
func promptPassword(out io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal")
	}

	fmt.Fprint(out, "Password: ")
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	return string(password), nil
}

// selectEntry walks the store with the configured picker command. With
// --all the group tree is flattened into a single menu of entries.
func selectEntry(ctx context.Context, flags *rootFlags, store *model.Store) (selector.Outcome, error) {
	root := store.Root
	if flags.all {
		root = model.Group{Name: root.Name, Entries: model.Flatten(root)}
	}

	sel := selector.New(picker.NewCommandPicker(flags.pickerCmd))
	return sel.Run(ctx, root)
}
