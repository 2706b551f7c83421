// Package picker runs the external menu program (rofi, dmenu, fzf, ...)
// through which the user makes selections.
//
// The protocol is the dmenu contract: menu lines are written to the
// child's stdin, one per line, and the chosen line comes back on
// stdout. A non-zero exit status or empty output means the user
// dismissed the menu; that is reported as cancellation, not as an
// error. Errors are reserved for a picker that cannot be started at
// all or whose command line cannot be parsed.
package picker

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/anmitsu/go-shlex"

	"github.com/rubikonx9/keepass-rofi/internal/model"
)

// DefaultCommand is the picker used when the user configures nothing
// else. -dmenu puts rofi into pipe mode, -i makes matching
// case-insensitive.
const DefaultCommand = "rofi -dmenu -i -p {prompt}"

// PromptToken is replaced by the menu prompt in every argument of the
// picker command. Commands without the token simply show no prompt.
const PromptToken = "{prompt}"

// CommandPicker presents menus by running a configurable external
// command per menu. It satisfies the selector.Picker interface.
type CommandPicker struct {
	// Command is the picker command line. It is split with POSIX
	// shell quoting rules, so arguments may contain spaces.
	Command string
}

// NewCommandPicker creates a CommandPicker for the given command line.
// An empty command selects DefaultCommand.
func NewCommandPicker(command string) *CommandPicker {
	if command == "" {
		command = DefaultCommand
	}
	return &CommandPicker{Command: command}
}

// Pick runs one instance of the picker command, feeding it the menu
// labels on stdin and reading the selection from stdout.
//
// The returned ok is false when the user dismissed the menu, which the
// dmenu protocol signals either by a non-zero exit status (Escape in
// rofi/dmenu) or by a successful exit with empty output.
func (p *CommandPicker) Pick(ctx context.Context, prompt string, labels []string) (string, bool, error) {
	args, err := shlex.Split(p.Command, true)
	if err != nil {
		return "", false, model.WrapCLIError(
			model.ExitPicker,
			fmt.Sprintf("invalid picker command %q", p.Command),
			err,
		)
	}
	if len(args) == 0 {
		return "", false, model.NewCLIError(model.ExitPicker, "picker command is empty")
	}

	// Substitute after splitting so a prompt containing spaces stays
	// a single argument.
	for i := range args {
		args[i] = strings.ReplaceAll(args[i], PromptToken, prompt)
	}

	// #nosec G204: the command comes from the user's own configuration
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var menu strings.Builder
	for _, label := range labels {
		menu.WriteString(label)
		menu.WriteByte('\n')
	}
	cmd.Stdin = strings.NewReader(menu.String())

	// Capture stdout and stderr separately so stderr can be included
	// in error messages while stdout carries the selection.
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The picker ran but exited non-zero: the menu was
			// dismissed without a choice.
			return "", false, nil
		}

		// The picker could not be started (missing binary, permission
		// problem). This is a genuine failure, not a cancellation.
		message := fmt.Sprintf("could not run picker %q", args[0])
		if stderrStr := strings.TrimSpace(stderr.String()); stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", false, model.WrapCLIError(model.ExitPicker, message, err)
	}

	selection := strings.TrimRight(stdout.String(), "\n")
	if selection == "" {
		return "", false, nil
	}
	return selection, true, nil
}
