// Package clipboard writes secrets to the system clipboard.
//
// The default writer tries the cross-platform clipboard bindings first
// and falls back to the wl-copy and xclip command line tools, covering
// Wayland and X11 sessions the bindings cannot reach. A user-configured
// command overrides both. In every case the secret travels to helper
// processes via stdin, never via the argument list, where other users
// could read it from /proc.
package clipboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/anmitsu/go-shlex"
	"github.com/atotto/clipboard"

	"github.com/rubikonx9/keepass-rofi/internal/model"
)

// Writer puts text on the system clipboard. Implementations must
// accept the empty string, which is how the clipboard is cleared.
type Writer interface {
	Write(text string) error
}

// NewWriter returns the writer for the given configuration: a
// CommandWriter when command is non-empty, the system writer otherwise.
func NewWriter(command string) Writer {
	if command != "" {
		return &CommandWriter{Command: command}
	}
	return systemWriter{}
}

// systemWriter writes through the clipboard bindings, with command
// line fallbacks for Wayland and X11.
type systemWriter struct{}

func (systemWriter) Write(text string) error {
	if err := clipboard.WriteAll(text); err == nil {
		return nil
	}

	if runtime.GOOS == "linux" {
		if err := runWithStdin(text, "wl-copy"); err == nil {
			return nil
		}
		if err := runWithStdin(text, "xclip", "-selection", "clipboard"); err == nil {
			return nil
		}
	}

	return model.NewCLIError(
		model.ExitClipboard,
		"no usable clipboard found (tried clipboard bindings, wl-copy, xclip)",
	)
}

// CommandWriter pipes text to a user-configured command such as
// "xsel -ib" or "wl-copy --trim-newline".
type CommandWriter struct {
	// Command is the clipboard command line, split with POSIX shell
	// quoting rules.
	Command string
}

// Write runs the configured command once with text on its stdin.
func (w *CommandWriter) Write(text string) error {
	args, err := shlex.Split(w.Command, true)
	if err != nil {
		return model.WrapCLIError(
			model.ExitClipboard,
			fmt.Sprintf("invalid clipboard command %q", w.Command),
			err,
		)
	}
	if len(args) == 0 {
		return model.NewCLIError(model.ExitClipboard, "clipboard command is empty")
	}

	if err := runWithStdin(text, args[0], args[1:]...); err != nil {
		return model.WrapCLIError(
			model.ExitClipboard,
			fmt.Sprintf("clipboard command %q failed", args[0]),
			err,
		)
	}
	return nil
}

func runWithStdin(text string, name string, args ...string) error {
	// #nosec G204: commands are fixed fallbacks or come from the
	// user's own configuration
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// ClearAfter waits for the given duration, then clears the clipboard
// through w. The countdown is announced on out so the user knows the
// process is intentionally lingering. A non-positive duration returns
// immediately.
//
// Cancelling the context ends the wait early; the clipboard is still
// cleared before returning, so an interrupted countdown does not leave
// the secret behind.
func ClearAfter(ctx context.Context, w Writer, d time.Duration, out io.Writer) error {
	if d <= 0 {
		return nil
	}

	fmt.Fprintf(out, "Clearing clipboard in %v\n", d)

	timer := time.NewTimer(d)
	defer timer.Stop()

	var cause error
	select {
	case <-timer.C:
	case <-ctx.Done():
		cause = ctx.Err()
	}

	if err := w.Write(""); err != nil {
		return model.WrapCLIError(model.ExitClipboard, "failed to clear clipboard", err)
	}
	slog.Debug("clipboard cleared")
	return cause
}
