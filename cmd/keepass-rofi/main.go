// Package main is the entry point for the keepass-rofi CLI.
//
// The binary unlocks a KeePass database, lets the user pick an entry
// through a dmenu-compatible picker and copies a field to the clipboard.
// It delegates all functionality to the internal/cli package, which
// defines cobra commands.
//
// Build-time variables (version, commit, date) are injected via ldflags
// by GoReleaser during the release process. During development, they
// default to "dev", "none", and "unknown" respectively.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	// Load KPR_* variables from a .env file before flags are resolved.
	_ "github.com/joho/godotenv/autoload"

	"github.com/rubikonx9/keepass-rofi/internal/cli"
)

// version, commit, and date are set by GoReleaser at build time via
// ldflags (see .goreleaser.yml).
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Inject build-time version info into the CLI package. This keeps
	// the build system decoupled from the CLI framework.
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	// An interrupt cancels the context instead of killing the process
	// outright, so a pending clipboard countdown can still wipe the
	// clipboard before exit.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := cli.NewRootCommand()
	code := cli.Execute(ctx, rootCmd, os.Args[1:])
	stop()
	os.Exit(code)
}
