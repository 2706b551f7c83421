// Package model defines the domain types and value objects for the
// keepass-rofi CLI.
//
// This package contains pure data structures with no external dependencies.
// All entities (Store, Group, Entry, Field) are in-memory representations
// of an already-decrypted KeePass database; nothing here touches the
// KDBX file format itself.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
