package model

import (
	"fmt"
)

// NodeKind identifies which variant a selection Node carries.
//
// The two kind values double as the wire tokens used in picker menu
// labels ("Entry: <title>", "Group: <name>"), so their exact casing is
// part of the menu protocol and must not change.
type NodeKind string

const (
	// KindEntry marks a node that carries a credential entry.
	KindEntry NodeKind = "Entry"

	// KindGroup marks a node that carries a group of the database tree.
	KindGroup NodeKind = "Group"
)

// String returns the string representation of NodeKind.
// This method satisfies the fmt.Stringer interface, enabling
// human-readable output in menu labels and logging.
func (k NodeKind) String() string {
	return string(k)
}

// IsValid checks whether the NodeKind value is one of the
// predefined valid kinds.
func (k NodeKind) IsValid() bool {
	switch k {
	case KindEntry, KindGroup:
		return true
	default:
		return false
	}
}

// ParseNodeKind converts a string to a NodeKind.
// Matching is case-sensitive because the kind tokens appear verbatim
// in menu labels. Returns an error for any other string.
func ParseNodeKind(s string) (NodeKind, error) {
	kind := NodeKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid node kind: %q (valid: Entry, Group)", s)
	}
	return kind, nil
}

// Standard KDBX string field keys. KeePass clients create these five
// fields on every entry; custom fields may follow with arbitrary keys.
const (
	FieldTitle    = "Title"
	FieldUserName = "UserName"
	FieldPassword = "Password"
	FieldURL      = "URL"
	FieldNotes    = "Notes"
)

// Field is a single key/value attribute of an entry.
type Field struct {
	// Key is the field name, e.g. "Title" or "Password".
	Key string `json:"key"`

	// Value is the field content in plain text. Protected fields hold
	// their decrypted value once the store has been unlocked.
	Value string `json:"value"`

	// Protected marks fields the database keeps encrypted in memory
	// (typically Password). Display code must mask these values.
	Protected bool `json:"protected"`
}

// Entry is a single credential record: an ordered list of fields as
// they appear in the database. Order is preserved because duplicate
// keys are legal in KDBX and lookups resolve to the first match.
type Entry struct {
	Fields []Field `json:"fields"`
}

// Lookup returns the first field with the given key.
// The boolean reports whether such a field exists.
func (e Entry) Lookup(key string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Value returns the value of the first field with the given key,
// or the empty string if the entry has no such field.
func (e Entry) Value(key string) string {
	f, _ := e.Lookup(key)
	return f.Value
}

// Title returns the entry title shown in picker menus.
func (e Entry) Title() string {
	return e.Value(FieldTitle)
}

// Username returns the entry user name.
func (e Entry) Username() string {
	return e.Value(FieldUserName)
}

// Password returns the entry password in plain text.
func (e Entry) Password() string {
	return e.Value(FieldPassword)
}

// URL returns the entry URL.
func (e Entry) URL() string {
	return e.Value(FieldURL)
}

// Group is a named node of the database tree. Subgroups and entries
// keep the order in which the database file stores them; menu rendering
// and flattening rely on that order being stable.
type Group struct {
	// Name is the group name shown in picker menus.
	Name string `json:"name"`

	// Groups holds the subgroups in file order.
	Groups []Group `json:"groups,omitempty"`

	// Entries holds the group's own entries in file order.
	Entries []Entry `json:"entries,omitempty"`
}

// Store is a fully decrypted KeePass database.
type Store struct {
	// Name is the database name from the KDBX meta section, or the
	// file name when the meta section does not carry one.
	Name string `json:"name"`

	// Root is the top-level group. KDBX places all content beneath a
	// single root group, so the whole tree hangs off this field.
	Root Group `json:"root"`
}

// Node is a tagged union over the two things a menu choice can resolve
// to. Exactly one of Entry or Group is non-nil, matching Kind; code
// switching on Kind should handle both kinds explicitly.
type Node struct {
	Kind  NodeKind
	Entry *Entry
	Group *Group
}

// MaskSecret reduces a secret to its first and last character for log
// and display output. Values of two characters or fewer are masked
// entirely, since showing both ends would reveal the whole value.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 2 {
		return "..."
	}
	return s[:1] + "..." + s[len(s)-1:]
}

// ExitCode defines standard CLI exit codes. These codes allow scripts
// and window-manager keybindings to programmatically determine the
// outcome of a command.
//
// User cancellation maps to ExitSuccess: backing out of the picker is a
// normal outcome, and only genuine failures use non-zero codes.
type ExitCode int

const (
	// ExitSuccess indicates the command completed, including the case
	// where the user cancelled selection without choosing an entry.
	ExitSuccess ExitCode = 0

	// ExitUsage indicates invalid arguments or an explicit help request.
	ExitUsage ExitCode = 1

	// ExitDatabase indicates the database file could not be read or
	// decrypted (missing file, wrong password, corrupt KDBX stream).
	ExitDatabase ExitCode = 2

	// ExitPicker indicates the picker process could not be run, or the
	// selection it returned violates the menu label protocol.
	ExitPicker ExitCode = 3

	// ExitClipboard indicates the selected secret could not be written
	// to the clipboard.
	ExitClipboard ExitCode = 4
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
// This follows Go's error wrapping convention introduced in Go 1.13.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
