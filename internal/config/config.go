// Package config loads the optional keepass-rofi configuration file.
//
// The file format is JSONC (JSON with Comments), so hand-maintained
// configs may carry comments and trailing commas. Comments are
// stripped with github.com/tidwall/jsonc before parsing with the
// standard encoding/json library.
//
// File values sit at the bottom of the precedence chain: command line
// flags override environment variables, which override the file, which
// overrides built-in flag defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/rubikonx9/keepass-rofi/internal/model"
)

// File is the parsed configuration file. Field names mirror the long
// command line flags; fields not present in the file keep their zero
// value and do not override anything.
type File struct {
	// Filename is the default database path.
	Filename string `json:"filename,omitempty"`

	// KeyFile is the default key file path.
	KeyFile string `json:"keyFile,omitempty"`

	// Field is the entry field copied by default ("Password" when
	// unset).
	Field string `json:"field,omitempty"`

	// Picker is the picker command line.
	Picker string `json:"picker,omitempty"`

	// ClipboardCommand replaces the system clipboard writer with a
	// user command that receives the secret on stdin.
	ClipboardCommand string `json:"clipboardCommand,omitempty"`

	// Clear is the clipboard clear delay in seconds. Zero disables
	// clearing.
	Clear int `json:"clear,omitempty"`
}

// Validate checks the file for values no run could accept.
func (f *File) Validate() error {
	if f.Clear < 0 {
		return fmt.Errorf("clear must be zero or positive, got %d", f.Clear)
	}
	return nil
}

// Candidates returns the config file search paths in priority order:
// config.jsonc, then config.json, both under the keepass-rofi
// directory inside the user config directory (XDG_CONFIG_HOME on
// Linux).
func Candidates() ([]string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return []string{
		filepath.Join(base, "keepass-rofi", "config.jsonc"),
		filepath.Join(base, "keepass-rofi", "config.json"),
	}, nil
}

// Load reads the configuration file at path. When path is empty, the
// candidate locations are searched instead, and having no config file
// at all is fine: an explicitly named file must exist, a searched one
// need not.
func Load(path string) (*File, error) {
	if path == "" {
		found, ok := findCandidate()
		if !ok {
			return &File{}, nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitUsage,
			fmt.Sprintf("could not read config file %q", path),
			err,
		)
	}

	// Strip JSONC comments and trailing commas before parsing. Fields
	// the struct does not define are silently ignored.
	var f File
	if err := json.Unmarshal(jsonc.ToJSON(data), &f); err != nil {
		return nil, model.WrapCLIError(
			model.ExitUsage,
			fmt.Sprintf("could not parse config file %q", path),
			err,
		)
	}

	if err := f.Validate(); err != nil {
		return nil, model.WrapCLIError(
			model.ExitUsage,
			fmt.Sprintf("invalid config file %q", path),
			err,
		)
	}

	return &f, nil
}

// findCandidate returns the first existing candidate path.
func findCandidate() (string, bool) {
	candidates, err := Candidates()
	if err != nil {
		return "", false
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}
