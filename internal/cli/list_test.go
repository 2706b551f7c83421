// Package cli: list_test.go contains tests for the row collection and
// the three output formats of the list command.
package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rubikonx9/keepass-rofi/internal/model"
)

// listEntry builds a minimal entry for row collection tests.
func listEntry(title, username, url string) model.Entry {
	fields := []model.Field{
		{Key: model.FieldTitle, Value: title},
		{Key: model.FieldUserName, Value: username},
	}
	if url != "" {
		fields = append(fields, model.Field{Key: model.FieldURL, Value: url})
	}
	return model.Entry{Fields: fields}
}

// TestCollectRows verifies the tree-to-row flattening: one row per
// entry, with the group path joined by slashes, in database order.
func TestCollectRows(t *testing.T) {
	store := &model.Store{
		Name: "Vault",
		Root: model.Group{
			Name:    "Root",
			Entries: []model.Entry{listEntry("Loose", "carol", "")},
			Groups: []model.Group{
				{
					Name: "Work",
					Entries: []model.Entry{
						listEntry("Email", "alice", "https://mail.example.com"),
					},
					Groups: []model.Group{
						{Name: "Servers", Entries: []model.Entry{listEntry("DB", "admin", "")}},
					},
				},
			},
		},
	}

	rows := collectRows(store)

	assert.Equal(t, []listRow{
		{Path: "Root", Title: "Loose", Username: "carol"},
		{Path: "Root/Work", Title: "Email", Username: "alice", URL: "https://mail.example.com"},
		{Path: "Root/Work/Servers", Title: "DB", Username: "admin"},
	}, rows)
}

// TestCollectRows_EmptyStore verifies that a database without entries
// yields an empty, non-nil slice so JSON renders [] instead of null.
func TestCollectRows_EmptyStore(t *testing.T) {
	store := &model.Store{Root: model.Group{Name: "Root"}}

	rows := collectRows(store)

	assert.NotNil(t, rows)
	assert.Len(t, rows, 0)
}

// TestListCommand_TextOutput runs the list command end to end and
// checks the table rendering. Secrets must not appear anywhere.
func TestListCommand_TextOutput(t *testing.T) {
	isolateEnv(t)
	vault := writeVaultFile(t)

	code, stdout, _ := runCLI(t, "list", "-f", vault, "-p", vaultPassword)

	require.Equal(t, int(model.ExitSuccess), code)
	assert.Contains(t, stdout, "PATH")
	assert.Contains(t, stdout, "Root/Work")
	assert.Contains(t, stdout, "Email")
	assert.Contains(t, stdout, "alice")
	assert.Contains(t, stdout, "https://mail.example.com")
	assert.NotContains(t, stdout, "topsecret")
	assert.NotContains(t, stdout, "abc123")
}

// TestListCommand_JSONOutput checks the JSON rendering against the
// known fixture tree.
func TestListCommand_JSONOutput(t *testing.T) {
	isolateEnv(t)
	vault := writeVaultFile(t)

	code, stdout, _ := runCLI(t, "list", "-f", vault, "-p", vaultPassword, "-o", "json")

	require.Equal(t, int(model.ExitSuccess), code)

	var result listResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	require.Len(t, result.Entries, 4)
	assert.Equal(t, listRow{Path: "Root", Title: "Loose", Username: "carol"}, result.Entries[0])
	assert.Equal(t, "https://mail.example.com", result.Entries[1].URL)
	assert.NotContains(t, stdout, "topsecret")
}

// TestListCommand_YAMLOutput checks the YAML rendering against the
// known fixture tree.
func TestListCommand_YAMLOutput(t *testing.T) {
	isolateEnv(t)
	vault := writeVaultFile(t)

	code, stdout, _ := runCLI(t, "list", "-f", vault, "-p", vaultPassword, "-o", "yaml")

	require.Equal(t, int(model.ExitSuccess), code)

	var result listResult
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &result))
	require.Len(t, result.Entries, 4)
	assert.Equal(t, listRow{Path: "Root/Personal", Title: "Bank", Username: "bob"}, result.Entries[3])
	assert.NotContains(t, stdout, "99problems")
}

// TestListCommand_InvalidFormat verifies that an unknown output format
// is a usage error.
func TestListCommand_InvalidFormat(t *testing.T) {
	isolateEnv(t)
	vault := writeVaultFile(t)

	code, _, _ := runCLI(t, "list", "-f", vault, "-p", vaultPassword, "-o", "xml")

	assert.Equal(t, int(model.ExitUsage), code)
}

// TestListCommand_RequiresDatabase verifies that list enforces the same
// minimum invocation as the root command.
func TestListCommand_RequiresDatabase(t *testing.T) {
	isolateEnv(t)

	code, stdout, _ := runCLI(t, "list")

	assert.Equal(t, int(model.ExitUsage), code)
	assert.Contains(t, stdout, "Usage:")
}
