// Package cli: helpers_test.go contains shared fixtures for the CLI
// tests. The tests drive Execute the same way main does, against a real
// KDBX file on disk and real picker and clipboard processes, so they
// exercise the full stack below the command layer as well.
package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tobischo/gokeepasslib/v3"
	"github.com/tobischo/gokeepasslib/v3/wrappers"
)

// vaultPassword unlocks every database written by writeVaultFile.
const vaultPassword = "master-pw"

func vaultValue(key, value string) gokeepasslib.ValueData {
	return gokeepasslib.ValueData{Key: key, Value: gokeepasslib.V{Content: value}}
}

func vaultProtected(key, value string) gokeepasslib.ValueData {
	return gokeepasslib.ValueData{
		Key:   key,
		Value: gokeepasslib.V{Content: value, Protected: wrappers.NewBoolWrapper(true)},
	}
}

func vaultEntry(title, username, password string, extra ...gokeepasslib.ValueData) gokeepasslib.Entry {
	entry := gokeepasslib.NewEntry()
	entry.Values = append(entry.Values,
		vaultValue("Title", title),
		vaultValue("UserName", username),
		vaultProtected("Password", password),
	)
	entry.Values = append(entry.Values, extra...)
	return entry
}

// writeVaultFile encodes a known tree into a KDBX file inside a test
// temp directory and returns its path:
//
//	Root
//	├── Loose          (carol / topsecret)
//	├── Work
//	│   ├── Email      (alice / abc123, with URL)
//	│   └── VPN        (alice / hunter2)
//	└── Personal
//	    └── Bank       (bob / 99problems)
func writeVaultFile(t *testing.T) string {
	t.Helper()

	work := gokeepasslib.NewGroup()
	work.Name = "Work"
	work.Entries = append(work.Entries,
		vaultEntry("Email", "alice", "abc123", vaultValue("URL", "https://mail.example.com")),
		vaultEntry("VPN", "alice", "hunter2"),
	)

	personal := gokeepasslib.NewGroup()
	personal.Name = "Personal"
	personal.Entries = append(personal.Entries, vaultEntry("Bank", "bob", "99problems"))

	root := gokeepasslib.NewGroup()
	root.Name = "Root"
	root.Entries = append(root.Entries, vaultEntry("Loose", "carol", "topsecret"))
	root.Groups = append(root.Groups, work, personal)

	db := gokeepasslib.NewDatabase(gokeepasslib.WithDatabaseKDBXVersion4())
	db.Content.Meta.DatabaseName = "Vault"
	db.Content.Root = &gokeepasslib.RootData{Groups: []gokeepasslib.Group{root}}
	db.Credentials = gokeepasslib.NewPasswordCredentials(vaultPassword)

	require.NoError(t, db.LockProtectedEntries())

	path := filepath.Join(t.TempDir(), "vault.kdbx")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, gokeepasslib.NewEncoder(f).Encode(db))
	return path
}

// isolateEnv blanks every KPR_* override and points the config lookup at
// an empty directory, so the developer's real environment cannot leak
// into a test run. Tests that exercise the environment layer set their
// own variables after calling this.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, name := range envOverridable {
		t.Setenv(EnvVar(name), "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

// runCLI executes the full command path the way main does and captures
// the command's stdout and stderr streams.
func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()

	root := NewRootCommand()
	var outBuf, errBuf bytes.Buffer
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)

	code = Execute(context.Background(), root, args)
	return code, outBuf.String(), errBuf.String()
}
