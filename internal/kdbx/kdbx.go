// Package kdbx opens and decrypts KeePass 2.x database files and
// converts them into the domain model.
//
// The package wraps github.com/tobischo/gokeepasslib, which implements
// the KDBX 3.1 and 4.x container formats (AES/ChaCha20 encryption,
// AES-KDF and Argon2 key derivation, protected inner streams). Only
// reading is supported; this tool never writes a database back.
package kdbx

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tobischo/gokeepasslib/v3"

	"github.com/rubikonx9/keepass-rofi/internal/model"
)

// Options describes how to open a database.
type Options struct {
	// Path is the KDBX file path. Required.
	Path string

	// Password is the master password. May be empty when KeyFile is
	// set.
	Password string

	// KeyFile is an optional key file path. When both KeyFile and
	// Password are set, they form a composite key.
	KeyFile string
}

// Open reads, decrypts and unlocks the database at opts.Path and
// converts it into a model.Store.
//
// Credentials follow the KeePass composite key rules: password only,
// key file only, or password plus key file. Any failure (missing file,
// wrong credentials, corrupt stream) is reported as a model.CLIError
// carrying model.ExitDatabase.
func Open(opts Options) (*model.Store, error) {
	f, err := os.Open(opts.Path)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDatabase,
			fmt.Sprintf("could not open database file %q", opts.Path),
			err,
		)
	}
	defer f.Close()

	creds, err := buildCredentials(opts)
	if err != nil {
		return nil, err
	}

	db := gokeepasslib.NewDatabase()
	db.Credentials = creds

	if err := gokeepasslib.NewDecoder(f).Decode(db); err != nil {
		return nil, model.WrapCLIError(
			model.ExitDatabase,
			fmt.Sprintf("could not decrypt %q: wrong password or key file?", filepath.Base(opts.Path)),
			err,
		)
	}

	// Protected values (passwords) sit under an inner stream cipher
	// even after the outer decryption. Unlock them once so field
	// lookups see plain text.
	if err := db.UnlockProtectedEntries(); err != nil {
		return nil, model.WrapCLIError(model.ExitDatabase, "could not unlock protected entries", err)
	}

	store := convertDatabase(opts.Path, db)
	slog.Debug("database opened",
		"name", store.Name,
		"groups", len(store.Root.Groups),
		"rootEntries", len(store.Root.Entries),
	)
	return store, nil
}

// buildCredentials assembles the composite key for the database.
func buildCredentials(opts Options) (*gokeepasslib.DBCredentials, error) {
	switch {
	case opts.KeyFile != "" && opts.Password != "":
		creds, err := gokeepasslib.NewPasswordAndKeyCredentials(opts.Password, opts.KeyFile)
		if err != nil {
			return nil, model.WrapCLIError(
				model.ExitDatabase,
				fmt.Sprintf("could not read key file %q", opts.KeyFile),
				err,
			)
		}
		return creds, nil

	case opts.KeyFile != "":
		creds, err := gokeepasslib.NewKeyCredentials(opts.KeyFile)
		if err != nil {
			return nil, model.WrapCLIError(
				model.ExitDatabase,
				fmt.Sprintf("could not read key file %q", opts.KeyFile),
				err,
			)
		}
		return creds, nil

	default:
		return gokeepasslib.NewPasswordCredentials(opts.Password), nil
	}
}

// convertDatabase maps the decoded KDBX document onto the domain
// model. The store name prefers the database name from the meta
// section and falls back to the file name.
//
// KDBX nests all content under a single top-level group, which becomes
// the store's root. Files with zero or several top-level groups are
// not produced by KeePass clients but are legal in the format; they
// are folded under a synthetic root so the rest of the program never
// has to care.
func convertDatabase(path string, db *gokeepasslib.Database) *model.Store {
	name := ""
	if db.Content != nil && db.Content.Meta != nil {
		name = db.Content.Meta.DatabaseName
	}
	if name == "" {
		name = filepath.Base(path)
	}

	root := model.Group{Name: "Root"}
	if db.Content != nil && db.Content.Root != nil {
		groups := db.Content.Root.Groups
		if len(groups) == 1 {
			root = convertGroup(groups[0])
		} else {
			for _, g := range groups {
				root.Groups = append(root.Groups, convertGroup(g))
			}
		}
	}

	return &model.Store{Name: name, Root: root}
}

// convertGroup converts one KDBX group subtree, preserving file order
// of both entries and subgroups.
func convertGroup(g gokeepasslib.Group) model.Group {
	group := model.Group{Name: g.Name}
	for _, e := range g.Entries {
		group.Entries = append(group.Entries, convertEntry(e))
	}
	for _, sub := range g.Groups {
		group.Groups = append(group.Groups, convertGroup(sub))
	}
	return group
}

// convertEntry converts one KDBX entry. All string fields are carried
// over in file order; history, times and attachments are dropped
// because nothing in this tool reads them.
func convertEntry(e gokeepasslib.Entry) model.Entry {
	fields := make([]model.Field, 0, len(e.Values))
	for _, v := range e.Values {
		fields = append(fields, model.Field{
			Key:       v.Key,
			Value:     v.Value.Content,
			Protected: v.Value.Protected.Bool,
		})
	}
	return model.Entry{Fields: fields}
}
