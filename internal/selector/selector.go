// Package selector implements the interactive menu walk over a
// decrypted database tree.
//
// Starting at the root group, the selector renders one menu per level
// through an injected Picker and descends into whichever group the
// user chooses, until a credential entry is picked (resolved) or the
// picker is dismissed (cancelled). Cancellation is a normal outcome,
// not an error; errors are reserved for picker failures and selections
// that violate the menu label protocol.
package selector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rubikonx9/keepass-rofi/internal/model"
)

// ErrChoiceNotFound reports a well-formed selection that names a child
// the current group does not have. This can only happen when the
// picker returns a line it was never offered.
var ErrChoiceNotFound = errors.New("selection does not match any offered menu item")

// Picker presents a menu of labels and returns the line the user chose.
// ok is false when the user dismissed the menu without choosing, which
// callers must treat as cancellation rather than failure.
//
// Implementations must return the chosen label verbatim; the selector
// parses it back into a typed choice.
type Picker interface {
	Pick(ctx context.Context, prompt string, labels []string) (selection string, ok bool, err error)
}

// OutcomeState is the terminal state of a selection walk.
type OutcomeState string

const (
	// StateResolved indicates the user picked a credential entry.
	StateResolved OutcomeState = "resolved"

	// StateCancelled indicates the user dismissed the picker without
	// choosing an entry.
	StateCancelled OutcomeState = "cancelled"
)

// String returns the string representation of OutcomeState.
func (s OutcomeState) String() string {
	return string(s)
}

// Outcome is the result of a completed selection walk.
type Outcome struct {
	// State reports how the walk ended.
	State OutcomeState

	// Entry is the chosen credential entry. Set only when State is
	// StateResolved.
	Entry *model.Entry
}

// Selector walks a group tree one menu at a time through a Picker.
type Selector struct {
	picker Picker
}

// New constructs a Selector that presents menus through p.
func New(p Picker) *Selector {
	return &Selector{picker: p}
}

// Run walks the tree rooted at root until the user resolves an entry
// or cancels. Each iteration offers the current group's children and
// interprets the picker's answer:
//
//   - an entry label resolves the walk with that entry
//   - a group label descends into that group
//   - picker dismissal cancels the walk
//
// A selection that is not a well-formed label, or that names a child
// the current group does not have, is a protocol violation and returns
// an error carrying model.ExitPicker.
func (s *Selector) Run(ctx context.Context, root model.Group) (Outcome, error) {
	current := root
	for {
		labels := Labels(current)
		slog.Debug("presenting menu", "group", current.Name, "items", len(labels))

		selection, ok, err := s.picker.Pick(ctx, current.Name, labels)
		if err != nil {
			return Outcome{}, err
		}
		if !ok {
			slog.Debug("selection cancelled", "group", current.Name)
			return Outcome{State: StateCancelled}, nil
		}

		choice, err := ParseLabel(selection)
		if err != nil {
			return Outcome{}, model.WrapCLIError(model.ExitPicker, "unexpected picker output", err)
		}

		node, found := findChild(current, choice)
		if !found {
			return Outcome{}, model.WrapCLIError(
				model.ExitPicker,
				fmt.Sprintf("group %q has no %s named %q", current.Name, choice.Kind, choice.Name),
				ErrChoiceNotFound,
			)
		}

		switch node.Kind {
		case model.KindEntry:
			slog.Debug("selection resolved", "entry", node.Entry.Title())
			return Outcome{State: StateResolved, Entry: node.Entry}, nil
		case model.KindGroup:
			current = *node.Group
		default:
			return Outcome{}, model.NewCLIError(
				model.ExitPicker,
				fmt.Sprintf("unhandled node kind %q", node.Kind),
			)
		}
	}
}

// findChild resolves a parsed choice against the children of g.
// When several children share a name, the first one in tree order wins,
// matching the order the menu was rendered in.
func findChild(g model.Group, c Choice) (model.Node, bool) {
	switch c.Kind {
	case model.KindEntry:
		for i := range g.Entries {
			if g.Entries[i].Title() == c.Name {
				return model.Node{Kind: model.KindEntry, Entry: &g.Entries[i]}, true
			}
		}
	case model.KindGroup:
		for i := range g.Groups {
			if g.Groups[i].Name == c.Name {
				return model.Node{Kind: model.KindGroup, Group: &g.Groups[i]}, true
			}
		}
	}
	return model.Node{}, false
}
