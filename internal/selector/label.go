package selector

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/rubikonx9/keepass-rofi/internal/model"
)

// Menu label format constants. Every line offered to the picker has the
// form "<Kind>: <Name>", e.g. "Entry: Email" or "Group: Work". The
// picker echoes the chosen line back verbatim, so this format is the
// whole wire protocol between the walker and the picker process.
const (
	// labelSeparator joins the kind token and the node name.
	labelSeparator = ": "
)

// labelPattern matches well-formed menu labels. The kind alternation
// is anchored at the start and the name group swallows the rest of the
// line, so names that themselves contain ": " survive a round trip.
var labelPattern = regexp.MustCompile(`^(Entry|Group): (.*)$`)

// ErrMalformedLabel reports picker output that is not a well-formed
// menu label. Seeing it means the picker returned text this program
// never offered, e.g. free-typed input in dmenu.
var ErrMalformedLabel = errors.New("picker returned a malformed menu label")

// Choice is a parsed menu label: the kind of node the user picked and
// the display name it was offered under.
type Choice struct {
	Kind model.NodeKind
	Name string
}

// BuildLabel renders the menu line for a node of the given kind.
// This is the inverse of ParseLabel.
func BuildLabel(kind model.NodeKind, name string) string {
	return kind.String() + labelSeparator + name
}

// ParseLabel parses a line of picker output back into a typed Choice.
// Returns an error wrapping ErrMalformedLabel when the line does not
// match the menu label format.
func ParseLabel(label string) (Choice, error) {
	m := labelPattern.FindStringSubmatch(label)
	if m == nil {
		return Choice{}, fmt.Errorf("%w: %q", ErrMalformedLabel, label)
	}

	// The pattern alternation only admits valid kind tokens, but the
	// typed conversion keeps the token list in one place.
	kind, err := model.ParseNodeKind(m[1])
	if err != nil {
		return Choice{}, fmt.Errorf("%w: %q", ErrMalformedLabel, label)
	}

	return Choice{Kind: kind, Name: m[2]}, nil
}

// Labels renders the menu for a group: the group's own entries first,
// then its subgroups, both in tree order. Entries are labelled by
// title, groups by name.
//
// Returns an empty slice (not nil) for a group with no children.
func Labels(g model.Group) []string {
	labels := make([]string, 0, len(g.Entries)+len(g.Groups))
	for _, e := range g.Entries {
		labels = append(labels, BuildLabel(model.KindEntry, e.Title()))
	}
	for _, sub := range g.Groups {
		labels = append(labels, BuildLabel(model.KindGroup, sub.Name))
	}
	return labels
}
