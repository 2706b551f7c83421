package model

// Flatten returns every entry reachable from g in depth-first order:
// a group's own entries first, then the entries of each subgroup in
// turn. Sibling order is preserved, so the result is deterministic for
// a given tree.
//
// The returned slice is never nil; an empty tree yields an empty slice.
func Flatten(g Group) []Entry {
	entries := make([]Entry, 0)
	WalkEntries(g, func(_ []string, e Entry) {
		entries = append(entries, e)
	})
	return entries
}

// WalkEntries visits every entry reachable from g in the same order as
// Flatten. The path passed to visit names the chain of groups from g
// down to the entry's parent, starting with g itself. Each call
// receives its own path slice, so callbacks may retain it.
func WalkEntries(g Group, visit func(path []string, e Entry)) {
	walkEntries([]string{g.Name}, g, visit)
}

func walkEntries(path []string, g Group, visit func(path []string, e Entry)) {
	for _, e := range g.Entries {
		visit(path, e)
	}
	for _, sub := range g.Groups {
		// Copy before extending: plain append could alias the backing
		// array across sibling subtrees.
		subPath := make([]string, 0, len(path)+1)
		subPath = append(subPath, path...)
		subPath = append(subPath, sub.Name)
		walkEntries(subPath, sub, visit)
	}
}
