package redirector

import (
	"fmt"
	"strings"

	"github.com/retroachievements/legacy-redirector/route"
)

// ParamTarget selects Target when Param is present in the query. An empty
// Param always matches.
type ParamTarget struct {
	Param  string
	Target string
}

// TableEntry is a single rule of the redirect table. Exactly one of
// Target and Params is set.
type TableEntry struct {
	// Path is the literal request path, or a route template such as
	// "/game/{id:int}" for pattern entries.
	Path string

	// Target is the redirect template for single-target entries.
	Target string

	// Params lists per-parameter targets, tried in order.
	Params []ParamTarget
}

// target picks the redirect template for the query. The second result is
// false when the entry is a parameter mapping and nothing matched.
func (e TableEntry) target(q Query) (string, bool) {
	if len(e.Params) == 0 {
		return e.Target, true
	}

	for _, pt := range e.Params {
		if pt.Param == "" || q.Has(pt.Param) {
			return pt.Target, true
		}
	}

	return "", false
}

// resolve produces the final redirect location for the query. vars holds
// path variables of pattern entries and takes precedence over the query.
func (e TableEntry) resolve(q Query, vars Query) (string, bool) {
	tpl, ok := e.target(q)
	if !ok {
		return "", false
	}

	if len(e.Params) == 0 && q.Len() == 0 && vars.Len() == 0 {
		return stripPlaceholders(tpl)
	}

	return stripPlaceholders(fillPlaceholders(tpl, vars, q))
}

type patternEntry struct {
	tpl   *route.Template
	entry TableEntry
}

// Table is an immutable redirect table. It is safe for concurrent use.
type Table struct {
	entries  []TableEntry
	exact    map[string]TableEntry
	patterns []patternEntry
}

// NewTable validates entries and builds a Table. Entry order is kept:
// pattern entries are tried in the order given.
func NewTable(entries []TableEntry) (*Table, error) {
	t := &Table{
		entries: make([]TableEntry, 0, len(entries)),
		exact:   make(map[string]TableEntry, len(entries)),
	}

	seen := make(map[string]bool, len(entries))

	for _, e := range entries {
		if err := validateEntry(e); err != nil {
			return nil, err
		}

		if seen[e.Path] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateEntry, e.Path)
		}
		seen[e.Path] = true

		if route.HasVariables(e.Path) {
			tpl, err := route.Compile(e.Path)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %w", ErrInvalidEntry, e.Path, err)
			}
			t.patterns = append(t.patterns, patternEntry{tpl: tpl, entry: e})
		} else {
			t.exact[e.Path] = e
		}

		t.entries = append(t.entries, e)
	}

	return t, nil
}

func validateEntry(e TableEntry) error {
	if !strings.HasPrefix(e.Path, "/") {
		return fmt.Errorf("%w: path %q must start with /", ErrInvalidEntry, e.Path)
	}

	hasTarget := e.Target != ""
	hasParams := len(e.Params) > 0

	if hasTarget == hasParams {
		return fmt.Errorf("%w: %q needs exactly one of target or params", ErrInvalidEntry, e.Path)
	}

	for _, pt := range e.Params {
		if pt.Target == "" {
			return fmt.Errorf("%w: %q has an empty target for param %q", ErrInvalidEntry, e.Path, pt.Param)
		}
	}

	return nil
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.entries)
}

// Entries returns a copy of the entries in table order.
func (t *Table) Entries() []TableEntry {
	if t == nil {
		return nil
	}

	out := make([]TableEntry, len(t.entries))
	copy(out, t.entries)

	return out
}

// Lookup returns the exact entry for path.
func (t *Table) Lookup(path string) (TableEntry, bool) {
	if t == nil {
		return TableEntry{}, false
	}

	e, ok := t.exact[path]

	return e, ok
}

// match returns the first pattern entry matching path with its variables.
func (t *Table) match(path string) (TableEntry, Query, bool) {
	if t == nil {
		return TableEntry{}, Query{}, false
	}

	for _, p := range t.patterns {
		vars, ok := p.tpl.Match(path)
		if !ok {
			continue
		}

		var q Query
		for _, name := range p.tpl.VarNames() {
			q.Set(name, vars[name])
		}

		return p.entry, q, true
	}

	return TableEntry{}, Query{}, false
}
