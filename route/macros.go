package route

import (
	"fmt"
	"regexp"
)

// macro holds a pattern string and its pre-compiled validation regexp.
type macro struct {
	pattern string
	re      *regexp.Regexp
}

// patternMacros maps macro names usable as {name:macro} to patterns.
var patternMacros = func() map[string]macro {
	raw := map[string]string{
		"uuid":     `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
		"int":      `[0-9]+`,
		"slug":     `[a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)*`,
		"alpha":    `[a-zA-Z]+`,
		"alphanum": `[a-zA-Z0-9]+`,
		"date":     `[0-9]{4}-[0-9]{2}-[0-9]{2}`,
		"hex":      `[0-9a-fA-F]+`,
	}

	m := make(map[string]macro, len(raw))
	for name, pattern := range raw {
		m[name] = macro{
			pattern: pattern,
			re:      regexp.MustCompile(fmt.Sprintf("^%s$", pattern)),
		}
	}

	return m
}()

// expandMacro returns the regex pattern string and a pre-compiled
// validation regexp for a macro name. Unknown names are returned
// unchanged with a nil regexp; the caller compiles them.
func expandMacro(pattern string) (string, *regexp.Regexp) {
	if m, ok := patternMacros[pattern]; ok {
		return m.pattern, m.re
	}

	return pattern, nil
}
