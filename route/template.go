package route

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnbalancedBraces is returned when a template has an unmatched { or }.
var ErrUnbalancedBraces = errors.New("route: unbalanced braces")

// defaultPattern matches a single path segment.
const defaultPattern = "[^/]+"

// Template is a compiled path template such as "/forums/topic/{topic}" or
// "/game/{id:int}". It is immutable and safe for concurrent use.
type Template struct {
	// raw is the original template string.
	raw string
	// regexp is the anchored regexp matching the whole path.
	regexp *regexp.Regexp
	// reverse is the template with %s placeholders for Sprintf.
	reverse string
	// varsN are the variable names in order.
	varsN []string
	// varsR are the compiled regexps validating each variable value.
	varsR []*regexp.Regexp
	// varsI are the submatch indexes of each variable in regexp.
	varsI []int
}

// Compile parses a path template and returns the compiled Template.
// Variables take the form {name} or {name:pattern}, where pattern is
// either a regular expression or one of the macro names (int, slug,
// alpha, alphanum, hex, uuid, date).
func Compile(tpl string) (*Template, error) {
	idxs, err := braceIndices(tpl)
	if err != nil {
		return nil, err
	}

	var (
		pattern bytes.Buffer
		reverse bytes.Buffer
		varsN   []string
		varsR   []*regexp.Regexp
		end     int
	)

	pattern.WriteByte('^')

	for i := 0; i < len(idxs); i += 2 {
		raw := tpl[end:idxs[i]]
		end = idxs[i+1]

		parts := strings.SplitN(tpl[idxs[i]+1:end-1], ":", 2)
		name := parts[0]
		patt := defaultPattern
		var compiledVarR *regexp.Regexp
		if len(parts) == 2 {
			patt, compiledVarR = expandMacro(parts[1])
		}

		if name == "" {
			return nil, fmt.Errorf("route: missing name in %q from %q", tpl[idxs[i]:end], tpl)
		}

		// Named groups keep variable positions stable when patt has
		// capturing groups of its own.
		fmt.Fprintf(&pattern, "%s(?P<%s>%s)", regexp.QuoteMeta(raw), groupName(len(varsN)), patt)
		reverse.WriteString(strings.ReplaceAll(raw, "%", "%%"))
		reverse.WriteString("%s")

		varsN = append(varsN, name)
		if compiledVarR == nil {
			compiledVarR, err = compileRegexp(fmt.Sprintf("^(?:%s)$", patt))
			if err != nil {
				return nil, fmt.Errorf("route: invalid pattern %q in variable %q: %w", patt, name, err)
			}
		}
		varsR = append(varsR, compiledVarR)
	}

	raw := tpl[end:]
	pattern.WriteString(regexp.QuoteMeta(raw))
	pattern.WriteByte('$')
	reverse.WriteString(strings.ReplaceAll(raw, "%", "%%"))

	if err := checkDuplicateVars(varsN); err != nil {
		return nil, err
	}

	reg, err := compileRegexp(pattern.String())
	if err != nil {
		return nil, fmt.Errorf("route: invalid template %q: %w", tpl, err)
	}

	varsI := make([]int, len(varsN))
	for i := range varsN {
		varsI[i] = reg.SubexpIndex(groupName(i))
	}

	return &Template{
		raw:     tpl,
		regexp:  reg,
		reverse: reverse.String(),
		varsN:   varsN,
		varsR:   varsR,
		varsI:   varsI,
	}, nil
}

func groupName(i int) string {
	return "v" + strconv.Itoa(i)
}

// MustCompile is like Compile but panics if the template is invalid.
func MustCompile(tpl string) *Template {
	t, err := Compile(tpl)
	if err != nil {
		panic(err)
	}

	return t
}

// String returns the original template.
func (t *Template) String() string {
	return t.raw
}

// VarNames returns the variable names in template order.
func (t *Template) VarNames() []string {
	out := make([]string, len(t.varsN))
	copy(out, t.varsN)

	return out
}

// Match reports whether p matches the template exactly and returns the
// extracted variables.
func (t *Template) Match(p string) (map[string]string, bool) {
	matches := t.regexp.FindStringSubmatch(p)
	if matches == nil {
		return nil, false
	}

	vars := make(map[string]string, len(t.varsN))
	for i, name := range t.varsN {
		if idx := t.varsI[i]; idx > 0 && idx < len(matches) {
			vars[name] = matches[idx]
		}
	}

	return vars, true
}

// URL builds a URL from the template. Every template variable must be
// present in values and satisfy its pattern. Values whose names do not
// appear in the template are appended as a query string, sorted by key.
func (t *Template) URL(values map[string]string) (string, error) {
	urlValues := make([]any, len(t.varsN))
	used := make(map[string]bool, len(t.varsN))

	for i, name := range t.varsN {
		v, ok := values[name]
		if !ok {
			return "", fmt.Errorf("route: missing variable %q", name)
		}
		if !t.varsR[i].MatchString(v) {
			return "", fmt.Errorf("route: variable %q doesn't match, expected %q", name, t.varsR[i].String())
		}
		urlValues[i] = url.PathEscape(v)
		used[name] = true
	}

	out := fmt.Sprintf(t.reverse, urlValues...)

	extra := url.Values{}
	for name, v := range values {
		if !used[name] {
			extra.Set(name, v)
		}
	}

	if len(extra) > 0 {
		out += "?" + extra.Encode()
	}

	return out, nil
}

// HasVariables reports whether s contains at least one {name} variable.
func HasVariables(s string) bool {
	idxs, err := braceIndices(s)
	return err == nil && len(idxs) > 0
}

// CleanPath returns the canonical path for p, eliminating . and ..
// elements per RFC 3986 Section 5.2.4.
func CleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	np := path.Clean(p)
	// path.Clean removes trailing slash except for root;
	// put the trailing slash back if necessary.
	if p[len(p)-1] == '/' && np != "/" {
		np += "/"
	}

	return np
}

// braceIndices returns the start and end+1 indices of each top-level
// {...} pair in s. Returns an error if braces are unbalanced.
func braceIndices(s string) ([]int, error) {
	var (
		idxs  []int
		level int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if level++; level == 1 {
				idxs = append(idxs, i)
			}
		case '}':
			if level--; level == 0 {
				idxs = append(idxs, i+1)
			} else if level < 0 {
				return nil, fmt.Errorf("%w in %q", ErrUnbalancedBraces, s)
			}
		}
	}
	if level != 0 {
		return nil, fmt.Errorf("%w in %q", ErrUnbalancedBraces, s)
	}

	return idxs, nil
}

// checkDuplicateVars returns an error if any variable name is repeated.
func checkDuplicateVars(vars []string) error {
	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		if seen[v] {
			return fmt.Errorf("route: duplicated variable %q", v)
		}
		seen[v] = true
	}

	return nil
}
