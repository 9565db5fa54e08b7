package redirector

import (
	"net/url"
	"strings"
)

// fillPlaceholders replaces every {key} in tpl with the value of key,
// taking values from each source in order; the first source to define a
// key wins. Values are escaped for the URL component they land in, so a
// value can never introduce a brace of its own.
func fillPlaceholders(tpl string, sources ...Query) string {
	rest, fragment, hasFragment := strings.Cut(tpl, "#")
	p, rawQuery, hasQuery := strings.Cut(rest, "?")

	seen := make(map[string]bool)
	for _, src := range sources {
		for _, key := range src.keys {
			if seen[key] {
				continue
			}
			seen[key] = true

			marker := "{" + key + "}"
			value := src.values[key]

			p = strings.ReplaceAll(p, marker, url.PathEscape(value))
			rawQuery = strings.ReplaceAll(rawQuery, marker, url.QueryEscape(value))
			fragment = strings.ReplaceAll(fragment, marker, url.PathEscape(value))
		}
	}

	return joinURL(p, rawQuery, hasQuery, fragment, hasFragment)
}

// stripPlaceholders removes query parameters whose value still begins
// with "{", meaning no substitution took place. It reports false when a
// brace survives elsewhere in the URL; such a target cannot be emitted.
func stripPlaceholders(target string) (string, bool) {
	rest, fragment, hasFragment := strings.Cut(target, "#")
	p, rawQuery, hasQuery := strings.Cut(rest, "?")

	if hasQuery {
		var kept []string
		for _, pair := range strings.Split(rawQuery, "&") {
			if pair == "" {
				continue
			}

			_, value, _ := strings.Cut(pair, "=")
			if strings.HasPrefix(unescapeQuery(value), "{") {
				continue
			}

			kept = append(kept, pair)
		}

		rawQuery = strings.Join(kept, "&")
		hasQuery = rawQuery != ""
	}

	out := joinURL(p, rawQuery, hasQuery, fragment, hasFragment)
	if strings.ContainsAny(out, "{}") {
		return "", false
	}

	return out, true
}

func joinURL(p, rawQuery string, hasQuery bool, fragment string, hasFragment bool) string {
	var b strings.Builder
	b.WriteString(p)
	if hasQuery {
		b.WriteByte('?')
		b.WriteString(rawQuery)
	}
	if hasFragment {
		b.WriteByte('#')
		b.WriteString(fragment)
	}

	return b.String()
}
