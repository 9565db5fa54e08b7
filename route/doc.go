// Package route compiles path templates with named variables.
//
// A template is a literal path with variables enclosed in curly braces,
// optionally followed by a colon and a regular expression or macro:
//
//	t := route.MustCompile("/forums/topic/{topic:int}")
//	vars, ok := t.Match("/forums/topic/500")  // {"topic": "500"}, true
//	u, _ := t.URL(map[string]string{"topic": "500", "comment": "7"})
//	// u == "/forums/topic/500?comment=7"
//
// Matching is exact and case-sensitive: the whole path must match.
package route
