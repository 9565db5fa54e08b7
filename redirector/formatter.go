package redirector

import (
	"strings"

	"github.com/retroachievements/legacy-redirector/route"
)

// DefaultTopicRoute is the current forum topic route.
const DefaultTopicRoute = "/forums/topic/{topic}"

// RouteFormatter formats topic URLs from a route template. The topic id
// fills the {topic} variable; a comment id is appended as the comment
// query parameter.
type RouteFormatter struct {
	tpl     *route.Template
	baseURL string
}

// NewRouteFormatter compiles tpl, which must contain a {topic} variable.
// baseURL, when not empty, is prefixed to every URL.
func NewRouteFormatter(tpl, baseURL string) (*RouteFormatter, error) {
	t, err := route.Compile(tpl)
	if err != nil {
		return nil, err
	}

	found := false
	for _, name := range t.VarNames() {
		if name == "topic" {
			found = true
		}
	}
	if !found {
		return nil, ErrTopicRouteVariable
	}

	return &RouteFormatter{
		tpl:     t,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// MustRouteFormatter is like NewRouteFormatter but panics on error.
func MustRouteFormatter(tpl, baseURL string) *RouteFormatter {
	f, err := NewRouteFormatter(tpl, baseURL)
	if err != nil {
		panic(err)
	}

	return f
}

// FormatTopicURL implements TopicURLFormatter.
func (f *RouteFormatter) FormatTopicURL(topicID, commentID string) (string, error) {
	values := map[string]string{"topic": topicID}
	if commentID != "" {
		values["comment"] = commentID
	}

	u, err := f.tpl.URL(values)
	if err != nil {
		return "", err
	}

	return f.baseURL + u, nil
}
