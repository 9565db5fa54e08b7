package redirector

import "errors"

var (
	// ErrTopicRouteVariable is returned when a topic route template has
	// no {topic} variable.
	ErrTopicRouteVariable = errors.New("redirector: topic route must contain a {topic} variable")

	// ErrInvalidEntry is returned by NewTable for malformed table entries.
	ErrInvalidEntry = errors.New("redirector: invalid table entry")

	// ErrDuplicateEntry is returned by NewTable when a path is listed twice.
	ErrDuplicateEntry = errors.New("redirector: duplicate table entry")

	// ErrInvalidID is reported when a numeric path capture does not parse.
	ErrInvalidID = errors.New("redirector: invalid numeric id")

	// ErrPanic wraps a value recovered from a panicking rule.
	ErrPanic = errors.New("redirector: rule panicked")
)
