package redirector

import (
	"context"
	"fmt"
)

// ErrorFunc observes faults swallowed during resolution.
type ErrorFunc func(rule string, err error)

// Config holds the collaborators of a Resolver. A nil collaborator
// disables the rule that needs it.
type Config struct {
	Files   FileChecker
	Topics  TopicURLFormatter
	Forums  ForumFinder
	Systems SystemFinder
	Table   *Table

	// OnError, when set, is called for every swallowed fault.
	OnError ErrorFunc
}

// Resolver evaluates rules in order. It holds no mutable state and is
// safe for concurrent use.
type Resolver struct {
	rules   []Rule
	onError ErrorFunc
}

// New builds a Resolver with the default rule order.
func New(cfg Config) *Resolver {
	var rules []Rule

	if cfg.Files != nil {
		rules = append(rules, FileShadowRule{Files: cfg.Files})
	}
	if cfg.Topics != nil {
		rules = append(rules, TopicViewRule{Topics: cfg.Topics})
	}
	if cfg.Forums != nil {
		rules = append(rules, ForumCreateRule{Forums: cfg.Forums})
	}
	if cfg.Systems != nil {
		rules = append(rules, SystemIndexRule{Systems: cfg.Systems})
	}
	if cfg.Table != nil {
		rules = append(rules, TableRule{Table: cfg.Table}, TablePatternRule{Table: cfg.Table})
	}

	return NewWithRules(cfg.OnError, rules...)
}

// NewWithRules builds a Resolver that evaluates exactly the given rules.
func NewWithRules(onError ErrorFunc, rules ...Rule) *Resolver {
	rs := make([]Rule, len(rules))
	copy(rs, rules)

	return &Resolver{rules: rs, onError: onError}
}

// Rules returns the rule names in evaluation order.
func (r *Resolver) Rules() []string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name()
	}

	return names
}

// ResolveRaw parses rawQuery and resolves path.
func (r *Resolver) ResolveRaw(ctx context.Context, path, rawQuery string) Outcome {
	return r.Resolve(ctx, path, ParseQuery(rawQuery))
}

// Resolve returns the outcome for path and query. It never fails: faults
// are reported to OnError and yield NotFound.
func (r *Resolver) Resolve(ctx context.Context, path string, query Query) Outcome {
	req := Request{Path: path, Query: query}

	for _, rule := range r.rules {
		out, matched, err := r.apply(ctx, rule, req)
		if err != nil {
			r.report(rule.Name(), err)
			return NotFound(rule.Name())
		}
		if matched {
			return out
		}
	}

	return NotFound("")
}

func (r *Resolver) apply(ctx context.Context, rule Rule, req Request) (out Outcome, matched bool, err error) {
	defer func() {
		if v := recover(); v != nil {
			out, matched, err = NotFound(rule.Name()), true, fmt.Errorf("%w: %v", ErrPanic, v)
		}
	}()

	return rule.Apply(ctx, req)
}

func (r *Resolver) report(rule string, err error) {
	if r.onError != nil {
		r.onError(rule, err)
	}
}
