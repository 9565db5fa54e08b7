package redirector

// Outcome is the result of resolving a request. The zero value is a
// NotFound outcome with no deciding rule.
type Outcome struct {
	// Target is the redirect location. Empty for NotFound.
	Target string

	// Rule is the name of the rule that decided the outcome, or empty
	// when no rule matched.
	Rule string

	redirect bool
}

// NotFound returns an outcome meaning no redirect applies.
func NotFound(rule string) Outcome {
	return Outcome{Rule: rule}
}

// Redirect returns an outcome redirecting to target.
func Redirect(rule, target string) Outcome {
	return Outcome{Target: target, Rule: rule, redirect: true}
}

// IsRedirect reports whether the outcome carries a redirect target.
func (o Outcome) IsRedirect() bool {
	return o.redirect
}

// String returns a short human readable form of the outcome.
func (o Outcome) String() string {
	if o.redirect {
		return "redirect " + o.Target
	}

	return "not found"
}
