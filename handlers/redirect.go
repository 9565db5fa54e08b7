package handlers

import (
	"context"
	"net/http"

	"github.com/retroachievements/legacy-redirector/redirector"
	"github.com/retroachievements/legacy-redirector/route"
	"go.uber.org/zap"
)

// Resolver decides redirects. *redirector.Resolver and
// *redirector.Current implement it.
type Resolver interface {
	Resolve(ctx context.Context, path string, query redirector.Query) redirector.Outcome
}

// RedirectConfig configures the redirect handler.
type RedirectConfig struct {
	Resolver Resolver

	// StatusCode is the redirect status. Defaults to 301.
	StatusCode int

	// NotFound handles requests without a redirect. Defaults to
	// http.NotFound.
	NotFound http.Handler

	Logger *zap.Logger
}

// RedirectHandler answers every request with either a redirect decided
// by the resolver or the not-found handler. Paths are cleaned before
// resolution.
func RedirectHandler(cfg RedirectConfig) http.Handler {
	code := cfg.StatusCode
	if code == 0 {
		code = http.StatusMovedPermanently
	}

	notFound := cfg.NotFound
	if notFound == nil {
		notFound = http.HandlerFunc(http.NotFound)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := route.CleanPath(r.URL.Path)
		out := cfg.Resolver.Resolve(r.Context(), p, redirector.ParseQuery(r.URL.RawQuery))

		if !out.IsRedirect() {
			if out.Rule != "" {
				logger.Debug("redirect declined",
					zap.String("path", p),
					zap.String("rule", out.Rule),
					zap.String("request_id", RequestIDFromContext(r.Context())),
				)
			}

			notFound.ServeHTTP(w, r)
			return
		}

		logger.Debug("redirect",
			zap.String("path", p),
			zap.String("rule", out.Rule),
			zap.String("target", out.Target),
			zap.String("request_id", RequestIDFromContext(r.Context())),
		)

		http.Redirect(w, r, out.Target, code)
	})
}
