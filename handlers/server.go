package handlers

import (
	"net/http"
	"os"
)

// ServerMiddleware returns a middleware that sets the X-Server-Hostname
// response header. An empty hostname falls back to os.Hostname, resolved
// once when the middleware is created.
func ServerMiddleware(hostname string) (MiddlewareFunc, error) {
	if hostname == "" {
		h, err := os.Hostname()
		if err != nil {
			return nil, err
		}

		hostname = h
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Server-Hostname", hostname)
			next.ServeHTTP(w, r)
		})
	}, nil
}
