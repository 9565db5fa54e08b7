// Package handlers provides the HTTP side of the legacy redirector:
// middleware, the redirect handler and a public file handler that lets
// real files shadow redirects.
//
// A typical stack serves public files first and resolves redirects for
// everything else:
//
//	redirect := handlers.RedirectHandler(handlers.RedirectConfig{
//	    Resolver:   current,
//	    StatusCode: http.StatusMovedPermanently,
//	    Logger:     logger,
//	})
//
//	public, err := handlers.PublicFilesHandler(handlers.PublicFilesConfig{
//	    FS:       os.DirFS("public"),
//	    Fallback: redirect,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	h := handlers.Chain(public,
//	    handlers.RequestIDMiddleware(handlers.RequestIDConfig{TrustIncoming: true}),
//	    handlers.RecoveryMiddleware(logger),
//	    handlers.AccessLogMiddleware(logger),
//	)
package handlers
