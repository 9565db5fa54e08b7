package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"github.com/retroachievements/legacy-redirector/route"
)

// ErrPublicFilesNoFS is returned when PublicFilesConfig.FS is nil.
var ErrPublicFilesNoFS = errors.New("public files: file system must not be nil")

// ErrPublicFilesNoFallback is returned when PublicFilesConfig.Fallback
// is nil.
var ErrPublicFilesNoFallback = errors.New("public files: fallback handler must not be nil")

// PublicFilesConfig configures the public file handler.
type PublicFilesConfig struct {
	// FS is the public directory. Works with os.DirFS, embed.FS and any
	// fs.FS implementation.
	FS fs.FS

	// Fallback handles every request that does not name a servable file.
	Fallback http.Handler
}

// PublicFilesHandler serves regular files and directories with an
// index.html from FS and hands everything else to Fallback. Directory
// listings are never produced.
func PublicFilesHandler(cfg PublicFilesConfig) (http.Handler, error) {
	if cfg.FS == nil {
		return nil, ErrPublicFilesNoFS
	}
	if cfg.Fallback == nil {
		return nil, ErrPublicFilesNoFallback
	}

	files := http.FileServerFS(cfg.FS)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			if servable(cfg.FS, r.URL.Path) {
				files.ServeHTTP(w, r)
				return
			}
		}

		cfg.Fallback.ServeHTTP(w, r)
	}), nil
}

// servable reports whether p names a regular file, or a directory that
// holds an index.html.
func servable(fsys fs.FS, p string) bool {
	name := strings.Trim(route.CleanPath(p), "/")
	if name == "" {
		name = "."
	}

	if !fs.ValidPath(name) {
		return false
	}

	stat, err := fs.Stat(fsys, name)
	if err != nil {
		return false
	}

	if !stat.IsDir() {
		return stat.Mode().IsRegular()
	}

	indexPath := name + "/index.html"
	if name == "." {
		indexPath = "index.html"
	}

	_, err = fs.Stat(fsys, indexPath)

	return err == nil
}
