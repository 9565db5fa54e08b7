package redirector

import (
	"context"
	"io/fs"
	"strings"

	"github.com/retroachievements/legacy-redirector/route"
)

// Forum is the result of a forum lookup.
type Forum struct {
	ID         int64
	CategoryID int64
}

// System is the result of a gaming system lookup.
type System struct {
	ID   int64
	Slug string
}

// ForumFinder looks up a forum together with its parent category. It
// returns an error when the forum does not exist or the lookup failed.
type ForumFinder interface {
	FindForumWithCategory(ctx context.Context, id int64) (Forum, error)
}

// SystemFinder looks up a gaming system by id. It returns an error when
// the system does not exist or the lookup failed.
type SystemFinder interface {
	FindSystem(ctx context.Context, id int64) (System, error)
}

// TopicURLFormatter builds the current URL of a forum topic. commentID is
// empty when no comment was requested.
type TopicURLFormatter interface {
	FormatTopicURL(topicID, commentID string) (string, error)
}

// FileChecker reports whether a file exists at a request path.
type FileChecker interface {
	Exists(path string) bool
}

// ForumFinderFunc adapts a function to ForumFinder.
type ForumFinderFunc func(ctx context.Context, id int64) (Forum, error)

// FindForumWithCategory calls f.
func (f ForumFinderFunc) FindForumWithCategory(ctx context.Context, id int64) (Forum, error) {
	return f(ctx, id)
}

// SystemFinderFunc adapts a function to SystemFinder.
type SystemFinderFunc func(ctx context.Context, id int64) (System, error)

// FindSystem calls f.
func (f SystemFinderFunc) FindSystem(ctx context.Context, id int64) (System, error) {
	return f(ctx, id)
}

// DirChecker reports whether a request path names an entry in FS.
// Directories count as existing, so the public root never redirects.
type DirChecker struct {
	FS fs.FS
}

// Exists implements FileChecker.
func (d DirChecker) Exists(p string) bool {
	if d.FS == nil {
		return false
	}

	name := strings.TrimPrefix(route.CleanPath(p), "/")
	name = strings.TrimSuffix(name, "/")
	if name == "" {
		name = "."
	}

	if !fs.ValidPath(name) {
		return false
	}

	_, err := fs.Stat(d.FS, name)

	return err == nil
}
