package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/gosimple/slug"
	_ "github.com/lib/pq"
	"github.com/retroachievements/legacy-redirector/redirector"
	"golang.org/x/sync/singleflight"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	// ErrNotFound is returned when a forum or system does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrUnknownDriver is returned by Open for unsupported drivers.
	ErrUnknownDriver = errors.New("store: unknown driver")
)

const (
	forumQuery = `SELECT f.id, c.id
FROM forums f
JOIN forum_categories c ON c.id = f.forum_category_id
WHERE f.id = ? AND f.deleted_at IS NULL AND c.deleted_at IS NULL`

	systemQuery = `SELECT id, name FROM systems WHERE id = ?`
)

// Options configures Open.
type Options struct {
	// ConnectAttempts is the number of startup pings. Zero means one.
	ConnectAttempts uint

	// ConnectDelay is the wait between pings.
	ConnectDelay time.Duration

	// OnRetry, when set, is called after every failed ping.
	OnRetry func(attempt uint, err error)
}

// Store implements redirector.ForumFinder and redirector.SystemFinder on
// top of the site database. Concurrent lookups of the same id share one
// query.
type Store struct {
	db          *sql.DB
	forumQuery  string
	systemQuery string
	group       singleflight.Group
}

var (
	_ redirector.ForumFinder  = (*Store)(nil)
	_ redirector.SystemFinder = (*Store)(nil)
)

// Open connects to the database and pings it until it answers or the
// attempts run out.
func Open(ctx context.Context, driver, dsn string, opts Options) (*Store, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", driver, err)
	}

	attempts := opts.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}

	retryOpts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(opts.ConnectDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	}
	if opts.OnRetry != nil {
		retryOpts = append(retryOpts, retry.OnRetry(opts.OnRetry))
	}

	if err := retry.Do(func() error { return db.PingContext(ctx) }, retryOpts...); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", driver, err)
	}

	return New(db, driver), nil
}

// New wraps an open database. driver selects the placeholder style.
func New(db *sql.DB, driver string) *Store {
	return &Store{
		db:          db,
		forumQuery:  rebind(driver, forumQuery),
		systemQuery: rebind(driver, systemQuery),
	}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// FindForumWithCategory implements redirector.ForumFinder. Forums whose
// category is missing or deleted are reported as not found.
func (s *Store) FindForumWithCategory(ctx context.Context, id int64) (redirector.Forum, error) {
	return share(ctx, &s.group, "forum:"+strconv.FormatInt(id, 10), func(ctx context.Context) (redirector.Forum, error) {
		var f redirector.Forum
		err := s.db.QueryRowContext(ctx, s.forumQuery, id).Scan(&f.ID, &f.CategoryID)
		if errors.Is(err, sql.ErrNoRows) {
			return f, fmt.Errorf("%w: forum %d", ErrNotFound, id)
		}
		if err != nil {
			return f, fmt.Errorf("store: find forum %d: %w", id, err)
		}

		return f, nil
	})
}

// FindSystem implements redirector.SystemFinder. The slug is derived
// from the id and the system name, e.g. "7-nintendo-entertainment-system".
func (s *Store) FindSystem(ctx context.Context, id int64) (redirector.System, error) {
	return share(ctx, &s.group, "system:"+strconv.FormatInt(id, 10), func(ctx context.Context) (redirector.System, error) {
		var (
			sys  redirector.System
			name string
		)
		err := s.db.QueryRowContext(ctx, s.systemQuery, id).Scan(&sys.ID, &name)
		if errors.Is(err, sql.ErrNoRows) {
			return sys, fmt.Errorf("%w: system %d", ErrNotFound, id)
		}
		if err != nil {
			return sys, fmt.Errorf("store: find system %d: %w", id, err)
		}

		sys.Slug = SystemSlug(sys.ID, name)

		return sys, nil
	})
}

// share runs fn once per key for all concurrent callers. fn gets a
// context detached from the first caller's cancellation; each caller
// still stops waiting when its own ctx is done.
func share[T any](ctx context.Context, g *singleflight.Group, key string, fn func(context.Context) (T, error)) (T, error) {
	ch := g.DoChan(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-ch:
		return res.Val.(T), res.Err
	}
}

// SystemSlug returns the id-prefixed slug of a system. Names are
// transliterated to ASCII, so "Pokémon Mini" becomes "pokemon-mini".
func SystemSlug(id int64, name string) string {
	s := slug.Make(name)
	if s == "" {
		return strconv.FormatInt(id, 10)
	}

	return strconv.FormatInt(id, 10) + "-" + s
}

// rebind rewrites ? placeholders to $n for postgres.
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}

	var (
		b strings.Builder
		n int
	)
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}
