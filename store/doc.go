// Package store looks up forums and gaming systems in the site database
// for the legacy redirects that need them. SQLite (modernc.org/sqlite)
// and PostgreSQL (lib/pq) are supported.
//
// The queries expect these columns:
//
//	forums(id, forum_category_id, deleted_at)
//	forum_categories(id, deleted_at)
//	systems(id, name)
package store
