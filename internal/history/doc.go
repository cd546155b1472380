// Package history records broadcast runs in a SQLite database.
//
// Each run gets a UUID and one row per endpoint result. The store is optional:
// the CLI only opens it when a history path is configured.
package history
