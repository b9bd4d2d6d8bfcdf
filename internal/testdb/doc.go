// Package testdb provides utilities specifically for database testing.
//
// SQLite databases are created per test in a temporary directory and need no
// external services. PostgreSQL databases are only available when
// DATABASE_URL points at a server; tests that need one are skipped otherwise.
package testdb
