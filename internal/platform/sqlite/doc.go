// Package sqlite provides SQLite implementations of the internal/store
// interfaces using the pure-Go modernc.org/sqlite driver.
//
// It backs single-node deployments and the test suites of the service and
// API layers. Timestamps are stored as Unix milliseconds in INTEGER columns.
package sqlite
