// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces (repositories) defined in the internal/store package.
// It handles the details of database connections, query execution, and data
// mapping between domain entities and database records.
//
// Queries go through database/sql using the pgx stdlib driver; rows are
// scanned with scany's sqlscan. The schema is shipped as embedded goose
// migrations (see NewMigrationProvider).
package postgres
