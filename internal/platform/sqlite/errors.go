package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/phrazzld/todo-api/internal/store"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

type constraintKind int

const (
	constraintNone constraintKind = iota
	constraintUnique
	constraintForeignKey
	constraintOther
)

// classify inspects the extended result code and falls back to the message
// text when the driver reports only the primary SQLITE_CONSTRAINT code.
func classify(err error) constraintKind {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return constraintNone
	}
	switch sqliteErr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
		return constraintUnique
	case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
		return constraintForeignKey
	case sqlite3lib.SQLITE_CONSTRAINT_NOTNULL, sqlite3lib.SQLITE_CONSTRAINT_CHECK:
		return constraintOther
	case sqlite3lib.SQLITE_CONSTRAINT:
		message := strings.ToLower(sqliteErr.Error())
		switch {
		case strings.Contains(message, "unique constraint failed"):
			return constraintUnique
		case strings.Contains(message, "foreign key constraint failed"):
			return constraintForeignKey
		default:
			return constraintOther
		}
	}
	return constraintNone
}

// MapError maps a driver error to the matching store error.
// notFound is the sentinel to use for missing rows; it defaults to store.ErrNotFound.
func MapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound == nil {
		notFound = store.ErrNotFound
	}

	if errors.Is(err, sql.ErrNoRows) || sqlscan.NotFound(err) {
		return notFound
	}

	switch classify(err) {
	case constraintUnique:
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case constraintForeignKey:
		return fmt.Errorf("%w: foreign key violation: %v", store.ErrInvalidEntity, err)
	case constraintOther:
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	return err
}

// IsUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY constraint failure.
func IsUniqueViolation(err error) bool {
	return classify(err) == constraintUnique
}

// CheckRowsAffected returns notFound when an UPDATE or DELETE touched no rows.
func CheckRowsAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
