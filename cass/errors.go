package cass

import (
	"errors"
	"fmt"
)

// ErrInvalidSchemaMigration matches every *InvalidSchemaMigrationError via errors.Is.
var ErrInvalidSchemaMigration = errors.New("invalid schema migration")

// InvalidSchemaMigrationError reports a change no sequence of in-place DDL can apply.
type InvalidSchemaMigrationError struct {
	Table  string
	Reason string
}

func (e *InvalidSchemaMigrationError) Error() string {
	return fmt.Sprintf("invalid schema migration of table %s: %s", e.Table, e.Reason)
}

func (e *InvalidSchemaMigrationError) Is(target error) bool {
	return target == ErrInvalidSchemaMigration
}

func invalidMigration(table, format string, args ...interface{}) error {
	return &InvalidSchemaMigrationError{
		Table:  table,
		Reason: fmt.Sprintf(format, args...),
	}
}
