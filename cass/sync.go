package cass

import (
	"context"
	"log/slog"
	"time"
)

// Executor runs a single statement against the database.
type Executor interface {
	Exec(ctx context.Context, stmt string) error
}

// SchemaReader reads the live definition of a table.
// ReadTable returns nil, nil when the table does not exist.
type SchemaReader interface {
	ReadTable(ctx context.Context, name string) (*Table, error)
}

/*
	SyncStatements returns the statements reconciling current with desired.
	A nil current yields the full create table statement followed by
	one create index per indexed column, otherwise the statements of Diff.
*/
func SyncStatements(current, desired *Table) ([]string, error) {
	if current == nil {
		if err := desired.Validate(); err != nil {
			return nil, err
		}
		ret := []string{StmtCreateTable(desired)}
		for _, c := range desired.DataColumns {
			if c.Indexed() {
				ret = append(ret, StmtCreateIndex(desired.Name, c.Name, c.Index))
			}
		}
		return ret, nil
	}
	p, err := Diff(current, desired)
	if err != nil {
		return nil, err
	}
	return p.Statements(), nil
}

/*
	Synchronize applies the statements of SyncStatements one at a time, in order.
	Errors from Diff and from the executor are returned unchanged.
	There is no transaction: a failure leaves the statements before it applied.
	Nothing guards against another process reconciling the same table concurrently.
*/
func Synchronize(
	ctx context.Context, exec Executor, current, desired *Table, logger *slog.Logger,
) error {
	if logger == nil {
		logger = slog.Default()
	}
	stmts, err := SyncStatements(current, desired)
	if err != nil {
		return err
	}
	if len(stmts) == 0 {
		logger.Debug("table up to date", "table", desired.Name)
		return nil
	}
	start := time.Now()
	for i, stmt := range stmts {
		t := time.Now()
		if err := exec.Exec(ctx, stmt); err != nil {
			logger.Error("statement failed",
				"table", desired.Name, "applied", i, "stmt", stmt, "error", err)
			return err
		}
		logger.Debug("statement applied", "table", desired.Name, "stmt", stmt, "duration", time.Since(t))
	}
	logger.Info("table synchronized",
		"table", desired.Name, "created", current == nil,
		"statements", len(stmts), "duration", time.Since(start))
	return nil
}
