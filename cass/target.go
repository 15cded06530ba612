package cass

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"syscall"
	"time"

	"github.com/gocql/gocql"
	"github.com/kzaag/cqlsync/cmn"
	"github.com/kzaag/cqlsync/target"
	"golang.org/x/crypto/ssh/terminal"
)

// SessionExecutor runs statements on a gocql session.
type SessionExecutor struct {
	Session *gocql.Session
}

func (e SessionExecutor) Exec(ctx context.Context, stmt string) error {
	return e.Session.Query(stmt).WithContext(ctx).Exec()
}

/*
	MergeTables reconciles every desired table with its live counterpart.
	Only the properties a declaration lists, and for map properties only
	the keys it lists, are compared. Engine defaults the declaration does
	not mention are left alone.
	Tables are processed by name and the first error stops the run.
*/
func MergeTables(
	ctx context.Context,
	reader SchemaReader,
	exec Executor,
	desired []*Table,
	logger *slog.Logger,
) error {
	if logger == nil {
		logger = slog.Default()
	}
	sorted := make([]*Table, len(desired))
	copy(sorted, desired)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for _, d := range sorted {
		current, err := reader.ReadTable(ctx, d.Name)
		if err != nil {
			return err
		}
		if current != nil {
			current = current.RestrictPropertiesTo(d)
		}
		if err = Synchronize(ctx, exec, current, d, logger); err != nil {
			return fmt.Errorf("table %s: %w", d.Name, err)
		}
	}
	return nil
}

func targetPassword(t *target.Target) error {
	if t.User == "" || t.Password != "" {
		return nil
	}
	fmt.Printf("password for %s: ", t.Name)
	bytes, err := terminal.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return err
	}
	fmt.Println()
	t.Password = string(bytes)
	return nil
}

// targetCluster translates target settings into a gocql cluster config.
// Recognised args: timeout (s), port, consistency.
func targetCluster(t *target.Target) (*gocql.ClusterConfig, error) {
	timeout := 10
	if err := t.GetInt("timeout", &timeout); err != nil {
		return nil, err
	}
	cluster := gocql.NewCluster(t.Server...)
	cluster.Timeout = time.Second * time.Duration(timeout)
	cluster.Keyspace = t.Database

	port := 0
	if err := t.GetInt("port", &port); err != nil {
		return nil, err
	}
	if port != 0 {
		cluster.Port = port
	}

	consistency := ""
	t.GetString("consistency", &consistency)
	if consistency != "" {
		c, err := gocql.ParseConsistencyWrapper(consistency)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", t.Name, err)
		}
		cluster.Consistency = c
	}

	if t.User != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: t.User,
			Password: t.Password,
		}
	}
	return cluster, nil
}

func targetDbNew(logger *slog.Logger) func(*target.Target) (interface{}, error) {
	return func(t *target.Target) (interface{}, error) {
		if err := targetPassword(t); err != nil {
			return nil, err
		}
		cluster, err := targetCluster(t)
		if err != nil {
			return nil, err
		}
		retries, interval := 1, 2
		if err = t.GetInt("retries", &retries); err != nil {
			return nil, err
		}
		if err = t.GetInt("interval", &interval); err != nil {
			return nil, err
		}
		var sess *gocql.Session
		for attempt := 1; ; attempt++ {
			if sess, err = cluster.CreateSession(); err == nil {
				return sess, nil
			}
			if attempt >= retries {
				return nil, fmt.Errorf("connect to %v: %w", t.Server, err)
			}
			logger.Warn("connection failed, retrying",
				"target", t.Name, "attempt", attempt, "error", err)
			time.Sleep(time.Second * time.Duration(interval))
		}
	}
}

func targetDbClose(db interface{}) {
	db.(*gocql.Session).Close()
}

func targetDbExec(ctx context.Context, db interface{}, stmt string) error {
	return SessionExecutor{Session: db.(*gocql.Session)}.Exec(ctx, stmt)
}

func targetMerge(logger *slog.Logger) func(context.Context, interface{}, *target.Target, []string, target.Executor) error {
	return func(ctx context.Context, db interface{}, t *target.Target, paths []string, ex target.Executor) error {
		desired, err := ParserGetTablesInDir(paths...)
		if err != nil {
			return err
		}
		reader := &RemoteReader{Session: db.(*gocql.Session), Keyspace: t.Database}
		return MergeTables(ctx, reader, ex, desired, logger)
	}
}

func TargetCtxNew(logger *slog.Logger, out *cmn.Printer) *target.Ctx {
	if logger == nil {
		logger = slog.Default()
	}
	return &target.Ctx{
		Merge:    targetMerge(logger),
		DbNew:    targetDbNew(logger),
		DbClose:  targetDbClose,
		DbPing:   nil,
		DbExec:   targetDbExec,
		DbSuffix: ".cql",
		Logger:   logger,
		Out:      out,
	}
}
