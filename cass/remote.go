package cass

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gocql/gocql"
)

// table options in system_schema.tables reconciled as properties
var remoteProperties = []string{
	"additional_write_policy",
	"bloom_filter_fp_chance",
	"caching",
	"cdc",
	"comment",
	"compaction",
	"compression",
	"crc_check_chance",
	"dclocal_read_repair_chance",
	"default_time_to_live",
	"gc_grace_seconds",
	"max_index_interval",
	"memtable_flush_period_in_ms",
	"min_index_interval",
	"read_repair",
	"read_repair_chance",
	"speculative_retry",
}

type remoteColumn struct {
	Name     string
	Order    string
	Kind     string
	Position int
	Type     string
}

type remoteIndex struct {
	Name    string
	Kind    string
	Options map[string]string
}

// RemoteReader reads table definitions from system_schema.
type RemoteReader struct {
	Session  *gocql.Session
	Keyspace string
}

func (r *RemoteReader) ReadTable(ctx context.Context, name string) (*Table, error) {
	const qt = `select * from system_schema.tables
		where keyspace_name = ? and table_name = ?`
	row := make(map[string]interface{})
	err := r.Session.Query(qt, r.Keyspace, name).WithContext(ctx).MapScan(row)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read table %s.%s: %w", r.Keyspace, name, err)
	}
	cols, err := r.columns(ctx, name)
	if err != nil {
		return nil, err
	}
	ixs, err := r.indexes(ctx, name)
	if err != nil {
		return nil, err
	}
	return remoteTableBuild(name, cols, ixs, row)
}

// ReadTables reads the named tables, absent ones are left out of the result.
func (r *RemoteReader) ReadTables(ctx context.Context, names []string) (map[string]*Table, error) {
	ret := make(map[string]*Table, len(names))
	for _, n := range names {
		t, err := r.ReadTable(ctx, n)
		if err != nil {
			return nil, err
		}
		if t != nil {
			ret[n] = t
		}
	}
	return ret, nil
}

func (r *RemoteReader) columns(ctx context.Context, table string) ([]remoteColumn, error) {
	const q = `select
			column_name,
			clustering_order,
			kind,
			position,
			type
		from system_schema.columns
		where keyspace_name = ? and table_name = ?`
	i := r.Session.Query(q, r.Keyspace, table).WithContext(ctx).Iter()
	var ret []remoteColumn
	var tmp remoteColumn
	for i.Scan(&tmp.Name, &tmp.Order, &tmp.Kind, &tmp.Position, &tmp.Type) {
		ret = append(ret, tmp)
	}
	if err := i.Close(); err != nil {
		return nil, fmt.Errorf("read columns of %s.%s: %w", r.Keyspace, table, err)
	}
	return ret, nil
}

func (r *RemoteReader) indexes(ctx context.Context, table string) ([]remoteIndex, error) {
	const q = `select index_name, kind, options
		from system_schema.indexes
		where keyspace_name = ? and table_name = ?`
	i := r.Session.Query(q, r.Keyspace, table).WithContext(ctx).Iter()
	var ret []remoteIndex
	var name, kind string
	var options map[string]string
	for i.Scan(&name, &kind, &options) {
		// gocql reuses the map between rows
		opts := make(map[string]string, len(options))
		for k, v := range options {
			opts[k] = v
		}
		ret = append(ret, remoteIndex{Name: name, Kind: kind, Options: opts})
	}
	if err := i.Close(); err != nil {
		return nil, fmt.Errorf("read indexes of %s.%s: %w", r.Keyspace, table, err)
	}
	return ret, nil
}

// remoteIndexTarget returns the column covered by a plain secondary index.
// Targets like keys(m) or values(s) are not column targets.
func remoteIndexTarget(ix *remoteIndex) (string, bool) {
	if ix.Kind != "COMPOSITES" {
		return "", false
	}
	t := ix.Options["target"]
	if t == "" || strings.Contains(t, "(") {
		return "", false
	}
	if len(t) > 1 && strings.HasPrefix(t, `"`) && strings.HasSuffix(t, `"`) {
		t = strings.ReplaceAll(t[1:len(t)-1], `""`, `"`)
	}
	return t, true
}

func remoteTableBuild(
	name string, cols []remoteColumn, ixs []remoteIndex, row map[string]interface{},
) (*Table, error) {
	index := make(map[string]string)
	for i := range ixs {
		if col, ok := remoteIndexTarget(&ixs[i]); ok {
			index[col] = ixs[i].Name
		}
	}

	sorted := make([]remoteColumn, len(cols))
	copy(sorted, cols)
	kindOrder := map[string]int{"partition_key": 0, "clustering": 1, "static": 2, "regular": 3}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := &sorted[i], &sorted[j]
		if kindOrder[a.Kind] != kindOrder[b.Kind] {
			return kindOrder[a.Kind] < kindOrder[b.Kind]
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.Name < b.Name
	})

	t := TableNew(name)
	for i := range sorted {
		c := &sorted[i]
		var err error
		switch c.Kind {
		case "partition_key", "clustering":
			var typ Type
			if typ, err = TypeLookup(c.Type); err != nil {
				return nil, fmt.Errorf("table %s column %s: %w", name, c.Name, err)
			}
			if c.Kind == "partition_key" {
				err = t.AddPartitionKey(c.Name, typ)
			} else {
				err = t.AddClusteringKey(c.Name, typ, Order(strings.ToLower(c.Order)))
			}
		case "regular", "static":
			err = parserAddColumn(t, &declColumn{Name: c.Name, Type: c.Type, Index: index[c.Name]})
		default:
			err = fmt.Errorf("unknown column kind %q", c.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("table %s column %s: %w", name, c.Name, err)
		}
	}

	for _, p := range remoteProperties {
		raw, ok := row[p]
		if !ok || raw == nil {
			continue
		}
		if err := t.AddProperty(p, raw); err != nil {
			return nil, err
		}
	}
	t.CompactStorage = remoteCompactStorage(row["flags"])
	return t, nil
}

func remoteCompactStorage(raw interface{}) bool {
	flags, ok := raw.([]string)
	if !ok {
		return false
	}
	compound := false
	for _, f := range flags {
		switch f {
		case "dense", "super":
			return true
		case "compound":
			compound = true
		}
	}
	return !compound
}
