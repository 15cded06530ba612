package cass

import (
	"sort"
	"strings"
)

var reserved = map[string]struct{}{
	"add": {}, "allow": {}, "alter": {}, "and": {}, "apply": {}, "asc": {},
	"authorize": {}, "batch": {}, "begin": {}, "by": {}, "columnfamily": {},
	"create": {}, "delete": {}, "desc": {}, "describe": {}, "drop": {},
	"entries": {}, "execute": {}, "from": {}, "full": {}, "grant": {}, "if": {},
	"in": {}, "index": {}, "infinity": {}, "insert": {}, "into": {}, "is": {},
	"keyspace": {}, "limit": {}, "materialized": {}, "mbean": {}, "mbeans": {},
	"modify": {}, "nan": {}, "norecursive": {}, "not": {}, "null": {}, "of": {},
	"on": {}, "or": {}, "order": {}, "primary": {}, "rename": {}, "replace": {},
	"revoke": {}, "schema": {}, "select": {}, "set": {}, "table": {}, "to": {},
	"token": {}, "truncate": {}, "unlogged": {}, "unset": {}, "update": {},
	"use": {}, "using": {}, "view": {}, "where": {}, "with": {},
}

// StmtIdent quotes name when it would not survive as a bare CQL identifier.
func StmtIdent(name string) string {
	quote := name == ""
	if _, ok := reserved[strings.ToLower(name)]; ok {
		quote = true
	}
	for i, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				quote = true
			}
		default:
			// upper case included, unquoted identifiers fold to lower case
			quote = true
		}
	}
	if !quote {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func stmtIdents(cc []*Column) string {
	s := make([]string, len(cc))
	for i, c := range cc {
		s[i] = StmtIdent(c.Name)
	}
	return strings.Join(s, ", ")
}

func StmtPKDef(t *Table) string {
	s := "PRIMARY KEY ((" + stmtIdents(t.PartitionKey) + ")"
	if len(t.ClusteringKey) > 0 {
		s += ", " + stmtIdents(t.ClusteringKey)
	}
	return s + ")"
}

func stmtProperties(props map[string]Value) []string {
	names := make([]string, 0, len(props))
	for k := range props {
		names = append(names, k)
	}
	sort.Strings(names)
	ret := make([]string, len(names))
	for i, n := range names {
		ret[i] = n + " = " + props[n].CQL()
	}
	return ret
}

func StmtCreateTable(t *Table) string {
	defs := make([]string, 0, len(t.PartitionKey)+len(t.ClusteringKey)+len(t.DataColumns)+1)
	for _, c := range t.Columns() {
		defs = append(defs, StmtIdent(c.Name)+" "+c.TypeString())
	}
	defs = append(defs, StmtPKDef(t))
	s := "CREATE TABLE " + StmtIdent(t.Name) + " (" + strings.Join(defs, ", ") + ")"

	with := stmtProperties(t.Properties)
	if len(t.ClusteringKey) > 0 {
		order := make([]string, len(t.ClusteringKey))
		for i, c := range t.ClusteringKey {
			o := c.Order
			if o == "" {
				o = Asc
			}
			order[i] = StmtIdent(c.Name) + " " + strings.ToUpper(string(o))
		}
		with = append(with, "CLUSTERING ORDER BY ("+strings.Join(order, ", ")+")")
	}
	if t.CompactStorage {
		with = append(with, "COMPACT STORAGE")
	}
	if len(with) > 0 {
		s += " WITH " + strings.Join(with, " AND ")
	}
	return s
}

func StmtAddColumn(table string, c *Column) string {
	return "ALTER TABLE " + StmtIdent(table) + " ADD " + StmtIdent(c.Name) + " " + c.TypeString()
}

func StmtRenameColumn(table, from, to string) string {
	return "ALTER TABLE " + StmtIdent(table) + " RENAME " + StmtIdent(from) + " TO " + StmtIdent(to)
}

func StmtCreateIndex(table, column, index string) string {
	return "CREATE INDEX " + StmtIdent(index) + " ON " + StmtIdent(table) + " (" + StmtIdent(column) + ")"
}

func StmtDropIndex(index string) string {
	return "DROP INDEX IF EXISTS " + StmtIdent(index)
}

func StmtSetProperties(table string, props map[string]Value) string {
	return "ALTER TABLE " + StmtIdent(table) + " WITH " + strings.Join(stmtProperties(props), " AND ")
}
