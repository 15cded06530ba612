package cass

import (
	"fmt"
	"sort"

	"github.com/kzaag/cqlsync/cmn"
	"gopkg.in/yaml.v2"
)

type declColumn struct {
	Name    string
	Type    string
	Order   string
	Index   string
	Indexed bool
}

type declTable struct {
	Name           string
	Partition      []declColumn
	Clustering     []declColumn
	Columns        []declColumn
	Properties     map[string]interface{}
	CompactStorage bool `yaml:"compact_storage"`
}

func parserKeyType(path, table string, c *declColumn) (Type, error) {
	if c.Name == "" {
		return "", fmt.Errorf("Validate %s: table %s has key column without name", path, table)
	}
	t, err := TypeLookup(c.Type)
	if err != nil {
		return "", fmt.Errorf("Validate %s: key column %s: %w", path, c.Name, err)
	}
	return t, nil
}

func parserAddColumn(t *Table, c *declColumn) error {
	if c.Type == "" {
		return fmt.Errorf("column %s doesnt specify type", c.Name)
	}
	coll, typ, key, err := ColumnTypeParse(c.Type)
	if err != nil {
		return fmt.Errorf("column %s: %w", c.Name, err)
	}
	indexed := c.Indexed || c.Index != ""
	switch coll {
	case NoCollection:
		if indexed {
			return t.AddIndexedColumn(c.Name, typ, c.Index)
		}
		return t.AddDataColumn(c.Name, typ)
	case List, Set, Map:
		if indexed {
			return fmt.Errorf("collection column %s cannot be indexed", c.Name)
		}
		switch coll {
		case List:
			return t.AddList(c.Name, typ)
		case Set:
			return t.AddSet(c.Name, typ)
		}
		return t.AddMap(c.Name, key, typ)
	}
	return fmt.Errorf("column %s: unknown collection kind %q", c.Name, coll)
}

func parserTableBuild(path string, d *declTable) (*Table, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("Validate %s: table doesnt have name specified", path)
	}
	t := TableNew(d.Name)
	for i := range d.Partition {
		typ, err := parserKeyType(path, d.Name, &d.Partition[i])
		if err != nil {
			return nil, err
		}
		if err = t.AddPartitionKey(d.Partition[i].Name, typ); err != nil {
			return nil, fmt.Errorf("Validate %s: %w", path, err)
		}
	}
	for i := range d.Clustering {
		c := &d.Clustering[i]
		typ, err := parserKeyType(path, d.Name, c)
		if err != nil {
			return nil, err
		}
		if err = t.AddClusteringKey(c.Name, typ, Order(c.Order)); err != nil {
			return nil, fmt.Errorf("Validate %s: %w", path, err)
		}
	}
	for i := range d.Columns {
		if err := parserAddColumn(t, &d.Columns[i]); err != nil {
			return nil, fmt.Errorf("Validate %s: table %s: %w", path, d.Name, err)
		}
	}
	names := make([]string, 0, len(d.Properties))
	for k := range d.Properties {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if err := t.AddProperty(k, d.Properties[k]); err != nil {
			return nil, fmt.Errorf("Validate %s: %w", path, err)
		}
	}
	t.CompactStorage = d.CompactStorage
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("Validate %s: %w", path, err)
	}
	return t, nil
}

// ParserTable decodes one table declaration.
func ParserTable(path string, fc []byte) (*Table, error) {
	var obj struct {
		Table *declTable
	}
	if err := yaml.UnmarshalStrict(fc, &obj); err != nil {
		return nil, fmt.Errorf("couldnt unmarshal %s: %w", path, err)
	}
	if obj.Table == nil {
		return nil, fmt.Errorf("couldnt validate %s: no table declared", path)
	}
	return parserTableBuild(path, obj.Table)
}

// ParserGetTablesInDir reads every table declared under the given paths.
// Files and directories are both accepted, directories are walked recursively.
func ParserGetTablesInDir(paths ...string) ([]*Table, error) {
	var ret []*Table
	seen := make(map[string]string)
	cb := func(path string, fc []byte) error {
		t, err := ParserTable(path, fc)
		if err != nil {
			return err
		}
		if prev, ok := seen[t.Name]; ok {
			return fmt.Errorf("table %s declared in both %s and %s", t.Name, prev, path)
		}
		seen[t.Name] = path
		ret = append(ret, t)
		return nil
	}
	for _, p := range paths {
		if err := cmn.ParserIterateOverSource(p, cmn.YamlSuffixes, cb); err != nil {
			return nil, err
		}
	}
	return ret, nil
}
