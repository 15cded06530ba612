package cass

import (
	"fmt"
	"sort"
)

type ColumnKind int

const (
	PartitionKeyColumn ColumnKind = iota
	ClusteringKeyColumn
	DataColumn
	CollectionColumn
)

func (k ColumnKind) String() string {
	switch k {
	case PartitionKeyColumn:
		return "partition key"
	case ClusteringKeyColumn:
		return "clustering key"
	case DataColumn:
		return "data"
	case CollectionColumn:
		return "collection"
	}
	return fmt.Sprintf("ColumnKind(%d)", int(k))
}

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

/*
	Column is a value describing one column.
	Which fields are meaningful depends on Kind:

		PartitionKeyColumn   Name, Type
		ClusteringKeyColumn  Name, Type, Order
		DataColumn           Name, Type, Index (empty if not indexed)
		CollectionColumn     Name, Collection, Type (element or map value), KeyType (map only)

	Column holds no references so two columns compare with ==.
*/
type Column struct {
	Name       string
	Kind       ColumnKind
	Type       Type
	Collection CollectionKind
	KeyType    Type
	Order      Order
	Index      string
}

func (c *Column) TypeString() string {
	if c.Kind != CollectionColumn {
		return string(c.Type)
	}
	switch c.Collection {
	case List:
		return "LIST<" + string(c.Type) + ">"
	case Set:
		return "SET<" + string(c.Type) + ">"
	case Map:
		return "MAP<" + string(c.KeyType) + "," + string(c.Type) + ">"
	}
	panic(fmt.Sprintf("cass: column %s has unknown collection kind %q", c.Name, c.Collection))
}

// collections never report an index
func (c *Column) Indexed() bool {
	return c.Kind == DataColumn && c.Index != ""
}

func (c *Column) IsKey() bool {
	return c.Kind == PartitionKeyColumn || c.Kind == ClusteringKeyColumn
}

func (c *Column) String() string {
	return c.Name + " " + c.TypeString()
}

/*
	Table is built incrementally through the Add* methods
	and treated as immutable once handed to Diff or Synchronize.
*/
type Table struct {
	Name           string
	PartitionKey   []*Column
	ClusteringKey  []*Column
	DataColumns    []*Column
	Properties     map[string]Value
	CompactStorage bool
}

func TableNew(name string) *Table {
	return &Table{
		Name:       name,
		Properties: make(map[string]Value),
	}
}

func DefaultIndexName(table, column string) string {
	return table + "_" + column + "_idx"
}

func (t *Table) add(c *Column) error {
	if c.Name == "" {
		return fmt.Errorf("table %s: column name cannot be empty", t.Name)
	}
	if t.Column(c.Name) != nil {
		return fmt.Errorf("table %s: duplicate column %s", t.Name, c.Name)
	}
	if c.Index != "" {
		for _, dc := range t.DataColumns {
			if dc.Index == c.Index {
				return fmt.Errorf("table %s: index %s already covers column %s",
					t.Name, c.Index, dc.Name)
			}
		}
	}
	switch c.Kind {
	case PartitionKeyColumn:
		t.PartitionKey = append(t.PartitionKey, c)
	case ClusteringKeyColumn:
		t.ClusteringKey = append(t.ClusteringKey, c)
	case DataColumn, CollectionColumn:
		t.DataColumns = append(t.DataColumns, c)
	default:
		return fmt.Errorf("table %s: column %s has unknown kind %v", t.Name, c.Name, c.Kind)
	}
	return nil
}

func (t *Table) AddPartitionKey(name string, typ Type) error {
	return t.add(&Column{Name: name, Kind: PartitionKeyColumn, Type: typ})
}

func (t *Table) AddClusteringKey(name string, typ Type, order Order) error {
	switch order {
	case "":
		order = Asc
	case Asc, Desc:
	default:
		return fmt.Errorf("table %s: clustering column %s has invalid order %q", t.Name, name, order)
	}
	return t.add(&Column{Name: name, Kind: ClusteringKeyColumn, Type: typ, Order: order})
}

func (t *Table) AddDataColumn(name string, typ Type) error {
	return t.add(&Column{Name: name, Kind: DataColumn, Type: typ})
}

// AddIndexedColumn adds a data column covered by a secondary index.
// An empty index name selects DefaultIndexName.
func (t *Table) AddIndexedColumn(name string, typ Type, index string) error {
	if index == "" {
		index = DefaultIndexName(t.Name, name)
	}
	return t.add(&Column{Name: name, Kind: DataColumn, Type: typ, Index: index})
}

func (t *Table) AddList(name string, elem Type) error {
	return t.add(&Column{Name: name, Kind: CollectionColumn, Collection: List, Type: elem})
}

func (t *Table) AddSet(name string, elem Type) error {
	return t.add(&Column{Name: name, Kind: CollectionColumn, Collection: Set, Type: elem})
}

func (t *Table) AddMap(name string, key, value Type) error {
	return t.add(&Column{
		Name: name, Kind: CollectionColumn, Collection: Map, Type: value, KeyType: key,
	})
}

// AddProperty normalizes raw with PropertyNormalize and stores it.
func (t *Table) AddProperty(name string, raw interface{}) error {
	if _, ok := t.Properties[name]; ok {
		return fmt.Errorf("table %s: duplicate property %s", t.Name, name)
	}
	v, err := PropertyNormalize(name, raw)
	if err != nil {
		return fmt.Errorf("table %s: %w", t.Name, err)
	}
	if t.Properties == nil {
		t.Properties = make(map[string]Value)
	}
	t.Properties[name] = v
	return nil
}

// Column looks a column up by name across all kinds. Returns nil if absent.
func (t *Table) Column(name string) *Column {
	for _, cc := range [][]*Column{t.PartitionKey, t.ClusteringKey, t.DataColumns} {
		for _, c := range cc {
			if c.Name == name {
				return c
			}
		}
	}
	return nil
}

func (t *Table) DataColumn(name string) *Column {
	for _, c := range t.DataColumns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (t *Table) Property(name string) (Value, bool) {
	v, ok := t.Properties[name]
	return v, ok
}

// Columns returns partition key, clustering key and data columns in that order.
func (t *Table) Columns() []*Column {
	ret := make([]*Column, 0, len(t.PartitionKey)+len(t.ClusteringKey)+len(t.DataColumns))
	ret = append(ret, t.PartitionKey...)
	ret = append(ret, t.ClusteringKey...)
	ret = append(ret, t.DataColumns...)
	return ret
}

func (t *Table) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if len(t.PartitionKey) == 0 {
		return fmt.Errorf("table %s: partition key cannot be empty", t.Name)
	}
	return nil
}

func (t *Table) Clone() *Table {
	ret := &Table{
		Name:           t.Name,
		Properties:     make(map[string]Value, len(t.Properties)),
		CompactStorage: t.CompactStorage,
	}
	cp := func(cc []*Column) []*Column {
		if cc == nil {
			return nil
		}
		out := make([]*Column, len(cc))
		for i, c := range cc {
			x := *c
			out[i] = &x
		}
		return out
	}
	ret.PartitionKey = cp(t.PartitionKey)
	ret.ClusteringKey = cp(t.ClusteringKey)
	ret.DataColumns = cp(t.DataColumns)
	for k, v := range t.Properties {
		ret.Properties[k] = v.clone()
	}
	return ret
}

// RestrictProperties returns a copy of t keeping only the named properties.
func (t *Table) RestrictProperties(names []string) *Table {
	ret := t.Clone()
	keep := make(map[string]struct{}, len(names))
	for _, n := range names {
		keep[n] = struct{}{}
	}
	for k := range ret.Properties {
		if _, ok := keep[k]; !ok {
			delete(ret.Properties, k)
		}
	}
	return ret
}

/*
	RestrictPropertiesTo returns a copy of t keeping only the properties
	declared on desired. Map valued properties declared as maps keep only
	the keys desired lists, so options the engine fills in on its own
	(max_threshold, chunk_length_in_kb, ...) do not count as differences.
*/
func (t *Table) RestrictPropertiesTo(desired *Table) *Table {
	ret := t.RestrictProperties(desired.PropertyNames())
	for name, v := range ret.Properties {
		d := desired.Properties[name]
		if v.Kind != MapValue || d.Kind != MapValue {
			continue
		}
		m := make(map[string]Value, len(d.Map))
		for k := range d.Map {
			if x, ok := v.Map[k]; ok {
				m[k] = x
			}
		}
		ret.Properties[name] = MapOf(m)
	}
	return ret
}

func (t *Table) PropertyNames() []string {
	ret := make([]string, 0, len(t.Properties))
	for k := range t.Properties {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
