package cass

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type ValueKind int

const (
	StringValue ValueKind = iota
	NumberValue
	BoolValue
	MapValue
)

// Value is a normalized table property value.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	Map  map[string]Value
}

func String(s string) Value { return Value{Kind: StringValue, Str: s} }
func Number(f float64) Value { return Value{Kind: NumberValue, Num: f} }
func Bool(b bool) Value { return Value{Kind: BoolValue, Bool: b} }
func MapOf(m map[string]Value) Value { return Value{Kind: MapValue, Map: m} }

func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case StringValue:
		return v.Str == o.Str
	case NumberValue:
		return v.Num == o.Num
	case BoolValue:
		return v.Bool == o.Bool
	case MapValue:
		if len(v.Map) != len(o.Map) {
			return false
		}
		for k, x := range v.Map {
			y, ok := o.Map[k]
			if !ok || !x.Equal(y) {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) clone() Value {
	if v.Kind != MapValue {
		return v
	}
	m := make(map[string]Value, len(v.Map))
	for k, x := range v.Map {
		m[k] = x.clone()
	}
	return MapOf(m)
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// CQL renders v as a CQL literal.
func (v Value) CQL() string {
	switch v.Kind {
	case StringValue:
		return quoteString(v.Str)
	case NumberValue:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case BoolValue:
		return strconv.FormatBool(v.Bool)
	case MapValue:
		keys := make([]string, 0, len(v.Map))
		for k := range v.Map {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = quoteString(k) + ": " + v.Map[k].CQL()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	panic(fmt.Sprintf("cass: unknown property value kind %d", v.Kind))
}

func (v Value) String() string {
	return v.CQL()
}

func PropertiesEqual(a, b map[string]Value) bool {
	if len(a) != len(b) {
		return false
	}
	for k, x := range a {
		y, ok := b[k]
		if !ok || !x.Equal(y) {
			return false
		}
	}
	return true
}

// class prefixes the catalog reports for built in implementations
var classPrefixes = map[string][]string{
	"compaction":  {"org.apache.cassandra.db.compaction."},
	"compression": {"org.apache.cassandra.io.compress."},
}

var classKeys = map[string]struct{}{
	"class":               {},
	"sstable_compression": {},
}

/*
	PropertyNormalize turns a raw property value, either declared in yaml
	or scanned from system_schema.tables, into a Value so that both sides
	compare equal when they mean the same thing.
*/
func PropertyNormalize(name string, raw interface{}) (Value, error) {
	switch x := raw.(type) {
	case Value:
		return x.clone(), nil
	case map[string]string:
		m := make(map[string]Value, len(x))
		for k, s := range x {
			m[k] = mapEntryNormalize(name, k, s)
		}
		return MapOf(m), nil
	case map[string]interface{}:
		return mapNormalize(name, len(x), func(cb func(string, interface{}) error) error {
			for k, e := range x {
				if err := cb(k, e); err != nil {
					return err
				}
			}
			return nil
		})
	case map[interface{}]interface{}:
		return mapNormalize(name, len(x), func(cb func(string, interface{}) error) error {
			for k, e := range x {
				if err := cb(fmt.Sprint(k), e); err != nil {
					return err
				}
			}
			return nil
		})
	}
	v, ok := scalarNormalize(raw)
	if !ok {
		return Value{}, fmt.Errorf("property %s: unsupported value %v (%T)", name, raw, raw)
	}
	return v, nil
}

func mapNormalize(
	name string, size int, each func(func(string, interface{}) error) error,
) (Value, error) {
	m := make(map[string]Value, size)
	err := each(func(k string, e interface{}) error {
		var s string
		switch y := e.(type) {
		case string:
			s = y
		case bool:
			s = strconv.FormatBool(y)
		default:
			v, ok := scalarNormalize(e)
			if !ok || v.Kind != NumberValue {
				return fmt.Errorf("property %s: unsupported value %v (%T) for key %s", name, e, e, k)
			}
			m[k] = v
			return nil
		}
		m[k] = mapEntryNormalize(name, k, s)
		return nil
	})
	if err != nil {
		return Value{}, err
	}
	return MapOf(m), nil
}

func mapEntryNormalize(property, key, s string) Value {
	if _, ok := classKeys[key]; ok {
		for _, p := range classPrefixes[property] {
			s = strings.TrimPrefix(s, p)
		}
		return String(s)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(f)
	}
	return String(s)
}

func scalarNormalize(raw interface{}) (Value, bool) {
	switch x := raw.(type) {
	case string:
		return String(x), true
	case bool:
		return Bool(x), true
	case int:
		return Number(float64(x)), true
	case int8:
		return Number(float64(x)), true
	case int16:
		return Number(float64(x)), true
	case int32:
		return Number(float64(x)), true
	case int64:
		return Number(float64(x)), true
	case uint:
		return Number(float64(x)), true
	case uint32:
		return Number(float64(x)), true
	case uint64:
		return Number(float64(x)), true
	case float32:
		return Number(float64(x)), true
	case float64:
		return Number(x), true
	}
	return Value{}, false
}
