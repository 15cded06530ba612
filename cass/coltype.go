package cass

import (
	"fmt"
	"strings"
)

// Type is a scalar CQL type.
type Type string

const (
	Ascii     Type = "ascii"
	Bigint    Type = "bigint"
	Blob      Type = "blob"
	Boolean   Type = "boolean"
	Counter   Type = "counter"
	Date      Type = "date"
	Decimal   Type = "decimal"
	Double    Type = "double"
	Duration  Type = "duration"
	Float     Type = "float"
	Inet      Type = "inet"
	Int       Type = "int"
	Smallint  Type = "smallint"
	Text      Type = "text"
	Time      Type = "time"
	Timestamp Type = "timestamp"
	Timeuuid  Type = "timeuuid"
	Tinyint   Type = "tinyint"
	Uuid      Type = "uuid"
	Varint    Type = "varint"
)

var knownTypes = map[string]Type{
	"ascii":     Ascii,
	"bigint":    Bigint,
	"blob":      Blob,
	"boolean":   Boolean,
	"counter":   Counter,
	"date":      Date,
	"decimal":   Decimal,
	"double":    Double,
	"duration":  Duration,
	"float":     Float,
	"inet":      Inet,
	"int":       Int,
	"smallint":  Smallint,
	"text":      Text,
	"varchar":   Text,
	"time":      Time,
	"timestamp": Timestamp,
	"timeuuid":  Timeuuid,
	"tinyint":   Tinyint,
	"uuid":      Uuid,
	"varint":    Varint,
}

// lossless in-place alterations besides identity and blob
var alterable = map[Type][]Type{
	Ascii:    {Text},
	Int:      {Varint},
	Bigint:   {Varint},
	Timeuuid: {Uuid},
}

func TypeLookup(name string) (Type, error) {
	t, ok := knownTypes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("unknown column type %q", name)
	}
	return t, nil
}

// CanAlterTo reports whether values of t may be reinterpreted as o without loss.
func (t Type) CanAlterTo(o Type) bool {
	if t == o {
		return true
	}
	if t == Counter {
		return false
	}
	if o == Blob {
		return true
	}
	for _, x := range alterable[t] {
		if x == o {
			return true
		}
	}
	return false
}

type CollectionKind string

const (
	NoCollection CollectionKind = ""
	List         CollectionKind = "list"
	Set          CollectionKind = "set"
	Map          CollectionKind = "map"
)

/*
	ColumnTypeParse splits a declared or catalog type string into its parts.

	"text"            -> "", text, ""
	"list<text>"      -> list, text, ""
	"map<text, int>"  -> map, int, text

	for maps the second value is the value type and the third the key type.
*/
func ColumnTypeParse(s string) (CollectionKind, Type, Type, error) {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '<')
	if open < 0 {
		t, err := TypeLookup(s)
		return NoCollection, t, "", err
	}
	if !strings.HasSuffix(s, ">") {
		return "", "", "", fmt.Errorf("malformed column type %q", s)
	}
	outer := strings.ToLower(strings.TrimSpace(s[:open]))
	inner := s[open+1 : len(s)-1]
	if strings.ContainsAny(inner, "<>") {
		return "", "", "", fmt.Errorf("nested column type %q is not supported", s)
	}
	switch CollectionKind(outer) {
	case List, Set:
		t, err := TypeLookup(inner)
		if err != nil {
			return "", "", "", fmt.Errorf("in %s: %w", s, err)
		}
		return CollectionKind(outer), t, "", nil
	case Map:
		parts := strings.Split(inner, ",")
		if len(parts) != 2 {
			return "", "", "", fmt.Errorf("map type %q needs key and value types", s)
		}
		k, err := TypeLookup(parts[0])
		if err != nil {
			return "", "", "", fmt.Errorf("in %s: %w", s, err)
		}
		v, err := TypeLookup(parts[1])
		if err != nil {
			return "", "", "", fmt.Errorf("in %s: %w", s, err)
		}
		return Map, v, k, nil
	}
	return "", "", "", fmt.Errorf("column type %q is not supported", s)
}
