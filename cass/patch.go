package cass

import (
	"fmt"
	"strings"
)

// Change is one discrete schema change rendering to exactly one statement.
// The set of changes is closed; see the types below.
type Change interface {
	Statement() string
	String() string
	equal(Change) bool
}

type AddColumn struct {
	Table  string
	Column Column
}

type RenameColumn struct {
	Table string
	From  string
	To    string
}

type AddIndex struct {
	Table  string
	Column string
	Index  string
}

type DropIndex struct {
	Table string
	Index string
}

// SetProperties carries the complete desired property map,
// partial property statements are not meaningful.
type SetProperties struct {
	Table      string
	Properties map[string]Value
}

func (c AddColumn) Statement() string    { return StmtAddColumn(c.Table, &c.Column) }
func (c RenameColumn) Statement() string { return StmtRenameColumn(c.Table, c.From, c.To) }
func (c AddIndex) Statement() string     { return StmtCreateIndex(c.Table, c.Column, c.Index) }
func (c DropIndex) Statement() string    { return StmtDropIndex(c.Index) }
func (c SetProperties) Statement() string {
	return StmtSetProperties(c.Table, c.Properties)
}

func (c AddColumn) String() string {
	return fmt.Sprintf("AddColumn(%s, %s)", c.Table, c.Column.String())
}

func (c RenameColumn) String() string {
	return fmt.Sprintf("RenameColumn(%s, %s -> %s)", c.Table, c.From, c.To)
}

func (c AddIndex) String() string {
	return fmt.Sprintf("AddIndex(%s, %s, %s)", c.Table, c.Column, c.Index)
}

func (c DropIndex) String() string {
	return fmt.Sprintf("DropIndex(%s, %s)", c.Table, c.Index)
}

func (c SetProperties) String() string {
	return fmt.Sprintf("SetProperties(%s, {%s})",
		c.Table, strings.Join(stmtProperties(c.Properties), ", "))
}

func (c AddColumn) equal(o Change) bool {
	x, ok := o.(AddColumn)
	return ok && c == x
}

func (c RenameColumn) equal(o Change) bool {
	x, ok := o.(RenameColumn)
	return ok && c == x
}

func (c AddIndex) equal(o Change) bool {
	x, ok := o.(AddIndex)
	return ok && c == x
}

func (c DropIndex) equal(o Change) bool {
	x, ok := o.(DropIndex)
	return ok && c == x
}

func (c SetProperties) equal(o Change) bool {
	x, ok := o.(SetProperties)
	return ok && c.Table == x.Table && PropertiesEqual(c.Properties, x.Properties)
}

func ChangeEqual(a, b Change) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.equal(b)
}

// Patch is an immutable ordered list of changes.
type Patch struct {
	changes []Change
}

func PatchNew(changes ...Change) *Patch {
	p := &Patch{changes: make([]Change, len(changes))}
	copy(p.changes, changes)
	return p
}

func (p *Patch) Changes() []Change {
	ret := make([]Change, len(p.changes))
	copy(ret, p.changes)
	return ret
}

func (p *Patch) Len() int {
	return len(p.changes)
}

func (p *Patch) Empty() bool {
	return len(p.changes) == 0
}

func (p *Patch) Equal(o *Patch) bool {
	if p == nil || o == nil {
		return p == o
	}
	if len(p.changes) != len(o.changes) {
		return false
	}
	for i := range p.changes {
		if !ChangeEqual(p.changes[i], o.changes[i]) {
			return false
		}
	}
	return true
}

func (p *Patch) Statements() []string {
	ret := make([]string, len(p.changes))
	for i, c := range p.changes {
		ret[i] = c.Statement()
	}
	return ret
}

func (p *Patch) String() string {
	s := make([]string, len(p.changes))
	for i, c := range p.changes {
		s[i] = c.String()
	}
	return "[" + strings.Join(s, ", ") + "]"
}
