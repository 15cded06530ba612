package cass

import (
	"errors"
	"strings"
	"testing"
)

func mustBuild(t *testing.T, b *Builder) *Table {
	t.Helper()
	tbl, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return tbl
}

func blogPosts(t *testing.T) *Table {
	return mustBuild(t, TableBuilderNew("posts").
		PartitionKey("blog_subdomain", Text).
		ClusteringKey("permalink", Text, Asc).
		Column("title", Text).
		IndexedColumn("body", Text, "body_idx").
		Property("comment", "v1"))
}

// fixtures exercised by the table wide properties below
func fixtures(t *testing.T) map[string]*Table {
	return map[string]*Table{
		"posts": blogPosts(t),
		"minimal": mustBuild(t, TableBuilderNew("kv").
			PartitionKey("k", Blob)),
		"composite": mustBuild(t, TableBuilderNew("events").
			PartitionKey("tenant", Uuid).
			PartitionKey("day", Date).
			ClusteringKey("at", Timestamp, Desc).
			ClusteringKey("id", Timeuuid, Asc).
			Column("payload", Blob).
			IndexedColumn("kind", Text, "").
			List("tags", Text).
			Map("attrs", Text, Int).
			Property("default_time_to_live", 86400).
			Property("compaction", map[string]string{
				"class":         "org.apache.cassandra.db.compaction.TimeWindowCompactionStrategy",
				"min_threshold": "4",
			})),
		"compact": mustBuild(t, TableBuilderNew("legacy").
			PartitionKey("id", Int).
			ClusteringKey("col", Text, Asc).
			Column("value", Blob).
			CompactStorage()),
	}
}

func mustDiff(t *testing.T, current, desired *Table) *Patch {
	t.Helper()
	p, err := Diff(current, desired)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	return p
}

func TestDiffIdentity(t *testing.T) {
	for name, tbl := range fixtures(t) {
		t.Run(name, func(t *testing.T) {
			if p := mustDiff(t, tbl, tbl); !p.Empty() {
				t.Errorf("Diff(t, t) = %v, want empty", p)
			}
			if p := mustDiff(t, tbl, tbl.Clone()); !p.Empty() {
				t.Errorf("Diff(t, clone) = %v, want empty", p)
			}
		})
	}
}

func TestDiffAddedColumn(t *testing.T) {
	for name, tbl := range fixtures(t) {
		t.Run(name, func(t *testing.T) {
			desired := tbl.Clone()
			if err := desired.AddDataColumn("added_column", Varint); err != nil {
				t.Fatal(err)
			}
			want := PatchNew(AddColumn{Table: tbl.Name, Column: *desired.Column("added_column")})
			if got := mustDiff(t, tbl, desired); !got.Equal(want) {
				t.Errorf("Diff() = %v, want %v", got, want)
			}
		})
	}
}

func TestDiffRemovedIndex(t *testing.T) {
	current := blogPosts(t)
	desired := current.Clone()
	desired.DataColumn("body").Index = ""

	want := PatchNew(DropIndex{Table: "posts", Index: "body_idx"})
	if got := mustDiff(t, current, desired); !got.Equal(want) {
		t.Errorf("Diff() = %v, want %v", got, want)
	}
}

func TestDiffClusteringRename(t *testing.T) {
	for name, tbl := range fixtures(t) {
		if len(tbl.ClusteringKey) == 0 {
			continue
		}
		t.Run(name, func(t *testing.T) {
			desired := tbl.Clone()
			last := desired.ClusteringKey[len(desired.ClusteringKey)-1]
			from := last.Name
			last.Name = "renamed_" + from

			want := PatchNew(RenameColumn{Table: tbl.Name, From: from, To: last.Name})
			if got := mustDiff(t, tbl, desired); !got.Equal(want) {
				t.Errorf("Diff() = %v, want %v", got, want)
			}
		})
	}
}

func TestDiffDroppedColumnIgnored(t *testing.T) {
	for name, tbl := range fixtures(t) {
		for _, dropped := range tbl.DataColumns {
			t.Run(name+"/"+dropped.Name, func(t *testing.T) {
				desired := tbl.Clone()
				kept := desired.DataColumns[:0]
				for _, c := range desired.DataColumns {
					if c.Name != dropped.Name {
						kept = append(kept, c)
					}
				}
				desired.DataColumns = kept

				p := mustDiff(t, tbl, desired)
				for _, c := range p.Changes() {
					switch x := c.(type) {
					case AddColumn:
						if x.Column.Name == dropped.Name {
							t.Errorf("unexpected %v", x)
						}
					case DropIndex:
						if dropped.Index != "" && x.Index == dropped.Index {
							t.Errorf("unexpected %v", x)
						}
					}
				}
				if !p.Empty() {
					t.Errorf("Diff() = %v, want empty", p)
				}
			})
		}
	}
}

func TestDiffInvalid(t *testing.T) {
	base := func() *Builder {
		return TableBuilderNew("posts").
			PartitionKey("id", Int).
			ClusteringKey("created_at", Timestamp, Asc).
			Column("title", Text)
	}
	current := mustBuild(t, base())

	tests := []struct {
		name    string
		desired *Table
		reason  string
	}{
		{
			"table rename",
			mustBuild(t, TableBuilderNew("articles").
				PartitionKey("id", Int).
				ClusteringKey("created_at", Timestamp, Asc).
				Column("title", Text)),
			"rename table",
		},
		{
			"partition key added",
			mustBuild(t, TableBuilderNew("posts").
				PartitionKey("id", Int).
				PartitionKey("region", Text).
				ClusteringKey("created_at", Timestamp, Asc).
				Column("title", Text)),
			"partition key",
		},
		{
			"partition key type",
			mustBuild(t, TableBuilderNew("posts").
				PartitionKey("id", Bigint).
				ClusteringKey("created_at", Timestamp, Asc).
				Column("title", Text)),
			"partition key",
		},
		{
			"partition key renamed",
			mustBuild(t, TableBuilderNew("posts").
				PartitionKey("post_id", Int).
				ClusteringKey("created_at", Timestamp, Asc).
				Column("title", Text)),
			"partition key",
		},
		{
			"clustering order",
			mustBuild(t, TableBuilderNew("posts").
				PartitionKey("id", Int).
				ClusteringKey("created_at", Timestamp, Desc).
				Column("title", Text)),
			"clustering",
		},
		{
			"clustering type",
			mustBuild(t, TableBuilderNew("posts").
				PartitionKey("id", Int).
				ClusteringKey("created_at", Timeuuid, Asc).
				Column("title", Text)),
			"clustering",
		},
		{
			"clustering column added",
			mustBuild(t, base().ClusteringKey("seq", Int, Asc)),
			"clustering",
		},
		{
			"clustering column removed",
			mustBuild(t, TableBuilderNew("posts").
				PartitionKey("id", Int).
				Column("title", Text)),
			"clustering",
		},
		{
			"data column type",
			mustBuild(t, TableBuilderNew("posts").
				PartitionKey("id", Int).
				ClusteringKey("created_at", Timestamp, Asc).
				Column("title", Blob)),
			"title",
		},
		{
			"data column to collection",
			mustBuild(t, TableBuilderNew("posts").
				PartitionKey("id", Int).
				ClusteringKey("created_at", Timestamp, Asc).
				List("title", Text)),
			"title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Diff(current, tt.desired)
			if err == nil {
				t.Fatalf("Diff() = %v, want error", p)
			}
			if p != nil {
				t.Errorf("Diff() returned patch %v along with error", p)
			}
			if !errors.Is(err, ErrInvalidSchemaMigration) {
				t.Errorf("errors.Is(%v, ErrInvalidSchemaMigration) = false", err)
			}
			var ism *InvalidSchemaMigrationError
			if !errors.As(err, &ism) || ism.Table != "posts" {
				t.Errorf("error %v is not an InvalidSchemaMigrationError for posts", err)
			}
			if !strings.Contains(err.Error(), tt.reason) {
				t.Errorf("error %q does not mention %q", err, tt.reason)
			}
		})
	}
}

func TestDiffSharedColumnTypeChange(t *testing.T) {
	for name, tbl := range fixtures(t) {
		for _, c := range tbl.DataColumns {
			t.Run(name+"/"+c.Name, func(t *testing.T) {
				desired := tbl.Clone()
				dc := desired.DataColumn(c.Name)
				if dc.Type == Inet {
					dc.Type = Int
				} else {
					dc.Type = Inet
				}
				if _, err := Diff(tbl, desired); !errors.Is(err, ErrInvalidSchemaMigration) {
					t.Errorf("Diff() error = %v, want invalid schema migration", err)
				}
			})
		}
	}
}

func TestDiffLosslessTypeChangeRejected(t *testing.T) {
	current := mustBuild(t, TableBuilderNew("t").PartitionKey("id", Int).Column("c", Ascii))
	desired := mustBuild(t, TableBuilderNew("t").PartitionKey("id", Int).Column("c", Text))

	_, err := Diff(current, desired)
	if !errors.Is(err, ErrInvalidSchemaMigration) {
		t.Fatalf("Diff() error = %v, want invalid schema migration", err)
	}
	if !strings.Contains(err.Error(), "in place") {
		t.Errorf("error %q should say the change cannot be done in place", err)
	}
}

func TestDiffKeyColumnMovedToData(t *testing.T) {
	current := mustBuild(t, TableBuilderNew("t").
		PartitionKey("id", Int).
		ClusteringKey("a", Text, Asc))
	desired := mustBuild(t, TableBuilderNew("t").
		PartitionKey("id", Int).
		ClusteringKey("b", Text, Asc).
		Column("a", Text))

	if _, err := Diff(current, desired); !errors.Is(err, ErrInvalidSchemaMigration) {
		t.Errorf("Diff() error = %v, want invalid schema migration", err)
	}
}

func TestDiffBlogScenario(t *testing.T) {
	current := blogPosts(t)
	desired := mustBuild(t, TableBuilderNew("posts").
		PartitionKey("blog_subdomain", Text).
		ClusteringKey("permalink", Text, Asc).
		Column("title", Text).
		Column("body", Text).
		IndexedColumn("author_id", Uuid, "").
		Property("comment", "v2"))

	want := PatchNew(
		AddColumn{Table: "posts", Column: Column{
			Name: "author_id", Kind: DataColumn, Type: Uuid, Index: "posts_author_id_idx",
		}},
		AddIndex{Table: "posts", Column: "author_id", Index: "posts_author_id_idx"},
		DropIndex{Table: "posts", Index: "body_idx"},
		SetProperties{Table: "posts", Properties: map[string]Value{"comment": String("v2")}},
	)
	got := mustDiff(t, current, desired)
	if !got.Equal(want) {
		t.Fatalf("Diff() = %v, want %v", got, want)
	}

	wantStmts := []string{
		"ALTER TABLE posts ADD author_id uuid",
		"CREATE INDEX posts_author_id_idx ON posts (author_id)",
		"DROP INDEX IF EXISTS body_idx",
		"ALTER TABLE posts WITH comment = 'v2'",
	}
	stmts := got.Statements()
	if len(stmts) != len(wantStmts) {
		t.Fatalf("Statements() = %q, want %q", stmts, wantStmts)
	}
	for i := range stmts {
		if stmts[i] != wantStmts[i] {
			t.Errorf("Statements()[%d] = %q, want %q", i, stmts[i], wantStmts[i])
		}
	}
}

func TestDiffChangeOrder(t *testing.T) {
	current := mustBuild(t, TableBuilderNew("t").
		PartitionKey("id", Int).
		ClusteringKey("a", Text, Asc).
		IndexedColumn("x", Text, "x_idx").
		Column("y", Text))
	desired := mustBuild(t, TableBuilderNew("t").
		PartitionKey("id", Int).
		ClusteringKey("b", Text, Asc).
		Column("x", Text).
		IndexedColumn("y", Text, "y_idx").
		Set("z", Int).
		Property("gc_grace_seconds", 3600))

	want := PatchNew(
		RenameColumn{Table: "t", From: "a", To: "b"},
		AddColumn{Table: "t", Column: *desired.Column("z")},
		AddIndex{Table: "t", Column: "y", Index: "y_idx"},
		DropIndex{Table: "t", Index: "x_idx"},
		SetProperties{Table: "t", Properties: map[string]Value{"gc_grace_seconds": Number(3600)}},
	)
	if got := mustDiff(t, current, desired); !got.Equal(want) {
		t.Errorf("Diff() = %v, want %v", got, want)
	}
}

func TestDiffIndexRenamed(t *testing.T) {
	current := mustBuild(t, TableBuilderNew("t").PartitionKey("id", Int).IndexedColumn("c", Text, "old_idx"))
	desired := mustBuild(t, TableBuilderNew("t").PartitionKey("id", Int).IndexedColumn("c", Text, "new_idx"))

	want := PatchNew(
		AddIndex{Table: "t", Column: "c", Index: "new_idx"},
		DropIndex{Table: "t", Index: "old_idx"},
	)
	if got := mustDiff(t, current, desired); !got.Equal(want) {
		t.Errorf("Diff() = %v, want %v", got, want)
	}
}

func TestDiffPartitionKeyRenameRejected(t *testing.T) {
	current := mustBuild(t, TableBuilderNew("posts").PartitionKey("id", Int).Column("title", Text))
	desired := mustBuild(t, TableBuilderNew("posts").PartitionKey("post_id", Int).Column("title", Text))

	p, err := Diff(current, desired)
	if err == nil {
		t.Fatalf("Diff() = %v, want error", p)
	}
	want := "invalid schema migration of table posts: " +
		"partition key mismatch at position 0: id int in database, post_id int declared"
	if err.Error() != want {
		t.Errorf("Diff() error = %q, want %q", err, want)
	}
}

func TestDiffExistingColumnIndexed(t *testing.T) {
	current := mustBuild(t, TableBuilderNew("t").PartitionKey("id", Int).Column("c", Text))
	desired := mustBuild(t, TableBuilderNew("t").PartitionKey("id", Int).IndexedColumn("c", Text, ""))

	want := PatchNew(AddIndex{Table: "t", Column: "c", Index: "t_c_idx"})
	if got := mustDiff(t, current, desired); !got.Equal(want) {
		t.Errorf("Diff() = %v, want %v", got, want)
	}
}

func TestDiffProperties(t *testing.T) {
	tbl := func(props map[string]interface{}) *Table {
		b := TableBuilderNew("t").PartitionKey("id", Int)
		for k, v := range props {
			b.Property(k, v)
		}
		return mustBuild(t, b)
	}

	tests := []struct {
		name    string
		current map[string]interface{}
		desired map[string]interface{}
		want    bool
	}{
		{"both empty", nil, nil, false},
		{"desired empty", map[string]interface{}{"comment": "x"}, nil, false},
		{"equal", map[string]interface{}{"comment": "x"}, map[string]interface{}{"comment": "x"}, false},
		{"changed", map[string]interface{}{"comment": "x"}, map[string]interface{}{"comment": "y"}, true},
		{"added", nil, map[string]interface{}{"comment": "x"}, true},
		{"extra in database", map[string]interface{}{"comment": "x", "gc_grace_seconds": 10},
			map[string]interface{}{"comment": "x"}, true},
		{
			"catalog form equals declared form",
			map[string]interface{}{"compaction": map[string]string{
				"class":              "org.apache.cassandra.db.compaction.LeveledCompactionStrategy",
				"sstable_size_in_mb": "160",
			}},
			map[string]interface{}{"compaction": map[interface{}]interface{}{
				"class":              "LeveledCompactionStrategy",
				"sstable_size_in_mb": 160,
			}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desired := tbl(tt.desired)
			p := mustDiff(t, tbl(tt.current), desired)
			if got := !p.Empty(); got != tt.want {
				t.Fatalf("Diff() = %v, want change %v", p, tt.want)
			}
			if !tt.want {
				return
			}
			sp, ok := p.Changes()[0].(SetProperties)
			if !ok || p.Len() != 1 {
				t.Fatalf("Diff() = %v, want single SetProperties", p)
			}
			if !PropertiesEqual(sp.Properties, desired.Properties) {
				t.Errorf("SetProperties carries %v, want %v", sp.Properties, desired.Properties)
			}
		})
	}
}

func TestDiffDoesNotMutate(t *testing.T) {
	current := blogPosts(t)
	desired := mustBuild(t, TableBuilderNew("posts").
		PartitionKey("blog_subdomain", Text).
		ClusteringKey("slug", Text, Asc).
		Column("title", Text).
		IndexedColumn("author_id", Uuid, "").
		Property("comment", "v2"))
	cBefore, dBefore := current.Clone(), desired.Clone()

	p := mustDiff(t, current, desired)
	for _, c := range p.Changes() {
		if sp, ok := c.(SetProperties); ok {
			sp.Properties["comment"] = String("mutated")
		}
	}

	if !mustDiff(t, cBefore, current).Empty() || !PropertiesEqual(cBefore.Properties, current.Properties) {
		t.Errorf("current table was modified")
	}
	if !mustDiff(t, dBefore, desired).Empty() || !PropertiesEqual(dBefore.Properties, desired.Properties) {
		t.Errorf("desired table was modified")
	}
}
