package cass

/*
	Builder declares a table fluently:

		t, err := TableBuilderNew("posts").
			PartitionKey("blog_subdomain", Text).
			ClusteringKey("permalink", Text, Desc).
			Column("title", Text).
			IndexedColumn("author_id", Uuid, "").
			Set("tags", Text).
			Property("comment", "blog posts").
			Build()

	The first error sticks; later calls are no-ops and Build returns it.
*/
type Builder struct {
	t   *Table
	err error
}

func TableBuilderNew(name string) *Builder {
	return &Builder{t: TableNew(name)}
}

func (b *Builder) do(f func(*Table) error) *Builder {
	if b.err == nil {
		b.err = f(b.t)
	}
	return b
}

func (b *Builder) PartitionKey(name string, typ Type) *Builder {
	return b.do(func(t *Table) error { return t.AddPartitionKey(name, typ) })
}

func (b *Builder) ClusteringKey(name string, typ Type, order Order) *Builder {
	return b.do(func(t *Table) error { return t.AddClusteringKey(name, typ, order) })
}

func (b *Builder) Column(name string, typ Type) *Builder {
	return b.do(func(t *Table) error { return t.AddDataColumn(name, typ) })
}

func (b *Builder) IndexedColumn(name string, typ Type, index string) *Builder {
	return b.do(func(t *Table) error { return t.AddIndexedColumn(name, typ, index) })
}

func (b *Builder) List(name string, elem Type) *Builder {
	return b.do(func(t *Table) error { return t.AddList(name, elem) })
}

func (b *Builder) Set(name string, elem Type) *Builder {
	return b.do(func(t *Table) error { return t.AddSet(name, elem) })
}

func (b *Builder) Map(name string, key, value Type) *Builder {
	return b.do(func(t *Table) error { return t.AddMap(name, key, value) })
}

func (b *Builder) Property(name string, raw interface{}) *Builder {
	return b.do(func(t *Table) error { return t.AddProperty(name, raw) })
}

func (b *Builder) CompactStorage() *Builder {
	b.t.CompactStorage = true
	return b
}

func (b *Builder) Build() (*Table, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.t.Validate(); err != nil {
		return nil, err
	}
	return b.t, nil
}
