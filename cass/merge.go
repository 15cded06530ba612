package cass

/*
	Diff computes the changes turning current into desired.
	Neither table is modified. When the pair cannot be reconciled in place
	the returned error is an *InvalidSchemaMigrationError and no patch is built.

	Partition key columns are matched by name and type, a renamed
	partition column is rejected since the engine cannot rename it.

	Index additions precede index drops. When only the name of an index
	changes the patch holds AddIndex(new) before DropIndex(old), and the
	engine rejects that CREATE INDEX as a duplicate of the index still
	covering the column. Such a rename has to be applied by hand, dropping
	the old index first.
*/
func Diff(current, desired *Table) (*Patch, error) {
	if current.Name != desired.Name {
		return nil, invalidMigration(current.Name,
			"cannot rename table %s to %s", current.Name, desired.Name)
	}
	if err := mergeCheckKeys(current, desired); err != nil {
		return nil, err
	}
	if err := mergeCheckTypes(current, desired); err != nil {
		return nil, err
	}

	var changes []Change
	changes = append(changes, mergeRenames(current, desired)...)
	changes = append(changes, mergeAddedColumns(current, desired)...)
	added, dropped := mergeIndexes(current, desired)
	changes = append(changes, added...)
	changes = append(changes, dropped...)
	if c := mergeProperties(current, desired); c != nil {
		changes = append(changes, c)
	}
	return PatchNew(changes...), nil
}

func mergeCheckKeys(current, desired *Table) error {
	name := current.Name
	if len(current.PartitionKey) != len(desired.PartitionKey) {
		return invalidMigration(name,
			"partition key mismatch: %d columns in database, %d declared",
			len(current.PartitionKey), len(desired.PartitionKey))
	}
	for i, c := range current.PartitionKey {
		d := desired.PartitionKey[i]
		if c.Name != d.Name || c.Type != d.Type {
			return invalidMigration(name,
				"partition key mismatch at position %d: %s in database, %s declared",
				i, c.String(), d.String())
		}
	}
	if len(current.ClusteringKey) != len(desired.ClusteringKey) {
		return invalidMigration(name,
			"clustering key mismatch: %d columns in database, %d declared",
			len(current.ClusteringKey), len(desired.ClusteringKey))
	}
	for i, c := range current.ClusteringKey {
		d := desired.ClusteringKey[i]
		if c.Type != d.Type || c.Order != d.Order {
			return invalidMigration(name,
				"clustering key mismatch at position %d: %s %s in database, %s %s declared",
				i, c.String(), c.Order, d.String(), d.Order)
		}
	}
	return nil
}

func mergeCheckTypes(current, desired *Table) error {
	for _, c := range current.Columns() {
		d := desired.Column(c.Name)
		if d == nil {
			continue
		}
		if c.IsKey() != d.IsKey() {
			return invalidMigration(current.Name,
				"column %s cannot move from %s to %s column", c.Name, c.Kind, d.Kind)
		}
		ct, dt := c.TypeString(), d.TypeString()
		if ct == dt {
			continue
		}
		lossless := c.Kind != CollectionColumn && d.Kind != CollectionColumn &&
			c.Type.CanAlterTo(d.Type)
		if lossless {
			return invalidMigration(current.Name,
				"cannot change type of column %s from %s to %s in place", c.Name, ct, dt)
		}
		return invalidMigration(current.Name,
			"cannot change type of column %s from %s to %s: types are incompatible", c.Name, ct, dt)
	}
	return nil
}

func mergeRenames(current, desired *Table) []Change {
	var ret []Change
	for i, c := range current.ClusteringKey {
		d := desired.ClusteringKey[i]
		if c.Name != d.Name {
			ret = append(ret, RenameColumn{Table: desired.Name, From: c.Name, To: d.Name})
		}
	}
	return ret
}

// columns removed from desired are left in place
func mergeAddedColumns(current, desired *Table) []Change {
	var ret []Change
	for _, d := range desired.DataColumns {
		if current.DataColumn(d.Name) == nil {
			ret = append(ret, AddColumn{Table: desired.Name, Column: *d})
		}
	}
	return ret
}

func mergeIndexes(current, desired *Table) (added, dropped []Change) {
	for _, d := range desired.DataColumns {
		if !d.Indexed() {
			continue
		}
		c := current.DataColumn(d.Name)
		if c == nil || !c.Indexed() || c.Index != d.Index {
			added = append(added, AddIndex{Table: desired.Name, Column: d.Name, Index: d.Index})
		}
	}
	for _, c := range current.DataColumns {
		if !c.Indexed() {
			continue
		}
		d := desired.DataColumn(c.Name)
		if d == nil {
			continue
		}
		if !d.Indexed() || d.Index != c.Index {
			dropped = append(dropped, DropIndex{Table: desired.Name, Index: c.Index})
		}
	}
	return added, dropped
}

func mergeProperties(current, desired *Table) Change {
	if len(desired.Properties) == 0 || PropertiesEqual(current.Properties, desired.Properties) {
		return nil
	}
	props := make(map[string]Value, len(desired.Properties))
	for k, v := range desired.Properties {
		props[k] = v.clone()
	}
	return SetProperties{Table: desired.Name, Properties: props}
}
