package columnar

import (
	"path/filepath"
)

// schemaFileName is the well-known name of a table directory's schema
// descriptor.
const schemaFileName = "schema.toml"

// Table is a directory-backed collection of columns sharing one schema.
// Every schema field has exactly one opened column, and all columns must
// report identical row counts.
type Table struct {
	Name     string
	Schema   *Schema
	BaseDir  string
	RowCount uint64
	columns  map[string]*Column
}

// OpenTable opens table name's columns, found under filepath.Join(baseDir,
// name), validating that every schema field has a column and all columns
// report the same row count.
func OpenTable(name, baseDir string, schema *Schema) (*Table, error) {
	dir := filepath.Join(baseDir, name)
	columns := make(map[string]*Column, schema.Len())
	var rowCount uint64
	first := true

	for _, field := range schema.Fields {
		colPath := filepath.Join(dir, field.Name+".col")
		col, err := OpenColumn(colPath)
		if err != nil {
			closeAll(columns)
			return nil, err
		}
		if first {
			rowCount = col.RowCount()
			first = false
		} else if col.RowCount() != rowCount {
			col.Close()
			closeAll(columns)
			return nil, newPathError(ErrSchemaMismatch, "open_table", colPath, nil)
		}
		columns[field.Name] = col
	}

	return &Table{Name: name, Schema: schema, BaseDir: dir, RowCount: rowCount, columns: columns}, nil
}

func closeAll(columns map[string]*Column) {
	for _, c := range columns {
		c.Close()
	}
}

// OpenTableDir opens table name under baseDir, reading its schema descriptor
// from the well-known schema.toml file inside filepath.Join(baseDir, name).
func OpenTableDir(name, baseDir string) (*Table, error) {
	dir := filepath.Join(baseDir, name)
	schema, err := ReadSchemaDescriptor(filepath.Join(dir, schemaFileName))
	if err != nil {
		return nil, err
	}
	return OpenTable(name, baseDir, schema)
}

// Column returns the opened column for the given field name.
func (t *Table) Column(name string) (*Column, error) {
	c, ok := t.columns[name]
	if !ok {
		return nil, newError(ErrInvalidArgument, "table_column", nil)
	}
	return c, nil
}

// Close releases every column's mapping.
func (t *Table) Close() error {
	var firstErr error
	for _, c := range t.columns {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
