package columnar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaDescriptorRoundTrip(t *testing.T) {
	schema, err := NewSchema([]Field{
		{Name: "id", Type: U64()},
		{Name: "age", Type: U8(), Nullable: true, Default: []byte{0}},
		{Name: "name", Type: StringType()},
		{Name: "amount", Type: Decimal(10, 2)},
		{Name: "token", Type: FixedBinary(16)},
		{Name: "tags", Type: StringType(), Metadata: map[string]string{"purpose": "searchable"}},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "schema.toml")
	require.NoError(t, WriteSchemaDescriptor(schema, path))

	decoded, err := ReadSchemaDescriptor(path)
	require.NoError(t, err)

	require.Equal(t, schema.Len(), decoded.Len())
	for i := range schema.Fields {
		want := schema.Fields[i]
		got := decoded.Fields[i]
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Type, got.Type)
		assert.Equal(t, want.Nullable, got.Nullable)
		assert.Equal(t, want.Default, got.Default)
		assert.Equal(t, want.Metadata, got.Metadata)
	}
}

func TestReadSchemaDescriptorRejectsUnknownType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	content := "[[fields]]\nname = \"x\"\ntype = \"not_a_real_type\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := ReadSchemaDescriptor(path)
	require.Error(t, err)
}
