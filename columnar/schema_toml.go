package columnar

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// schemaDescriptor is the top-level TOML document persisted alongside a
// table's column files.
type schemaDescriptor struct {
	Fields []tomlField `toml:"fields"`
}

// tomlField maps one [[fields]] block. Default values are stored as a hex
// string rather than raw bytes, since TOML has no native byte-string type.
type tomlField struct {
	Name      string            `toml:"name"`
	Type      string            `toml:"type"`
	ElemSize  uint8             `toml:"elem_size,omitempty"`
	Precision uint8             `toml:"precision,omitempty"`
	Scale     uint8             `toml:"scale,omitempty"`
	Nullable  bool              `toml:"nullable"`
	Default   string            `toml:"default,omitempty"`
	Metadata  map[string]string `toml:"metadata,omitempty"`
}

// WriteSchemaDescriptor serializes schema to path as TOML.
func WriteSchemaDescriptor(schema *Schema, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return newPathError(ErrIO, "write_schema_descriptor", path, err)
	}
	defer f.Close()

	doc := schemaDescriptor{Fields: make([]tomlField, 0, len(schema.Fields))}
	for _, field := range schema.Fields {
		tf := tomlField{
			Name:     field.Name,
			Type:     field.Type.Kind.String(),
			Nullable: field.Nullable,
			Metadata: field.Metadata,
		}
		switch field.Type.Kind {
		case KindFixedBinary:
			tf.ElemSize = field.Type.ElemSize
		case KindDecimal:
			tf.Precision = field.Type.Precision
			tf.Scale = field.Type.Scale
		}
		if field.Default != nil {
			tf.Default = hex.EncodeToString(field.Default)
		}
		doc.Fields = append(doc.Fields, tf)
	}

	if err := toml.NewEncoder(f).Encode(&doc); err != nil {
		return newPathError(ErrIO, "write_schema_descriptor", path, err)
	}
	return nil
}

// ReadSchemaDescriptor parses the TOML schema descriptor at path.
func ReadSchemaDescriptor(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newPathError(ErrIO, "read_schema_descriptor", path, err)
	}
	defer f.Close()
	return decodeSchemaDescriptor(f, path)
}

func decodeSchemaDescriptor(r io.Reader, path string) (*Schema, error) {
	var doc schemaDescriptor
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, newPathError(ErrSchemaMismatch, "read_schema_descriptor", path, err)
	}

	fields := make([]Field, 0, len(doc.Fields))
	for _, tf := range doc.Fields {
		kind, err := parseKindName(tf.Type)
		if err != nil {
			return nil, newPathError(ErrSchemaMismatch, "read_schema_descriptor", path, err)
		}

		dt := DataType{Kind: kind}
		switch kind {
		case KindFixedBinary:
			dt.ElemSize = tf.ElemSize
		case KindDecimal:
			dt.Precision = tf.Precision
			dt.Scale = tf.Scale
		}

		var defaultBytes []byte
		if tf.Default != "" {
			defaultBytes, err = hex.DecodeString(tf.Default)
			if err != nil {
				return nil, newPathError(ErrSchemaMismatch, "read_schema_descriptor", path, err)
			}
		}

		fields = append(fields, Field{
			Name:     tf.Name,
			Type:     dt,
			Nullable: tf.Nullable,
			Default:  defaultBytes,
			Metadata: tf.Metadata,
		})
	}

	return NewSchema(fields)
}

func parseKindName(name string) (Kind, error) {
	for k := KindBool; k <= KindDecimal; k++ {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown data type name %q", name)
}
