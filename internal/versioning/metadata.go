package versioning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// VersionMetadataSchema captures the JSON schema used to validate version
// metadata documents. Values are restricted to scalars so metadata stays a
// flat string-keyed map.
var VersionMetadataSchema = map[string]any{
	"type": "object",
	"additionalProperties": map[string]any{
		"type": []any{"string", "number", "integer", "boolean", "null"},
	},
}

var (
	metadataSchemaOnce     sync.Once
	metadataSchemaCompiled *jsonschema.Schema
	metadataSchemaErr      error
)

func compiledMetadataSchema() (*jsonschema.Schema, error) {
	metadataSchemaOnce.Do(func() {
		encoded, err := json.Marshal(VersionMetadataSchema)
		if err != nil {
			metadataSchemaErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("version_metadata.json", bytes.NewReader(encoded)); err != nil {
			metadataSchemaErr = err
			return
		}
		metadataSchemaCompiled, metadataSchemaErr = compiler.Compile("version_metadata.json")
	})
	return metadataSchemaCompiled, metadataSchemaErr
}

// ValidateMetadata checks a metadata document against VersionMetadataSchema.
// The document is round-tripped through JSON so arbitrary Go values are
// normalized before validation.
func ValidateMetadata(metadata map[string]any) error {
	if len(metadata) == 0 {
		return nil
	}
	schema, err := compiledMetadataSchema()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMetadataInvalid, err)
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMetadataInvalid, err)
	}
	var doc any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMetadataInvalid, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMetadataInvalid, err)
	}
	return nil
}
