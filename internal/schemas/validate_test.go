package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedSchema = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"required": ["stage", "apn"],
		"properties": {
			"stage": {"type": "string", "enum": ["TAX_DELINQUENCY"]},
			"apn": {"type": "string", "pattern": "^\\d{2}-\\d{4}-\\d{2}$"}
		}
	}
}`

func TestValidateJSONString_Valid(t *testing.T) {
	doc := `[{"stage": "TAX_DELINQUENCY", "apn": "15-0211-06"}]`
	assert.NoError(t, ValidateJSONString(seedSchema, doc))
}

func TestValidateJSONString_FieldErrors(t *testing.T) {
	doc := `[{"stage": "TAX_DELINQUENCY", "apn": "not-a-parcel"}]`

	err := ValidateJSONString(seedSchema, doc)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Errors, 1)
	assert.Contains(t, ve.Errors[0].Field, "apn")
}

func TestValidateJSONString_MissingRequired(t *testing.T) {
	doc := `[{"stage": "TAX_DELINQUENCY"}]`

	var ve *ValidationError
	require.ErrorAs(t, ValidateJSONString(seedSchema, doc), &ve)
	assert.NotEmpty(t, ve.Errors)
}

func TestValidateJSONString_EmptyArrayRejected(t *testing.T) {
	var ve *ValidationError
	require.ErrorAs(t, ValidateJSONString(seedSchema, `[]`), &ve)
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 42}`, `[]`)
	require.Error(t, err)

	var le *SchemaLoadError
	assert.ErrorAs(t, err, &le)
}

func TestValidateJSON_SeedFileMatchesSchema(t *testing.T) {
	schemaPath := ResolveSchemaPath("schemas/seed_records.schema.json")
	require.NotEmpty(t, schemaPath, "schema file should resolve from test working directory")

	seedPath := ResolveSchemaPath("data/seed_tax_examples.json")
	require.NotEmpty(t, seedPath)

	assert.NoError(t, ValidateJSON(schemaPath, seedPath))
}

func TestResolveSchemaPath_Missing(t *testing.T) {
	assert.Equal(t, "", ResolveSchemaPath("schemas/does_not_exist.json"))
}
