package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
	"github.com/mrz1836/eureka/internal/schema"
)

const validYAMLTemplate = `
name: chore
description: Routine maintenance work
fields:
  - id: title
    label: Title
    type: text
    required: true
    min_length: 3
    max_length: 80
  - id: effort
    label: Effort
    type: number
    min: 0
    max: 8
    step: 0.5
    unit: h
    default: 2
  - id: kind
    label: Kind
    type: single-select
    options:
      - value: deps
        label: Dependencies
      - value: cleanup
        label: Cleanup
    default: cleanup
  - id: labels
    label: Labels
    type: MULTI_SELECT
    allow_custom: true
    max_selections: 3
    options:
      - value: infra
        label: Infra
    default: [infra]
  - id: due
    label: Due
    type: date
    min_date: 2024-01-01
    default: 2024-06-30
`

const validJSONTemplate = `{
  "name": "spike",
  "fields": [
    {"id": "question", "label": "Question", "type": "text", "required": true},
    {"id": "timebox", "label": "Timebox", "type": "number", "max": 16, "default": 4}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_LoadFromFile_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "chore.yaml", validYAMLTemplate)

	tmpl, err := NewLoader(dir).LoadFromFile("chore.yaml")
	require.NoError(t, err)

	assert.Equal(t, "chore", tmpl.Name)
	assert.Equal(t, "Routine maintenance work", tmpl.Description)
	require.Equal(t, 5, tmpl.Schema.Len())

	title, ok := tmpl.Schema.Field("title")
	require.True(t, ok)
	assert.True(t, title.Required)
	assert.Equal(t, schema.TextType{MinLength: schema.Ptr(3), MaxLength: schema.Ptr(80)}, title.Type)

	effort, _ := tmpl.Schema.Field("effort")
	assert.Equal(t, schema.NumberValue{Value: schema.Ptr(2.0)}, effort.DefaultValue)

	kind, _ := tmpl.Schema.Field("kind")
	assert.Equal(t, schema.FieldTypeSingleSelect, kind.Type.Key())
	assert.Equal(t, schema.SingleSelectValue{Value: "cleanup"}, kind.DefaultValue)

	labels, _ := tmpl.Schema.Field("labels")
	assert.Equal(t, schema.MultiSelectValue{Values: []string{"infra"}}, labels.DefaultValue)

	due, _ := tmpl.Schema.Field("due")
	assert.Equal(t, schema.DateValue{Value: "2024-06-30"}, due.DefaultValue)
}

func TestLoader_LoadFromFile_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "spike.json", validJSONTemplate)

	tmpl, err := NewLoader("/unused").LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "spike", tmpl.Name)
	assert.Equal(t, []string{"question", "timebox"}, fieldIDs(tmpl.Schema))
}

func TestLoader_LoadFromFile_Missing(t *testing.T) {
	_, err := NewLoader(t.TempDir()).LoadFromFile("nope.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, eurekaerrors.ErrTemplateFileMissing)
}

func TestLoader_LoadFromFile_ParseError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "name: [unterminated")
	writeFile(t, dir, "bad.json", "{")

	for _, name := range []string{"bad.yaml", "bad.json"} {
		_, err := NewLoader(dir).LoadFromFile(name)
		require.Error(t, err, name)
		assert.ErrorIs(t, err, eurekaerrors.ErrTemplateParseError, name)
	}
}

func TestLoader_Parse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		msg     string
	}{
		{
			name:    "missing name",
			content: "fields:\n  - {id: a, label: A, type: text}\n",
			wantErr: eurekaerrors.ErrTemplateNameEmpty,
		},
		{
			name:    "unknown type",
			content: "name: x\nfields:\n  - {id: a, label: A, type: color}\n",
			wantErr: eurekaerrors.ErrInvalidFieldType,
		},
		{
			name:    "constraint for another type",
			content: "name: x\nfields:\n  - {id: a, label: A, type: text, min: 3}\n",
			wantErr: eurekaerrors.ErrInvalidFieldDefinition,
			msg:     "min does not apply to TEXT fields",
		},
		{
			name:    "bad type constraint",
			content: "name: x\nfields:\n  - {id: a, label: A, type: number, min: 5, max: 1}\n",
			wantErr: eurekaerrors.ErrInvalidFieldType,
			msg:     "max must be >= min",
		},
		{
			name:    "nan bound",
			content: "name: x\nfields:\n  - {id: a, label: A, type: number, max: .nan}\n",
			wantErr: eurekaerrors.ErrInvalidFieldType,
			msg:     "max must be a finite number",
		},
		{
			name:    "nan default",
			content: "name: x\nfields:\n  - {id: a, label: A, type: number, default: .nan}\n",
			wantErr: eurekaerrors.ErrInvalidFieldValue,
		},
		{
			name:    "duplicate ids",
			content: "name: x\nfields:\n  - {id: a, label: A, type: text}\n  - {id: a, label: B, type: text}\n",
			wantErr: eurekaerrors.ErrDuplicateFieldID,
		},
		{
			name:    "default violates type",
			content: "name: x\nfields:\n  - {id: a, label: A, type: number, max: 1, default: 5}\n",
			wantErr: eurekaerrors.ErrInvalidDefaultValue,
		},
		{
			name:    "default of wrong shape",
			content: "name: x\nfields:\n  - {id: a, label: A, type: number, default: lots}\n",
			wantErr: eurekaerrors.ErrInvalidFieldValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader("").Parse([]byte(tt.content), "yaml")
			require.Error(t, err)
			require.ErrorIs(t, err, tt.wantErr)
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestLoader_LoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b-spike.json", validJSONTemplate)
	writeFile(t, dir, "a-chore.yml", validYAMLTemplate)
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o750))

	templates, err := NewLoader(dir).LoadDir(".")
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "chore", templates[0].Name)
	assert.Equal(t, "spike", templates[1].Name)
}

func TestLoader_LoadDir_Missing(t *testing.T) {
	templates, err := NewLoader(t.TempDir()).LoadDir("absent")
	require.NoError(t, err)
	assert.Empty(t, templates)
}

func TestLoader_LoadDir_FailFast(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.yaml", validYAMLTemplate)
	writeFile(t, dir, "worse.yaml", "name: [")

	_, err := NewLoader(dir).LoadDir(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, eurekaerrors.ErrTemplateParseError)
	assert.Contains(t, err.Error(), "worse.yaml")
}

func TestLoader_SaveToFile_RoundTrip(t *testing.T) {
	for _, name := range []string{"bug.yaml", "bug.json"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			l := NewLoader(dir)
			original := NewBugTemplate()

			require.NoError(t, l.SaveToFile(filepath.Join("nested", name), original))

			info, err := os.Stat(filepath.Join(dir, "nested", name))
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(filePerm), info.Mode().Perm())

			loaded, err := l.LoadFromFile(filepath.Join("nested", name))
			require.NoError(t, err)
			assert.Equal(t, original.Name, loaded.Name)
			assert.Equal(t, original.Description, loaded.Description)
			assert.True(t, original.Schema.Equal(loaded.Schema))
		})
	}
}

func TestLoader_SaveToFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	err := NewLoader(dir).SaveToFile("x.yaml", nil)
	require.ErrorIs(t, err, eurekaerrors.ErrTemplateNil)

	_, statErr := os.Stat(filepath.Join(dir, "x.yaml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, "json", detectFormat("a.json"))
	assert.Equal(t, "json", detectFormat("A.JSON"))
	assert.Equal(t, "yaml", detectFormat("a.yaml"))
	assert.Equal(t, "yaml", detectFormat("a.yml"))
	assert.Equal(t, "yaml", detectFormat("noext"))
}

func TestAtomicWrite_NoTempLeft(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.yaml")

	require.NoError(t, atomicWrite(path, []byte("one"), filePerm))
	require.NoError(t, atomicWrite(path, []byte("two"), filePerm))

	data, err := os.ReadFile(path) //nolint:gosec // test path
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func fieldIDs(s *schema.Schema) []string {
	var ids []string
	for _, f := range s.Fields() {
		ids = append(ids, f.ID)
	}
	return ids
}
