package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/todomd/internal/utils"
)

// ExportSchemaVersion is the schema_version written to exports.
const ExportSchemaVersion = 1

// bundledExportSchema is the JSON Schema every export must satisfy.
const bundledExportSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "todomd export",
  "type": "object",
  "additionalProperties": false,
  "required": ["schema_version", "filetype", "files"],
  "properties": {
    "schema_version": { "type": "integer", "const": 1 },
    "filetype": { "type": "string", "minLength": 1 },
    "files": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["path", "todos"],
        "properties": {
          "path": { "type": "string", "minLength": 1 },
          "todos": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "additionalProperties": false,
              "required": ["line", "comment", "context"],
              "properties": {
                "line": { "type": "integer", "minimum": 1 },
                "comment": { "type": "string", "minLength": 1 },
                "context": { "type": "string" }
              }
            }
          }
        }
      }
    }
  }
}`

var exportSchema = jsonschema.MustCompileString("todomd-export.schema.json", bundledExportSchema)

// BundledSchema returns the export JSON Schema.
func BundledSchema() []byte {
	return []byte(bundledExportSchema)
}

// Export is the JSON form of an Index.
type Export struct {
	SchemaVersion int          `json:"schema_version"`
	FileType      string       `json:"filetype"`
	Files         []ExportFile `json:"files"`
}

// ExportFile holds the todos of one file.
type ExportFile struct {
	Path  string       `json:"path"`
	Todos []ExportTodo `json:"todos"`
}

// ExportTodo is one record without the fields implied by its file.
type ExportTodo struct {
	Line    int    `json:"line"`
	Comment string `json:"comment"`
	Context string `json:"context"`
}

// NewExport converts an index into its export form.
func NewExport(idx *Index, fileType string) *Export {
	e := &Export{
		SchemaVersion: ExportSchemaVersion,
		FileType:      fileType,
		Files:         make([]ExportFile, 0, idx.Len()),
	}
	for _, path := range idx.Files() {
		recs := idx.Records(path)
		f := ExportFile{Path: path, Todos: make([]ExportTodo, 0, len(recs))}
		for _, r := range recs {
			f.Todos = append(f.Todos, ExportTodo{
				Line:    r.Line,
				Comment: r.Comment,
				Context: r.Context,
			})
		}
		e.Files = append(e.Files, f)
	}
	return e
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dot path to the error location
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks the export against the bundled schema. It returns every
// schema violation found, or nil.
func (e *Export) Validate() []error {
	data, err := json.Marshal(e)
	if err != nil {
		return []error{&ValidationError{Err: fmt.Errorf("marshal export: %w", err)}}
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return []error{&ValidationError{Err: fmt.Errorf("unmarshal export: %w", err)}}
	}
	if err := exportSchema.Validate(doc); err != nil {
		return schemaErrors(err)
	}
	return nil
}

// Marshal validates the export and returns its JSON encoding with 2-space
// indentation and a trailing newline.
func (e *Export) Marshal() ([]byte, error) {
	if errs := e.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid export: %w", errors.Join(errs...))
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return append(data, '\n'), nil
}

// Save validates the export and replaces path with it atomically.
func (e *Export) Save(path string) error {
	data, err := e.Marshal()
	if err != nil {
		return err
	}
	if err := utils.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

func schemaErrors(err error) []error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []error{err}
	}
	var out []error
	collectSchemaErrors(&out, ve)
	return out
}

func collectSchemaErrors(out *[]error, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*out = append(*out, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(out, cause)
	}
}
