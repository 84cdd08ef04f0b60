package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SchemaValidator validates JSON documents against schemas in a file system
type SchemaValidator interface {
	ValidateBytes(data []byte, schemaPath string) error
}

type validator struct {
	schemaFS fs.FS
	printer  *message.Printer

	mu       sync.Mutex
	compiler *jsonschema.Compiler
	schemas  map[string]*jsonschema.Schema
}

// NewSchemaValidator creates a validator that resolves schema paths inside schemaFS.
// Compiled schemas are cached per path.
func NewSchemaValidator(schemaFS fs.FS) SchemaValidator {
	return &validator{
		schemaFS: schemaFS,
		printer:  message.NewPrinter(language.English),
		compiler: jsonschema.NewCompiler(),
		schemas:  make(map[string]*jsonschema.Schema),
	}
}

// ValidateBytes validates a JSON document against the schema at schemaPath
func (v *validator) ValidateBytes(data []byte, schemaPath string) error {
	schema, err := v.schema(schemaPath)
	if err != nil {
		return fmt.Errorf(ErrMsgLoadSchema, schemaPath, err)
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(data)))
	if err != nil {
		return fmt.Errorf(ErrMsgParseDocument, err)
	}

	if err := schema.Validate(doc); err != nil {
		return v.describe(err)
	}
	return nil
}

func (v *validator) schema(schemaPath string) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if schema, ok := v.schemas[schemaPath]; ok {
		return schema, nil
	}

	raw, err := fs.ReadFile(v.schemaFS, schemaPath)
	if err != nil {
		return nil, err
	}
	var schemaDoc interface{}
	if err := json.Unmarshal(raw, &schemaDoc); err != nil {
		return nil, err
	}
	if err := v.compiler.AddResource(schemaPath, schemaDoc); err != nil {
		return nil, err
	}
	schema, err := v.compiler.Compile(schemaPath)
	if err != nil {
		return nil, err
	}

	v.schemas[schemaPath] = schema
	return schema, nil
}

// describe flattens the validation tree into one line per leaf failure
func (v *validator) describe(err error) error {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf(ErrMsgValidation, err)
	}
	var lines []string
	v.collect(verr, &lines)
	return fmt.Errorf("%s:\n%s", ErrMsgSchemaValidationFailed, strings.Join(lines, "\n"))
}

func (v *validator) collect(err *jsonschema.ValidationError, lines *[]string) {
	if len(err.Causes) > 0 {
		for _, cause := range err.Causes {
			v.collect(cause, lines)
		}
		return
	}

	location := "(root)"
	if len(err.InstanceLocation) > 0 {
		location = "/" + strings.Join(err.InstanceLocation, "/")
	}
	if err.ErrorKind == nil {
		*lines = append(*lines, fmt.Sprintf("  - at %s: validation failed", location))
		return
	}
	keyword := strings.Join(err.ErrorKind.KeywordPath(), ".")
	*lines = append(*lines, fmt.Sprintf("  - at %s: %s: %s", location, keyword, err.ErrorKind.LocalizedString(v.printer)))
}
