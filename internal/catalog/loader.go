package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/osse101/cosmetics/internal/domain"
	"github.com/osse101/cosmetics/internal/validation"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Supported catalog file formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// File is the on-disk catalog document
type File struct {
	Version     string              `json:"version" yaml:"version"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Avatars     []domain.Definition `json:"avatars" yaml:"avatars"`
	Frames      []domain.Definition `json:"frames" yaml:"frames"`
}

// Loader reads catalog documents
type Loader interface {
	Load(path string) (*Catalog, error)
	Parse(data []byte, format string) (*Catalog, error)
}

type catalogLoader struct {
	schemaValidator validation.SchemaValidator
}

// NewLoader creates a new Loader instance
func NewLoader() Loader {
	return &catalogLoader{
		schemaValidator: validation.NewSchemaValidator(schemaFS),
	}
}

// Load reads a catalog file; the format follows the extension (.json, .yaml, .yml)
func (l *catalogLoader) Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadCatalogFailed, err)
	}

	format, err := formatFromPath(path)
	if err != nil {
		return nil, err
	}

	cat, err := l.Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes a catalog document. Both formats are checked against the
// embedded schema; YAML is converted to JSON for that.
func (l *catalogLoader) Parse(data []byte, format string) (*Catalog, error) {
	switch format {
	case FormatJSON:
	case FormatYAML:
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgParseCatalogFailed, err)
		}
		data = converted
	default:
		return nil, fmt.Errorf(ErrMsgUnsupportedFormat, format)
	}

	if err := l.schemaValidator.ValidateBytes(data, CatalogSchemaPath); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf(ErrMsgParseCatalogFailed, err)
	}
	return New(file.Avatars, file.Frames), nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func formatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf(ErrMsgUnsupportedFormat, filepath.Ext(path))
}
