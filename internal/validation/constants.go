package validation

// Error messages
const (
	ErrMsgLoadSchema             = "failed to load schema %s: %w"
	ErrMsgParseDocument          = "failed to parse JSON document: %w"
	ErrMsgValidation             = "validation error: %w"
	ErrMsgSchemaValidationFailed = "schema validation failed"
)
