package catalog

// Validation warning formats
const (
	WarnFmtEmptyList        = "catalog: %s list is empty"
	WarnFmtBlankID          = "catalog: %s entry %d has an empty id"
	WarnFmtDuplicateID      = "catalog: duplicate %s id '%s'"
	WarnFmtNoDefault        = "catalog: no default %s (is_default=true)"
	WarnFmtMultipleDefaults = "catalog: %d default %ss, only one should be default"
)

// Schema paths inside the embedded schema FS
const (
	CatalogSchemaPath = "schemas/catalog.schema.json"
)

// Loader error messages
const (
	ErrMsgReadCatalogFailed  = "failed to read catalog file: %w"
	ErrMsgParseCatalogFailed = "failed to parse catalog: %w"
	ErrMsgUnsupportedFormat  = "unsupported catalog format %q"
)
