package logger

// Standard field names for structured logging.
const (
	FieldRunID     = "run_id"
	FieldComponent = "component"
	FieldTable     = "table"
	FieldSubtype   = "subtype"
	FieldAncestor  = "ancestor"
	FieldRenderer  = "renderer"
	FieldNamespace = "namespace"
	FieldFile      = "file"
	FieldCount     = "count"
	FieldSize      = "size"
	FieldSkipped   = "skipped"
	FieldError     = "error"
	FieldSQL       = "sql"

	FieldDurationMS = "duration_ms"
)
