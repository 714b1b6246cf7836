package logger

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings.
const (
	// Components
	FieldComponent = "component"
	FieldCategory  = "category"

	// Schema positions
	FieldFile   = "file"
	FieldLine   = "line"
	FieldColumn = "column"

	// Declarations
	FieldDecl      = "decl"
	FieldDeclKind  = "decl_kind"
	FieldMember    = "member"
	FieldNamespace = "namespace"

	// Output
	FieldOutput = "output"
	FieldBytes  = "bytes"

	// Counts and sizes
	FieldCount   = "count"
	FieldMinSize = "min_size"
	FieldMaxSize = "max_size"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"
)
