package logging

// Standard field names, so pipeline logs can be filtered consistently.
const (
	FieldFile       = "file_path"
	FieldKind       = "kind"
	FieldMethod     = "method"
	FieldStage      = "stage"
	FieldPage       = "page"
	FieldPages      = "pages"
	FieldEngine     = "engine"
	FieldBackend    = "backend"
	FieldCommand    = "cmd"
	FieldError      = "error"
	FieldErrorKind  = "error_kind"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldBytes      = "bytes"
	FieldWorkers    = "workers"
	FieldTraceID    = "trace_id"
	FieldOutputFile = "output_file"
	FieldLanguages  = "languages"
	FieldColorModel = "color_model"
	FieldWidth      = "width"
	FieldHeight     = "height"
)
