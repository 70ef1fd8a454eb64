package loggers

const (
	FieldApp       = "app"
	FieldComponent = "component"
	FieldCommand   = "command"
	FieldRunID     = "run_id"

	FieldDuration   = "duration"
	FieldErrorStack = "error_stack"
	FieldErrorCode  = "error_code"

	FieldFile        = "file"
	FieldLineNumber  = "line_number"
	FieldLineCount   = "line_count"
	FieldBucketCount = "bucket_count"
	FieldPartitionId = "partition_id"
)
