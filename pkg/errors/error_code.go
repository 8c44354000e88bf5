package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeEmptyInput           ErrorCode = 102
	ErrCodeInvalidFilter        ErrorCode = 103

	// Configuration errors (200-299)
	ErrCodeConfigReadFailed  ErrorCode = 200
	ErrCodeConfigParseFailed ErrorCode = 201

	// Analysis errors (300-399)
	ErrCodeNoSessions      ErrorCode = 300
	ErrCodeSessionNotFound ErrorCode = 301

	// Export errors (400-499)
	ErrCodeExportMarshalFailed ErrorCode = 400
	ErrCodeExportWriteFailed   ErrorCode = 401
	ErrCodeReportReadFailed    ErrorCode = 402
	ErrCodeReportIncompatible  ErrorCode = 403
	ErrCodeSchemaFailed        ErrorCode = 404

	// Store errors (500-599)
	ErrCodeStoreUnavailable ErrorCode = 500
	ErrCodeStoreQueryFailed ErrorCode = 501
	ErrCodeStoreWriteFailed ErrorCode = 502

	// Server errors (600-699)
	ErrCodeUploadFailed   ErrorCode = 600
	ErrCodeNoResultLoaded ErrorCode = 601
)
