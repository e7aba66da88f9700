// Package errors provides structured error handling for amanels.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO and storage errors
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category classifies an error by its code range.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file, corpus and history store errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates bad search parameters or input.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound   = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    = "ERR_102_CONFIG_INVALID"
	ErrCodeConfigPermission = "ERR_103_CONFIG_PERMISSION"

	// IO errors (200-299)
	ErrCodeFileNotFound   = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFilePermission = "ERR_202_FILE_PERMISSION"
	ErrCodeFileTooLarge   = "ERR_203_FILE_TOO_LARGE"
	ErrCodeHistoryStore   = "ERR_204_HISTORY_STORE"
	ErrCodeHistoryLocked  = "ERR_205_HISTORY_LOCKED"
	ErrCodeHistoryCorrupt = "ERR_206_HISTORY_CORRUPT"
	ErrCodeEntryNotFound  = "ERR_207_ENTRY_NOT_FOUND"

	// Validation errors (400-499)
	ErrCodeInvalidInput    = "ERR_401_INVALID_INPUT"
	ErrCodeInvalidRange    = "ERR_402_INVALID_RANGE"
	ErrCodeInvalidSkip     = "ERR_403_INVALID_SKIP"
	ErrCodeTermsEmpty      = "ERR_404_TERMS_EMPTY"
	ErrCodeUnknownLanguage = "ERR_405_UNKNOWN_LANGUAGE"
	ErrCodeInvalidPath     = "ERR_406_INVALID_PATH"
	ErrCodeUnknownFormat   = "ERR_407_UNKNOWN_FORMAT"

	// Internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeSearchFailed = "ERR_502_SEARCH_FAILED"
	ErrCodeRenderFailed = "ERR_503_RENDER_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// "ERR_402_..." -> '4'
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeHistoryCorrupt:
		return SeverityFatal
	}

	if isRetryableCode(code) {
		return SeverityWarning
	}

	return SeverityError
}

// isRetryableCode reports whether a code marks a transient condition.
func isRetryableCode(code string) bool {
	switch code {
	case ErrCodeHistoryLocked:
		return true
	default:
		return false
	}
}
