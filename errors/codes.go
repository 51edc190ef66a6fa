package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Caller input errors
const (
	// ErrCodeInvalidInput indicates malformed caller input
	// (e.g. an empty bulk-insert batch, a bad registration payload).
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMalformedClaims indicates a token payload whose shape violates
	// the expected claims contract (e.g. a non-list permissions field).
	ErrCodeMalformedClaims ErrorCode = "MALFORMED_CLAIMS"
)

// Identity errors
const (
	// ErrCodeConflict indicates an application-level uniqueness violation,
	// e.g. registering a username that already exists.
	ErrCodeConflict ErrorCode = "CONFLICT"
	// ErrCodeUnauthenticated indicates bad credentials or an invalid or
	// expired token.
	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	// ErrCodeForbidden indicates a valid token with insufficient permissions.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
)

// Storage errors
const (
	// ErrCodeStorageFailure indicates a statement execution error at the
	// transactional boundary. The transaction has already been rolled back.
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeStorageFailure: true,
}

// IsRetryableCode reports whether the code may be retried by an external
// client. Nothing is retried inside the core itself.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
