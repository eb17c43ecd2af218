package errors

// ErrorCode identifies a specific failure condition.
// Codes are strings so they read well in logs and serialize naturally.
type ErrorCode string

const (
	// CodeNotFound indicates a declared path or object does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeInvalidInput indicates a malformed argument, such as an empty path
	// or an unparsable pattern.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error, such as a remote
	// store missing its bucket.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// CodeResolveFailed indicates a leaf could not enumerate its files.
	CodeResolveFailed ErrorCode = "RESOLVE_FAILED"

	// CodeArchiveFailed indicates an archive could not be read or expanded.
	CodeArchiveFailed ErrorCode = "ARCHIVE_FAILED"

	// CodeRepositoryFailed indicates a git repository could not be read.
	CodeRepositoryFailed ErrorCode = "REPOSITORY_FAILED"

	// CodeWatchFailed indicates a watch point could not be registered.
	CodeWatchFailed ErrorCode = "WATCH_FAILED"

	// CodeManifestLoadFailed indicates a collection manifest could not be read
	// or compiled.
	CodeManifestLoadFailed ErrorCode = "MANIFEST_LOAD_FAILED"

	// CodeManifestDecodeFailed indicates a manifest was read but does not
	// describe a valid collection expression.
	CodeManifestDecodeFailed ErrorCode = "MANIFEST_DECODE_FAILED"

	// CodeNetwork indicates a remote store could not be reached.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeTimeout indicates an operation exceeded its deadline.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeUnavailable indicates a remote store is temporarily unavailable.
	CodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// CodeInternal indicates an unexpected internal failure.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeNotImplemented indicates an unsupported feature, such as an unknown
	// archive compression.
	CodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// CodeUnknown is used for errors that carry no code of their own.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// ErrorClassification indicates whether a failed operation may succeed on retry.
type ErrorClassification string

const (
	// ClassificationRetryable marks transient failures.
	ClassificationRetryable ErrorClassification = "RETRYABLE"

	// ClassificationPermanent marks failures that will repeat on retry.
	ClassificationPermanent ErrorClassification = "PERMANENT"
)

// IsRetryable returns true if the classification is retryable.
func (c ErrorClassification) IsRetryable() bool {
	return c == ClassificationRetryable
}

var retryableCodes = map[ErrorCode]bool{
	CodeNetwork:     true,
	CodeTimeout:     true,
	CodeUnavailable: true,
}

// defaultClassification maps a code to its default classification.
// Unlisted codes are permanent.
func defaultClassification(code ErrorCode) ErrorClassification {
	if retryableCodes[code] {
		return ClassificationRetryable
	}
	return ClassificationPermanent
}
