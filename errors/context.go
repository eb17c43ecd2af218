package errors

import (
	stderrors "errors"
	"maps"
)

// WithContext returns a copy of err with one more context field.
// A plain error is promoted to a PlatformError with CodeUnknown.
//
// Returns nil if err is nil.
//
// Example:
//
//	err = errors.WithContext(err, "bucket", cfg.Bucket)
func WithContext(err error, key string, value any) PlatformError {
	if err == nil {
		return nil
	}
	return WithContextMap(err, map[string]any{key: value})
}

// WithContextMap returns a copy of err with fields merged into its context.
// New fields override existing ones with the same key.
//
// Returns nil if err is nil.
func WithContextMap(err error, fields map[string]any) PlatformError {
	if err == nil {
		return nil
	}

	base := promote(err)
	merged := base.Context()
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)

	return &platformError{
		code:           base.Code(),
		classification: base.Classification(),
		message:        base.Message(),
		context:        merged,
		cause:          base.Unwrap(),
	}
}

// WithClassification returns a copy of err with its classification replaced.
//
// Returns nil if err is nil.
//
// Example:
//
//	// a missing bucket will not appear on retry
//	err = errors.WithClassification(err, errors.ClassificationPermanent)
func WithClassification(err error, classification ErrorClassification) PlatformError {
	if err == nil {
		return nil
	}

	base := promote(err)
	return &platformError{
		code:           base.Code(),
		classification: classification,
		message:        base.Message(),
		context:        base.Context(),
		cause:          base.Unwrap(),
	}
}

// promote returns the first PlatformError in err's chain, or wraps err as
// one with CodeUnknown.
func promote(err error) PlatformError {
	var platformErr PlatformError
	if stderrors.As(err, &platformErr) {
		return platformErr
	}
	return &platformError{
		code:           CodeUnknown,
		classification: ClassificationPermanent,
		message:        err.Error(),
		cause:          err,
	}
}
