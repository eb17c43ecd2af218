// Package errors provides structured errors for file collection resolution.
//
// Errors carry a code, a retry classification and optional context metadata.
// They remain compatible with the standard library (errors.Is, errors.As,
// errors.Unwrap), so a failure raised deep inside a leaf's resolution can be
// matched by callers after it has travelled unmodified through any number of
// composite collections.
//
// # Creating errors
//
//	err := errors.New(errors.CodeInvalidInput, "archive path is empty")
//	err := errors.Newf(errors.CodeNotFound, "tracked file %q missing", name)
//
// # Wrapping errors
//
//	if err := fsys.Walk(root, fn); err != nil {
//	    return false, errors.Wrap(err, errors.CodeResolveFailed, "failed to walk directory tree")
//	}
//
// # Context
//
//	err = errors.WithContext(err, "root", root)
//
// # Classification
//
// Every code has a default classification. Remote failures (network,
// timeout, unavailable) are retryable; everything else is permanent:
//
//	if errors.IsRetryable(err) {
//	    // resolve the collection again later
//	}
package errors
