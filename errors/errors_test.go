package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeInvalidInput, "root is empty")

	require.Equal(t, CodeInvalidInput, err.Code())
	require.Equal(t, ClassificationPermanent, err.Classification())
	require.Equal(t, "root is empty", err.Message())
	require.Nil(t, err.Context())
	require.Nil(t, err.Unwrap())
	require.Equal(t, "[INVALID_INPUT] root is empty", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(CodeNotFound, "object %q missing", "a/b.txt")
	require.Equal(t, `[NOT_FOUND] object "a/b.txt" missing`, err.Error())
}

func TestWrap(t *testing.T) {
	cause := fs.ErrNotExist
	err := Wrap(cause, CodeResolveFailed, "failed to walk")

	require.Equal(t, CodeResolveFailed, err.Code())
	require.True(t, stderrors.Is(err, fs.ErrNotExist))
	require.Equal(t, "[RESOLVE_FAILED] failed to walk: file does not exist", err.Error())
}

func TestWrap_Nil(t *testing.T) {
	require.Nil(t, Wrap(nil, CodeInternal, "unused"))
	require.Nil(t, Wrapf(nil, CodeInternal, "unused %d", 1))
	require.Nil(t, WrapWithContext(nil, CodeInternal, "unused", map[string]any{"k": "v"}))
}

func TestWrap_PreservesClassification(t *testing.T) {
	inner := New(CodeNetwork, "connection reset")
	outer := Wrap(inner, CodeResolveFailed, "failed to list objects")

	require.Equal(t, CodeResolveFailed, outer.Code())
	require.Equal(t, ClassificationRetryable, outer.Classification())
	require.True(t, IsRetryable(outer))
}

func TestWrapWithContext_CopiesMap(t *testing.T) {
	ctx := map[string]any{"archive": "dist.tar"}
	err := WrapWithContext(fs.ErrInvalid, CodeArchiveFailed, "bad entry", ctx)

	ctx["archive"] = "mutated"
	require.Equal(t, "dist.tar", err.Context()["archive"])

	got := err.Context()
	got["archive"] = "mutated again"
	require.Equal(t, "dist.tar", err.Context()["archive"])
}

func TestWithContext(t *testing.T) {
	err := WithContext(New(CodeWatchFailed, "add failed"), "path", "/src")
	err = WithContext(err, "op", "add")

	require.Equal(t, CodeWatchFailed, err.Code())
	require.Equal(t, map[string]any{"path": "/src", "op": "add"}, err.Context())
}

func TestWithContext_PromotesPlainError(t *testing.T) {
	plain := stderrors.New("boom")
	err := WithContext(plain, "k", 1)

	require.Equal(t, CodeUnknown, err.Code())
	require.Equal(t, "boom", err.Message())
	require.True(t, stderrors.Is(err, plain))
}

func TestWithContextMap_Overrides(t *testing.T) {
	err := WithContextMap(New(CodeInternal, "x"), map[string]any{"a": 1, "b": 2})
	err = WithContextMap(err, map[string]any{"b": 3})

	require.Equal(t, map[string]any{"a": 1, "b": 3}, err.Context())
	require.Nil(t, WithContextMap(nil, map[string]any{"a": 1}))
}

func TestWithClassification(t *testing.T) {
	err := New(CodeNetwork, "bucket missing")
	require.True(t, IsRetryable(err))

	err = WithClassification(err, ClassificationPermanent)
	require.False(t, IsRetryable(err))
	require.Equal(t, CodeNetwork, err.Code())
	require.Nil(t, WithClassification(nil, ClassificationRetryable))
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "platform error", err: New(CodeNotFound, "x"), want: CodeNotFound},
		{name: "outermost wins", err: Wrap(New(CodeTimeout, "x"), CodeResolveFailed, "y"), want: CodeResolveFailed},
		{name: "fmt wrapped", err: fmt.Errorf("ctx: %w", New(CodeArchiveFailed, "x")), want: CodeArchiveFailed},
		{name: "plain error", err: stderrors.New("x"), want: CodeUnknown},
		{name: "nil", err: nil, want: CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, GetCode(tt.err))
		})
	}
}

func TestGetClassification(t *testing.T) {
	require.Equal(t, ClassificationPermanent, GetClassification(nil))
	require.Equal(t, ClassificationPermanent, GetClassification(stderrors.New("x")))
	require.Equal(t, ClassificationRetryable, GetClassification(New(CodeUnavailable, "x")))
	require.Equal(t, ClassificationRetryable, GetClassification(New(CodeTimeout, "x")))
	require.Equal(t, ClassificationPermanent, GetClassification(New(CodeResolveFailed, "x")))
}

func TestIsAs(t *testing.T) {
	sentinel := New(CodeNotFound, "not found")
	wrapped := Wrap(sentinel, CodeResolveFailed, "resolve")

	require.True(t, Is(wrapped, sentinel))
	require.False(t, Is(wrapped, New(CodeNotFound, "not found")))

	var platformErr PlatformError
	require.True(t, As(wrapped, &platformErr))
	require.Equal(t, CodeResolveFailed, platformErr.Code())
}
