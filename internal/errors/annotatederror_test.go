package errors

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnnotatedError_Error(t *testing.T) {
	sentinel := NewSentinel("sentinel")

	err := Wrap(sentinel, "wrapped", slog.String("key", "value"))
	require.Equal(t, "wrapped: sentinel", err.Error())
	require.True(t, Is(err, sentinel), "wrapped sentinel should be detectable with Is")

	err = Wrap(err, "outer")
	require.Equal(t, "outer: wrapped: sentinel", err.Error())
	require.True(t, Is(err, sentinel), "doubly wrapped sentinel should be detectable with Is")
}

func TestAnnotatedError_LogValue(t *testing.T) {
	err := Wrap(New("inner", slog.Int("answer", 42)), "outer")

	var annotated AnnotatedError
	require.True(t, As(err, &annotated))

	rendered := annotated.LogValue().String()
	require.Contains(t, rendered, "outer: inner")
	require.Contains(t, rendered, "answer")
	// The source location should point at this test file.
	require.True(t, strings.Contains(rendered, "annotatederror_test.go"), "source location missing: %s", rendered)
}
