package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_WithoutCause_FormatsCategoryAndSeverity(t *testing.T) {
	err := New(CategoryConfig, SeverityFatal, "no module configured")
	require.Equal(t, "config (fatal): no module configured", err.Error())
	require.True(t, err.IsFatal())
}

func TestError_WithCause_UnwrapsToCause(t *testing.T) {
	cause := errors.New("permission denied")
	err := Wrap(cause, CategoryFileSystem, SeverityError, "failed to write page")

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "permission denied")
	require.False(t, err.IsFatal())
}

func TestError_WrappedThroughFmt_StillMatchesSiteError(t *testing.T) {
	inner := Config("no module configured")
	outer := fmt.Errorf("build: %w", inner)

	var se *SiteError
	require.True(t, errors.As(outer, &se))
	require.Equal(t, CategoryConfig, se.Category)
}

func TestWithContext_AccumulatesFields(t *testing.T) {
	err := New(CategoryNetwork, SeverityWarning, "probe failed").
		WithContext("url", "https://example.com").
		WithContext("status", 503)

	require.Equal(t, "https://example.com", err.Context["url"])
	require.Equal(t, 503, err.Context["status"])
}
