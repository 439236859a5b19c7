package errors_test

import (
	"context"
	"fmt"
	"testing"

	apierrors "github.com/jrsteele09/neuroguard/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestFailure_IsKind(t *testing.T) {
	f := apierrors.NewFailure(apierrors.ErrSessionExpired, 401, "Session expired")

	require.Equal(t, "Session expired", f.Error())
	require.True(t, apierrors.Is(f, apierrors.ErrSessionExpired))
	require.False(t, apierrors.Is(f, apierrors.ErrService))
	require.Equal(t, apierrors.ErrSessionExpired, apierrors.KindOf(f))
}

func TestFailure_WrappedStillClassified(t *testing.T) {
	f := apierrors.NewFailure(apierrors.ErrValidation, 422, "a, b")
	wrapped := apierrors.Wrapf(f, "submit %s", "prediction")

	require.Equal(t, "submit prediction: a, b", wrapped.Error())
	require.True(t, apierrors.Is(wrapped, apierrors.ErrValidation))

	var target *apierrors.Failure
	require.True(t, apierrors.As(wrapped, &target))
	require.Equal(t, 422, target.Status)
}

func TestNetwork_KeepsCause(t *testing.T) {
	f := apierrors.Network(fmt.Errorf("dial: %w", context.DeadlineExceeded))

	require.True(t, apierrors.Is(f, apierrors.ErrNetwork))
	require.True(t, apierrors.Is(f, context.DeadlineExceeded))
	require.Contains(t, f.Error(), "dial")
}

func TestKindOf_PlainError(t *testing.T) {
	require.Nil(t, apierrors.KindOf(fmt.Errorf("boom")))
	require.Nil(t, apierrors.Wrapf(nil, "nothing"))
}
