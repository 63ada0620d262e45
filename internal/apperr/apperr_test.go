package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf_throughWrapping(t *testing.T) {
	inner := New(KindNotFound, "parcel not found")
	wrapped := fmt.Errorf("handler: %w", inner)

	require.Equal(t, KindNotFound, KindOf(wrapped))
	require.True(t, IsKind(wrapped, KindNotFound))
	require.False(t, IsKind(wrapped, KindValidation))
}

func TestKindOf_foreignError(t *testing.T) {
	require.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	require.Equal(t, KindUnknown, KindOf(nil))
}

func TestValidation_fields(t *testing.T) {
	err := Validation("required fields missing", "title", "sender")
	require.Equal(t, KindValidation, KindOf(err))
	require.Equal(t, []string{"title", "sender"}, FieldsOf(err))
	require.Contains(t, err.Error(), "title, sender")
}

func TestWrap_unwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindNetwork, "failed to query parcels", cause)

	require.True(t, errors.Is(err, cause))
	require.Contains(t, err.Error(), "connection reset")
}
