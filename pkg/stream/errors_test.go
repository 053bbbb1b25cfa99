package stream

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindInvalidHandle, "InvalidHandle"},
		{KindPermission, "Permission"},
		{KindStreamClosed, "StreamClosed"},
		{KindNonBlocking, "NonBlocking"},
		{KindInterrupted, "Interrupted"},
		{KindAllocation, "Allocation"},
		{KindMalformed, "Malformed"},
		{KindMax, "Max"},
		{KindMax + 3, "Kind(10)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestErrorKindValuesAreStable(t *testing.T) {
	assert.Equal(t, ErrorKind(0), KindInvalidHandle)
	assert.Equal(t, ErrorKind(6), KindMalformed)
	assert.Equal(t, ErrorKind(7), KindMax)
	assert.False(t, KindMax.IsUserDefined())
	assert.True(t, (KindMax + 1).IsUserDefined())
}

func TestNewErrorReturnsSentinels(t *testing.T) {
	assert.Equal(t, ErrStreamClosed, NewError(KindStreamClosed))
	assert.Equal(t, ErrAllocation, NewError(KindAllocation))
	assert.True(t, errors.Is(NewError(KindMalformed), ErrMalformed))
}

func TestUserDefinedKinds(t *testing.T) {
	const kindChecksum = KindMax + 1

	err := NewError(kindChecksum)
	assert.EqualError(t, err, "stream: Kind(8)")
	assert.True(t, errors.Is(err, Error{Kind: kindChecksum}))
	assert.False(t, errors.Is(err, ErrMalformed))

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, kindChecksum, kind)
}

func TestKindOfUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("read header: %w", ErrStreamClosed)

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindStreamClosed, kind)
	assert.True(t, IsKind(wrapped, KindStreamClosed))
	assert.True(t, errors.Is(wrapped, ErrStreamClosed))

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsKind(nil, KindInvalidHandle))
}

func TestErrorCarriesNoMessage(t *testing.T) {
	assert.Equal(t, "stream: StreamClosed", ErrStreamClosed.Error())
	assert.Equal(t, "stream: NonBlocking", ErrNonBlocking.Error())
}
