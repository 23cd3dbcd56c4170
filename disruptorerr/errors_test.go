package disruptorerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewInvalidArgumentWraps(t *testing.T) {
	err := NewInvalidArgument("bufferSize must be a power of two")
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.Contains(t, err.Error(), "bufferSize must be a power of two")
}

func TestNewInsufficientCapacityWraps(t *testing.T) {
	err := NewInsufficientCapacity("ring is full")
	require.ErrorIs(t, err, ErrInsufficientCapacity)
}

func TestHandlerErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	herr := &HandlerError{Cause: cause, Sequence: 7, Slot: "slot-7"}

	require.ErrorIs(t, herr, cause)
	require.Equal(t, cause, errors.Unwrap(herr))
	require.Contains(t, herr.Error(), "sequence 7")
}
