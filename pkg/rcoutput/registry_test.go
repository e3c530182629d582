package rcoutput

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryAttachDetach(t *testing.T) {
	f := &fakeFactory{}
	reg := NewRegistry(4, f)
	require.Equal(t, 4, reg.TotalPins())

	_, ok := reg.Get(2)
	require.False(t, ok)

	require.NoError(t, reg.Attach(2))
	tx, ok := reg.Get(2)
	require.True(t, ok)
	require.Same(t, f.last(2), tx)
	require.Equal(t, []byte{2}, reg.Attached())

	require.NoError(t, reg.Detach(2))
	require.True(t, f.last(2).closed)
	_, ok = reg.Get(2)
	require.False(t, ok)
	require.Empty(t, reg.Attached())

	// detaching again is a no-op.
	require.NoError(t, reg.Detach(2))
	require.Len(t, f.created, 1)
}

func TestRegistryAttachReplaces(t *testing.T) {
	f := &fakeFactory{}
	reg := NewRegistry(4, f)
	require.NoError(t, reg.Attach(1))
	require.NoError(t, reg.Attach(1))
	require.Len(t, f.created, 2)
	require.True(t, f.created[0].closed)
	require.False(t, f.created[1].closed)
	tx, ok := reg.Get(1)
	require.True(t, ok)
	require.Same(t, f.created[1], tx)
	require.Equal(t, []byte{1}, reg.Attached())
}

func TestRegistryOutOfRange(t *testing.T) {
	reg := NewRegistry(4, &fakeFactory{})
	require.False(t, reg.HasPin(4))
	err := reg.Attach(4)
	require.True(t, errors.Is(err, ErrPinOutOfRange), "got %v", err)
	require.NoError(t, reg.Detach(200))
	_, ok := reg.Get(200)
	require.False(t, ok)
}

func TestRegistryFactoryError(t *testing.T) {
	reg := NewRegistry(4, &fakeFactory{err: errFactory})
	err := reg.Attach(0)
	require.True(t, errors.Is(err, errFactory), "got %v", err)
	_, ok := reg.Get(0)
	require.False(t, ok)
}

func TestRegistryReset(t *testing.T) {
	f := &fakeFactory{}
	reg := NewRegistry(0, f)
	require.Equal(t, DefaultTotalPins, reg.TotalPins())
	for _, pin := range []byte{0, 5, 19} {
		require.NoError(t, reg.Attach(pin))
	}
	f.last(5).closeErr = errors.New("stuck")
	err := reg.Reset()
	require.Error(t, err)
	require.Contains(t, err.Error(), "stuck")
	require.Empty(t, reg.Attached())
	for _, tx := range f.created {
		require.True(t, tx.closed)
	}
	require.NoError(t, reg.Reset())
}
