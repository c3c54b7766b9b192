//go:build linux || darwin || freebsd

package mmio

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tezrry/baremetal/pkg/errors"
)

func TestMap(t *testing.T) {
	r, err := Map(10)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, os.Getpagesize(), r.Len())
	require.NotZero(t, r.Base())
	require.Zero(t, r.Base()%uintptr(os.Getpagesize()))
	require.Equal(t, r.Base()+8, r.At(8))
	require.Panics(t, func() { r.At(uintptr(r.Len())) })

	for _, b := range r.Bytes() {
		require.Zero(t, b)
	}
	r.Bytes()[3] = 0x7f
	require.Equal(t, byte(0x7f), r.Bytes()[3])
}

func TestMapInvalidSize(t *testing.T) {
	_, err := Map(0)
	require.ErrorIs(t, err, errors.ErrInvalidRegionSize)
}

func TestCloseTwice(t *testing.T) {
	r, err := Map(1)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.ErrorIs(t, r.Close(), errors.ErrRegionClosed)
	require.Panics(t, func() { r.At(0) })
}
