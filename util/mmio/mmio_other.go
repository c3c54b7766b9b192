//go:build !linux && !darwin && !freebsd

package mmio

import "github.com/tezrry/baremetal/pkg/errors"

func Map(size int) (*Region, error) {
	return nil, errors.ErrUnsupportedPlatform
}

func unmap(mem []byte) error {
	return errors.ErrUnsupportedPlatform
}
