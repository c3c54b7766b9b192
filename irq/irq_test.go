package irq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type exti uint8

const (
	exti0 exti = iota + 6
	exti1
)

func (e exti) Nr() uint8 { return uint8(e) }

func TestNr(t *testing.T) {
	var sources = []Nr{Number(0), Number(239), exti0, exti1}
	var got []uint8
	for _, s := range sources {
		got = append(got, s.Nr())
	}
	require.Equal(t, []uint8{0, 239, 6, 7}, got)
}
