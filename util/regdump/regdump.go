// Package regdump renders register blocks as hex words for logs and test
// failure messages.
package regdump

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/valyala/bytebufferpool"

	"github.com/tezrry/baremetal/critical"
	"github.com/tezrry/baremetal/peripheral"
)

const wordsPerLine = 4

// Words formats size bytes starting at addr, reading one 32-bit word at a
// time. addr must be 4-byte aligned; a trailing partial word is printed byte
// by byte.
func Words(addr, size uintptr) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	words := size / 4
	for i := uintptr(0); i < words; i++ {
		if i%wordsPerLine == 0 {
			if i > 0 {
				_ = buf.WriteByte('\n')
			}
			_, _ = fmt.Fprintf(buf, "%#08x:", addr+i*4)
		}
		v := atomic.LoadUint32((*uint32)(unsafe.Pointer(addr + i*4)))
		_, _ = fmt.Fprintf(buf, " %08x", v)
	}

	if tail := size % 4; tail > 0 {
		if words > 0 {
			_ = buf.WriteByte('\n')
		}
		_, _ = fmt.Fprintf(buf, "%#08x:", addr+words*4)
		for i := uintptr(0); i < tail; i++ {
			_, _ = fmt.Fprintf(buf, " %02x", *(*byte)(unsafe.Pointer(addr + words*4 + i)))
		}
	}

	return buf.String()
}

// Block formats the whole register block of p.
func Block[T any](p peripheral.Peripheral[T], cs *critical.Section) string {
	return Words(uintptr(unsafe.Pointer(p.Borrow(cs))), p.Size())
}
