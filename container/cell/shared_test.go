package cell

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tezrry/baremetal/critical"
	"github.com/tezrry/baremetal/irq"
	"github.com/tezrry/baremetal/sim"
)

func TestPutReturnsPrevious(t *testing.T) {
	cs := critical.NewUnchecked()
	s := NewShared[int]()

	prev, ok := s.Put(cs, 1)
	require.False(t, ok)
	require.Zero(t, prev)

	prev, ok = s.Put(cs, 2)
	require.True(t, ok)
	require.Equal(t, 1, prev)
}

func TestGetOnEmpty(t *testing.T) {
	cs := critical.NewUnchecked()
	s := NewShared[string]()

	_, ok := s.Get(cs)
	require.False(t, ok)
	_, ok = s.GetMut(cs)
	require.False(t, ok)
	require.False(t, s.Present(cs))
	require.False(t, s.Read(cs, func(*string) { t.Fatal("read on empty cell") }))
}

func TestReadSharing(t *testing.T) {
	cs := critical.NewUnchecked()
	s := NewShared[string]()
	s.Put(cs, "v")

	g1, ok := s.Get(cs)
	require.True(t, ok)
	require.Equal(t, "v", *g1.Value())
	g1.Release()

	g2, ok := s.Get(cs)
	require.True(t, ok)
	require.Equal(t, "v", *g2.Value())

	g3, ok := s.Get(cs)
	require.True(t, ok)
	require.Equal(t, "v", *g3.Value())
	g2.Release()
	g3.Release()
}

func TestReadExcludesWrite(t *testing.T) {
	cs := critical.NewUnchecked()
	s := NewSharedWith(5)

	r, ok := s.Get(cs)
	require.True(t, ok)

	_, ok = s.GetMut(cs)
	require.False(t, ok)
	require.False(t, s.Modify(cs, func(*int) { t.Fatal("write while read") }))

	r.Release()
	w, ok := s.GetMut(cs)
	require.True(t, ok)
	w.Release()
}

func TestWriteExcludesReadAndWrite(t *testing.T) {
	cs := critical.NewUnchecked()
	s := NewSharedWith(5)

	w, ok := s.GetMut(cs)
	require.True(t, ok)

	_, ok = s.Get(cs)
	require.False(t, ok)
	_, ok = s.GetMut(cs)
	require.False(t, ok)

	w.Set(6)
	w.Release()

	require.True(t, s.Read(cs, func(v *int) { require.Equal(t, 6, *v) }))
}

func TestNestedTokensConflict(t *testing.T) {
	core := sim.New()
	s := NewSharedWith([]byte("boot"))

	critical.Free(core, func(outer *critical.Section) {
		r, ok := s.Get(outer)
		require.True(t, ok)
		defer r.Release()

		// a helper entering its own critical section holds a second token
		critical.Free(core, func(inner *critical.Section) {
			_, ok := s.GetMut(inner)
			require.False(t, ok)

			r2, ok := s.Get(inner)
			require.True(t, ok)
			r2.Release()
		})
	})

	critical.Free(core, func(cs *critical.Section) {
		require.True(t, s.Modify(cs, func(v *[]byte) { *v = append(*v, '!') }))
	})
}

func TestGuardHeldAcrossInterrupt(t *testing.T) {
	const timer = irq.Number(3)

	core := sim.New()
	s := NewSharedWith(uint32(0))

	var updates, conflicts int
	require.NoError(t, core.Register(timer, func() {
		critical.Free(core, func(cs *critical.Section) {
			if s.Modify(cs, func(v *uint32) { *v++ }) {
				updates++
			} else {
				conflicts++
			}
		})
	}))

	// main-line code leaks a write guard out of its critical section
	var leaked *WriteGuard[uint32]
	critical.Free(core, func(cs *critical.Section) {
		g, ok := s.GetMut(cs)
		require.True(t, ok)
		leaked = g
	})

	require.Equal(t, 1, core.Raise(timer))
	require.Equal(t, 0, updates)
	require.Equal(t, 1, conflicts)

	leaked.Release()
	require.Equal(t, 1, core.Raise(timer))
	require.Equal(t, 1, updates)

	critical.Free(core, func(cs *critical.Section) {
		require.True(t, s.Read(cs, func(v *uint32) { require.Equal(t, uint32(1), *v) }))
	})
}

func TestTakeResetsToZero(t *testing.T) {
	cs := critical.NewUnchecked()

	s := NewSharedWith(42)
	require.Equal(t, 42, s.Take(cs))

	g, ok := s.Get(cs)
	require.True(t, ok)
	require.Equal(t, 0, *g.Value())
	g.Release()

	empty := NewShared[[]int]()
	require.Nil(t, empty.Take(cs))
	_, ok = empty.Get(cs)
	require.False(t, ok)
}

func TestClear(t *testing.T) {
	cs := critical.NewUnchecked()
	s := NewSharedWith("x")

	prev, ok := s.Clear(cs)
	require.True(t, ok)
	require.Equal(t, "x", prev)
	require.False(t, s.Present(cs))

	_, ok = s.Clear(cs)
	require.False(t, ok)
}

func TestPutSwapsUnderReaders(t *testing.T) {
	cs := critical.NewUnchecked()
	s := NewSharedWith(1)

	r, ok := s.Get(cs)
	require.True(t, ok)

	prev, ok := s.Put(cs, 2)
	require.True(t, ok)
	require.Equal(t, 1, prev)
	require.Equal(t, 2, *r.Value())
	r.Release()
}

func BenchmarkSharedModify(b *testing.B) {
	cs := critical.NewUnchecked()
	s := NewSharedWith(0)
	for i := 0; i < b.N; i++ {
		s.Modify(cs, func(v *int) { *v++ })
	}
}
