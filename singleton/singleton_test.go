package singleton

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type timer struct {
	base uintptr
}

func newTimer() *Singleton[timer] {
	return New(func() timer { return timer{base: 0x4000_0000} })
}

func TestTakeOnce(t *testing.T) {
	s := newTimer()
	require.False(t, s.Taken())

	tm, ok := s.Take()
	require.True(t, ok)
	require.Equal(t, uintptr(0x4000_0000), tm.base)
	require.True(t, s.Taken())

	for i := 0; i < 3; i++ {
		tm, ok = s.Take()
		require.False(t, ok)
		require.Zero(t, tm)
	}
}

func TestTakeRace(t *testing.T) {
	const contenders = 64

	s := newTimer()
	var (
		wins  atomic.Int32
		start = make(chan struct{})
		wg    sync.WaitGroup
	)
	wg.Add(contenders)
	for i := 0; i < contenders; i++ {
		go func() {
			defer wg.Done()
			<-start
			if _, ok := s.Take(); ok {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Equal(t, int32(1), wins.Load())
	_, ok := s.Take()
	require.False(t, ok)
}

func TestStealAfterTake(t *testing.T) {
	s := newTimer()

	owner, ok := s.Take()
	require.True(t, ok)

	// no state check: the stolen instance aliases the owner
	stolen := s.Steal()
	require.Equal(t, owner, stolen)
	require.True(t, s.Taken())
}

func TestStealBlocksTake(t *testing.T) {
	s := newTimer()
	_ = s.Steal()

	_, ok := s.Take()
	require.False(t, ok)
}

func TestConjureLeavesState(t *testing.T) {
	var built int
	s := New(func() int {
		built++
		return built
	})

	require.Equal(t, 1, s.Conjure())
	require.False(t, s.Taken())

	v, ok := s.Take()
	require.True(t, ok)
	require.Equal(t, 2, v)

	require.Equal(t, 3, s.Conjure())
	require.True(t, s.Taken())
}

func TestNewRequiresConjure(t *testing.T) {
	require.Panics(t, func() { New[int](nil) })
}

func BenchmarkTakeTaken(b *testing.B) {
	s := newTimer()
	s.Take()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			s.Take()
		}
	})
}
