package lock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpinLock(t *testing.T) {
	var lk SpinLock
	lk.Lock()
	require.False(t, lk.TryLock())
	lk.Unlock()
	require.True(t, lk.TryLock())
	lk.Unlock()
}

func TestSpinLockExcludes(t *testing.T) {
	const workers, loops = 8, 1000

	var (
		lk      SpinLock
		counter int
		wg      sync.WaitGroup
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < loops; j++ {
				lk.Lock()
				counter++
				lk.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, workers*loops, counter)
}

func BenchmarkSpinLock(b *testing.B) {
	var lk SpinLock
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			lk.Lock()
			lk.Unlock()
		}
	})
}
