// Package soak runs long contention scenarios against the primitives to
// check their invariants hold under load.
package soak

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/tezrry/baremetal/container/gopool"
	"github.com/tezrry/baremetal/link"
	"github.com/tezrry/baremetal/pkg/errors"
	"github.com/tezrry/baremetal/singleton"
)

type TakeReport struct {
	Rounds     int
	Contenders int
	// Winners is the number of successful Take calls, summed over rounds.
	Winners int
	// Refused is the number of Take calls that found the resource taken.
	Refused int
	Steals  int
}

type resource struct {
	round int
}

// TakeRace races Contenders goroutines on Take against a fresh singleton,
// Rounds times. Exactly one Take per round may succeed; a Take after the race
// must fail and a Steal after it must still return the resource.
func TakeRace(ctx context.Context, opts ...ConfigFunc) (TakeReport, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return TakeReport{}, err
	}

	pool, err := gopool.NewAntsPool(cfg.PoolSize)
	if err != nil {
		return TakeReport{}, fmt.Errorf("create pool: %w", err)
	}
	defer pool.Release()

	report := TakeReport{Contenders: cfg.Contenders}
	for round := 0; round < cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		s := singleton.New(func() resource { return resource{round: round} })

		var wins, refused atomic.Int32
		for i := 0; i < cfg.Contenders; i++ {
			err := pool.Schedule(ctx, func(ctx context.Context, param ...interface{}) {
				link.ProcYield(jitter())
				if _, ok := s.Take(); ok {
					wins.Add(1)
				} else {
					refused.Add(1)
				}
			})
			if err != nil {
				pool.Wait()
				return report, fmt.Errorf("schedule contender: %w", err)
			}
		}
		pool.Wait()

		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.Rounds++
		report.Winners += int(wins.Load())
		report.Refused += int(refused.Load())

		if wins.Load() != 1 {
			return report, fmt.Errorf("%w: round %d had %d winners", errors.ErrContention, round, wins.Load())
		}

		if _, ok := s.Take(); ok {
			return report, fmt.Errorf("%w: round %d accepted a late Take", errors.ErrContention, round)
		}
		report.Refused++

		if r := s.Steal(); r.round != round {
			return report, fmt.Errorf("%w: round %d stole resource of round %d", errors.ErrContention, round, r.round)
		}
		report.Steals++
	}

	cfg.Logger.Infof("take race: %d rounds x %d contenders, %d winners, %d refused",
		report.Rounds, report.Contenders, report.Winners, report.Refused)
	return report, nil
}

// jitter returns a spin count in [1, 64]. runtime.procyield decrements
// before testing, so a zero count spins for about 2^32 iterations.
func jitter() uint32 {
	return 1 + link.FastRand()%64
}
