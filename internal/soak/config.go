package soak

import (
	"fmt"

	"github.com/tezrry/baremetal/pkg/errors"
	"github.com/tezrry/baremetal/pkg/logging"
)

type ConfigFunc func(c *Config)

type Config struct {
	// Contenders is the number of goroutines racing on Take per round.
	Contenders int
	Rounds     int
	PoolSize   int

	// Iterations is the number of main-line loop passes in BorrowStorm.
	Iterations int

	// PreemptPercent is the chance, per preemption point, that the timer
	// interrupt fires.
	PreemptPercent uint32

	NestedInterrupts bool

	Logger logging.Logger
}

func DefaultConfig() Config {
	return Config{
		Contenders:     64,
		Rounds:         100,
		PoolSize:       16,
		Iterations:     10000,
		PreemptPercent: 30,
	}
}

func (c *Config) validate() error {
	if c.Contenders < 1 {
		return fmt.Errorf("%w: Contenders MUST be greater than 0, got %d", errors.ErrInvalidConfig, c.Contenders)
	}
	if c.Rounds < 1 {
		return fmt.Errorf("%w: Rounds MUST be greater than 0, got %d", errors.ErrInvalidConfig, c.Rounds)
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("%w: PoolSize MUST be greater than 0, got %d", errors.ErrInvalidConfig, c.PoolSize)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("%w: Iterations MUST be greater than 0, got %d", errors.ErrInvalidConfig, c.Iterations)
	}
	if c.PreemptPercent > 100 {
		return fmt.Errorf("%w: PreemptPercent MUST be at most 100, got %d", errors.ErrInvalidConfig, c.PreemptPercent)
	}
	return nil
}

func newConfig(opts []ConfigFunc) (Config, error) {
	cfg := DefaultConfig()
	for _, cf := range opts {
		cf(&cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logging.GetDefaultLogger()
	}

	return cfg, cfg.validate()
}

func WithConfig(config *Config) ConfigFunc {
	return func(c *Config) {
		*c = *config
	}
}

func WithContenders(num int) ConfigFunc {
	return func(c *Config) {
		c.Contenders = num
	}
}

func WithRounds(num int) ConfigFunc {
	return func(c *Config) {
		c.Rounds = num
	}
}

func WithPoolSize(num int) ConfigFunc {
	return func(c *Config) {
		c.PoolSize = num
	}
}

func WithIterations(num int) ConfigFunc {
	return func(c *Config) {
		c.Iterations = num
	}
}

func WithPreemptPercent(v uint32) ConfigFunc {
	return func(c *Config) {
		c.PreemptPercent = v
	}
}

func WithNestedInterrupts(v bool) ConfigFunc {
	return func(c *Config) {
		c.NestedInterrupts = v
	}
}

func WithLogger(logger logging.Logger) ConfigFunc {
	return func(c *Config) {
		c.Logger = logger
	}
}
