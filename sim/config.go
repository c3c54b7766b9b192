package sim

import "github.com/tezrry/baremetal/pkg/logging"

// MaxVectors is the size of the vector table addressable through irq.Nr.
const MaxVectors = 256

type ConfigFunc func(c *Config)

type Config struct {
	// Vectors is the number of usable interrupt vectors, [1, MaxVectors].
	Vectors int

	// NestedInterrupts lets a pending interrupt preempt a running handler
	// when that handler unmasks. Off by default: handlers run to completion.
	NestedInterrupts bool

	Logger logging.Logger
}

func WithConfig(config *Config) ConfigFunc {
	return func(c *Config) {
		*c = *config
	}
}

func WithVectors(num int) ConfigFunc {
	return func(c *Config) {
		c.Vectors = num
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
