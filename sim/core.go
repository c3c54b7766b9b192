// Package sim models a single core with maskable interrupts on the host.
//
// The model is deterministic: interrupts never fire on their own. Pend
// latches an interrupt, and pending interrupts are taken at preemption
// points, i.e. Poll, Raise, and Restore back to the unmasked state. All of
// those run on the goroutine that plays the core; only Pend and Unpend may be
// called from other goroutines, the way a peripheral raises a line.
package sim

import (
	"fmt"
	"math/bits"
	"sync/atomic"

	"github.com/tezrry/baremetal/container/lock"
	"github.com/tezrry/baremetal/critical"
	"github.com/tezrry/baremetal/irq"
	"github.com/tezrry/baremetal/pkg/errors"
	"github.com/tezrry/baremetal/pkg/logging"
)

// Handler is an interrupt service routine.
type Handler func()

const (
	stateUnmasked critical.State = 0
	stateMasked   critical.State = 1
)

type Stats struct {
	Delivered uint64
	Latched   uint64
}

type Core struct {
	config Config
	logger logging.Logger

	masked atomic.Bool
	depth  int

	lk      lock.SpinLock
	pending [MaxVectors / 64]uint64

	vectors [MaxVectors]Handler

	delivered atomic.Uint64
	latched   atomic.Uint64
}

var _ critical.Masker = (*Core)(nil)

// New returns a core with interrupts unmasked and an empty vector table.
func New(config ...ConfigFunc) *Core {
	inst := &Core{
		config: Config{
			Vectors:          MaxVectors,
			NestedInterrupts: false,
		},
	}

	for _, cf := range config {
		cf(&inst.config)
	}

	if inst.config.Vectors < 1 || inst.config.Vectors > MaxVectors {
		panic(fmt.Errorf("Vectors MUST be in [1, %d], got %d", MaxVectors, inst.config.Vectors))
	}

	inst.logger = inst.config.Logger
	if inst.logger == nil {
		inst.logger = logging.GetDefaultLogger()
	}

	return inst
}

// Register installs h on the vector named by n.
func (inst *Core) Register(n irq.Nr, h Handler) error {
	if h == nil {
		return errors.ErrNilHandler
	}

	nr := int(n.Nr())
	if nr >= inst.config.Vectors {
		return fmt.Errorf("register irq %d: %w", nr, errors.ErrInvalidVector)
	}

	if inst.vectors[nr] != nil {
		return fmt.Errorf("register irq %d: %w", nr, errors.ErrVectorInUse)
	}

	inst.vectors[nr] = h
	return nil
}

// Disable masks interrupts and returns the previous mask state.
func (inst *Core) Disable() critical.State {
	if inst.masked.Swap(true) {
		return stateMasked
	}
	return stateUnmasked
}

// Restore reinstates a state returned by Disable. Unmasking is a preemption
// point.
func (inst *Core) Restore(state critical.State) {
	if state != stateUnmasked {
		inst.masked.Store(true)
		return
	}

	inst.masked.Store(false)
	inst.Poll()
}

func (inst *Core) Masked() bool {
	return inst.masked.Load()
}

// Depth is the number of handlers currently on the simulated stack.
func (inst *Core) Depth() int {
	return inst.depth
}

// Pend latches the interrupt n. Vectors outside the table are ignored.
func (inst *Core) Pend(n irq.Nr) {
	nr := n.Nr()
	if int(nr) >= inst.config.Vectors {
		inst.logger.Warnf("pend irq %d: vector out of range", nr)
		return
	}

	inst.lk.Lock()
	inst.pending[nr>>6] |= 1 << (nr & 63)
	inst.lk.Unlock()

	if inst.Masked() {
		inst.latched.Add(1)
		inst.logger.Debugf("irq %d latched while masked", nr)
	}
}

func (inst *Core) Unpend(n irq.Nr) {
	nr := n.Nr()
	inst.lk.Lock()
	inst.pending[nr>>6] &^= 1 << (nr & 63)
	inst.lk.Unlock()
}

func (inst *Core) IsPending(n irq.Nr) bool {
	nr := n.Nr()
	inst.lk.Lock()
	ret := inst.pending[nr>>6]&(1<<(nr&63)) != 0
	inst.lk.Unlock()
	return ret
}

// next clears and returns the lowest pending vector.
func (inst *Core) next() (uint8, bool) {
	inst.lk.Lock()
	defer inst.lk.Unlock()

	for i, word := range inst.pending {
		if word == 0 {
			continue
		}

		bit := bits.TrailingZeros64(word)
		inst.pending[i] &^= 1 << bit
		return uint8(i<<6 + bit), true
	}

	return 0, false
}

func (inst *Core) preemptible() bool {
	if inst.Masked() {
		return false
	}
	return inst.depth == 0 || inst.config.NestedInterrupts
}

// Poll is a preemption point: when interrupts are unmasked, every pending
// interrupt is taken, lowest vector first. It returns the number of handlers
// that ran.
func (inst *Core) Poll() int {
	var ret int
	for inst.preemptible() {
		nr, ok := inst.next()
		if !ok {
			break
		}

		h := inst.vectors[nr]
		if h == nil {
			inst.logger.Warnf("irq %d pending without a handler, dropped", nr)
			continue
		}

		inst.depth++
		inst.logger.Debugf("irq %d enter, depth %d", nr, inst.depth)
		h()
		inst.logger.Debugf("irq %d exit", nr)
		inst.depth--

		inst.delivered.Add(1)
		ret++
	}

	return ret
}

// Raise fires n at the current instruction: it is Pend followed by Poll.
func (inst *Core) Raise(n irq.Nr) int {
	inst.Pend(n)
	return inst.Poll()
}

func (inst *Core) Stats() Stats {
	return Stats{
		Delivered: inst.delivered.Load(),
		Latched:   inst.latched.Load(),
	}
}
