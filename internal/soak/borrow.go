package soak

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/tezrry/baremetal/container/cell"
	"github.com/tezrry/baremetal/container/mutex"
	"github.com/tezrry/baremetal/critical"
	"github.com/tezrry/baremetal/irq"
	"github.com/tezrry/baremetal/link"
	"github.com/tezrry/baremetal/peripheral"
	"github.com/tezrry/baremetal/pkg/errors"
	"github.com/tezrry/baremetal/sim"
	"github.com/tezrry/baremetal/util/mmio"
	"github.com/tezrry/baremetal/util/regdump"
)

const (
	irqTimer = irq.Number(15)
	irqUART  = irq.Number(37)
)

const (
	srRXNE = 1 << 5
	srORE  = 1 << 3
)

type uartBlock struct {
	DR  peripheral.Register32
	SR  peripheral.Register32
	BRR peripheral.Register32
	CR1 peripheral.Register32
}

type ledger struct {
	Ticks      uint64
	Bytes      uint64
	MainWrites uint64
	Checksum   uint32
}

type BorrowReport struct {
	Iterations int
	TimerIRQs  uint64
	UARTIRQs   uint64
	// Conflicts counts handler borrows refused because main-line code held
	// a guard at the preemption point.
	Conflicts   uint64
	MainRefused uint64
	// Spurious counts UART interrupts taken with no byte in the data register.
	Spurious  uint64
	Ticks     uint64
	Ledger    ledger
	Core      sim.Stats
	Registers string
}

// BorrowStorm drives a simulated core whose main loop keeps read guards on a
// shared ledger across preemption points, while a timer and a UART handler
// try to update the same ledger. Every refused borrow must be accounted for:
// handler updates plus conflicts equal handler invocations.
func BorrowStorm(opts ...ConfigFunc) (BorrowReport, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return BorrowReport{}, err
	}

	region, err := mmio.Map(int(unsafe.Sizeof(uartBlock{})))
	if err != nil {
		return BorrowReport{}, fmt.Errorf("map uart: %w", err)
	}
	defer region.Close()

	var (
		uart   = peripheral.NewUnchecked[uartBlock](region.Base())
		shared = cell.NewSharedWith(ledger{})
		ticks  = mutex.New(atomic.Uint64{})
		core   = sim.New(sim.WithLogger(cfg.Logger), sim.WithNestedInterrupts(cfg.NestedInterrupts))
		report = BorrowReport{Iterations: cfg.Iterations}
	)

	err = core.Register(irqTimer, func() {
		report.TimerIRQs++
		critical.Free(core, func(cs *critical.Section) {
			ticks.Borrow(cs).Add(1)
			if !shared.Modify(cs, func(l *ledger) { l.Ticks++ }) {
				report.Conflicts++
			}
		})
	})
	if err != nil {
		return report, err
	}

	err = core.Register(irqUART, func() {
		report.UARTIRQs++
		critical.Free(core, func(cs *critical.Section) {
			regs := uart.Borrow(cs)
			if !regs.SR.HasBits(srRXNE) {
				report.Spurious++
				return
			}

			b := regs.DR.Get()
			regs.SR.ClearBits(srRXNE | srORE)
			if !shared.Modify(cs, func(l *ledger) {
				l.Bytes++
				l.Checksum += b
			}) {
				report.Conflicts++
			}
		})
	})
	if err != nil {
		return report, err
	}

	preempt := func() {
		if link.FastRand()%100 < cfg.PreemptPercent {
			core.Raise(irqTimer)
		}
	}

	critical.Free(core, func(cs *critical.Section) {
		regs := uart.Borrow(cs)
		regs.BRR.Set(0x683)
		regs.CR1.SetBits(1<<13 | 1<<5 | 1<<2)
	})

	for i := 0; i < cfg.Iterations; i++ {
		preempt()

		// the device receives a byte; the interrupt is taken on unmask
		critical.Free(core, func(cs *critical.Section) {
			regs := uart.Borrow(cs)
			if regs.SR.HasBits(srRXNE) {
				regs.SR.SetBits(srORE)
			}
			regs.DR.Set(uint32(i & 0xff))
			regs.SR.SetBits(srRXNE)
			core.Pend(irqUART)
		})

		// main-line code keeps a read guard across a preemption point
		var guard *cell.ReadGuard[ledger]
		critical.Free(core, func(cs *critical.Section) {
			guard, _ = shared.Get(cs)
		})
		preempt()
		if guard != nil {
			guard.Release()
		}

		critical.Free(core, func(cs *critical.Section) {
			if !shared.Modify(cs, func(l *ledger) { l.MainWrites++ }) {
				report.MainRefused++
			}
		})
	}

	critical.Free(core, func(cs *critical.Section) {
		report.Ticks = ticks.Borrow(cs).Load()
		shared.Read(cs, func(l *ledger) { report.Ledger = *l })
		report.Registers = regdump.Block(uart, cs)
	})
	report.Core = core.Stats()

	cfg.Logger.Infof("borrow storm: %d iterations, %d timer irqs, %d uart irqs, %d conflicts",
		report.Iterations, report.TimerIRQs, report.UARTIRQs, report.Conflicts)
	cfg.Logger.Debugf("uart registers:\n%s", report.Registers)

	if got := report.Ledger.Ticks + report.Ledger.Bytes + report.Conflicts + report.Spurious; got != report.TimerIRQs+report.UARTIRQs {
		return report, fmt.Errorf("%w: %d handler invocations but %d outcomes",
			errors.ErrContention, report.TimerIRQs+report.UARTIRQs, got)
	}
	if report.Ticks != report.TimerIRQs {
		return report, fmt.Errorf("%w: %d timer irqs but %d ticks", errors.ErrContention, report.TimerIRQs, report.Ticks)
	}
	if report.Ledger.MainWrites+report.MainRefused != uint64(report.Iterations) {
		return report, fmt.Errorf("%w: main-line writes lost", errors.ErrContention)
	}

	return report, nil
}
