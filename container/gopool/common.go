package gopool

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"
)

var taskPool = sync.Pool{New: func() any { return new(_Task) }}

func newTask(ctx context.Context, f TaskFunc, param ...any) *_Task {
	inst := taskPool.Get().(*_Task)
	inst.ctx = ctx
	inst.f = f
	inst.param = param
	return inst
}

func freeTask(task *_Task) {
	task.ctx = nil
	task.f = nil
	task.param = nil
	taskPool.Put(task)
}

type _Task struct {
	ctx   context.Context
	f     TaskFunc
	param []any
}

func (inst *_Task) run() {
	if inst.ctx.Err() != nil {
		return
	}

	inst.f(inst.ctx, inst.param...)
}

type _AntsPool struct {
	pool *ants.Pool
	wg   sync.WaitGroup
}

// NewAntsPool returns a Pool of at most size goroutines backed by ants.
// Schedule blocks while all of them are busy.
func NewAntsPool(size int) (Pool, error) {
	pool, err := ants.NewPool(size, ants.WithPreAlloc(false))
	if err != nil {
		return nil, err
	}

	return &_AntsPool{pool: pool}, nil
}

func (inst *_AntsPool) Schedule(ctx context.Context, f TaskFunc, param ...interface{}) error {
	task := newTask(ctx, f, param...)
	inst.wg.Add(1)
	err := inst.pool.Submit(func() {
		defer inst.wg.Done()
		defer freeTask(task)
		task.run()
	})
	if err != nil {
		inst.wg.Done()
		freeTask(task)
		return err
	}

	return nil
}

func (inst *_AntsPool) Wait() {
	inst.wg.Wait()
}

func (inst *_AntsPool) Running() int {
	return inst.pool.Running()
}

func (inst *_AntsPool) Release() {
	inst.pool.Release()
}
