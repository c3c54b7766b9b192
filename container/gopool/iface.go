package gopool

import "context"

type TaskFunc func(ctx context.Context, param ...interface{})

type Pool interface {
	// Schedule runs task on a pooled goroutine. It fails when the pool is
	// closed or, for a non-blocking pool, saturated.
	Schedule(ctx context.Context, task TaskFunc, param ...interface{}) error
	// Wait blocks until every scheduled task has returned.
	Wait()
	Running() int
	Release()
}
