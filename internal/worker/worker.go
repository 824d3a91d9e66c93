// Package worker runs a serialized job loop per chat: jobs for one chat are
// handled strictly in order, while a shared semaphore bounds how many chats
// may be processing at once.
package worker

import "context"

type StartOptions[J any] struct {
	Ctx    context.Context
	Sem    chan struct{}
	Jobs   <-chan J
	Handle func(context.Context, J)
}

// Start launches the loop goroutine. It drains Jobs one at a time, acquiring
// a semaphore slot before each job, and exits when Ctx is done or Jobs is
// closed.
func Start[J any](opts StartOptions[J]) {
	go func() {
		for {
			select {
			case <-opts.Ctx.Done():
				return
			case job, ok := <-opts.Jobs:
				if !ok {
					return
				}
				select {
				case opts.Sem <- struct{}{}:
				case <-opts.Ctx.Done():
					return
				}
				func() {
					defer func() { <-opts.Sem }()
					opts.Handle(opts.Ctx, job)
				}()
			}
		}
	}()
}

// Enqueue submits a job, giving up when either context ends.
func Enqueue[J any](ctx, loopCtx context.Context, jobs chan<- J, job J) error {
	if ctx == nil {
		ctx = loopCtx
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-loopCtx.Done():
		return loopCtx.Err()
	case jobs <- job:
		return nil
	}
}
