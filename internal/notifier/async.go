package notifier

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Async sends through next on a background goroutine so the caller never
// waits on the transport. Failures are logged.
type Async struct {
	next    Notifier
	lg      *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

var _ Notifier = (*Async)(nil)

// NewAsync wraps next. Each send gets its own timeout, detached from the
// caller's cancellation.
func NewAsync(next Notifier, lg *zap.Logger, timeout time.Duration) *Async {
	return &Async{next: next, lg: lg, timeout: timeout}
}

// Notify implements Notifier. It always returns nil.
func (a *Async) Notify(ctx context.Context, msg Message) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()
		if err := a.next.Notify(sendCtx, msg); err != nil {
			a.lg.Warn("notification failed",
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
		}
	}()
	return nil
}

// Wait blocks until every in-flight send has finished.
func (a *Async) Wait() {
	a.wg.Wait()
}
