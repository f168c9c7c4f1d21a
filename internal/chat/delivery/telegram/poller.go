package telegram

import (
	"context"
	"sync"
	"time"

	pkgLog "lacri-bot/pkg/log"
	pkgTelegram "lacri-bot/pkg/telegram"
)

const pollRetryDelay = 3 * time.Second

// UpdateSource is the long-polling side of the Bot API.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64, timeout int) ([]pkgTelegram.Update, error)
}

// Poller feeds getUpdates results to a Handler, one goroutine per update.
type Poller struct {
	l          pkgLog.Logger
	source     UpdateSource
	handler    Handler
	timeout    int
	retryDelay time.Duration
}

// NewPoller creates a Poller waiting up to timeoutSeconds per getUpdates call.
func NewPoller(l pkgLog.Logger, source UpdateSource, h Handler, timeoutSeconds int) *Poller {
	return &Poller{
		l:          l,
		source:     source,
		handler:    h,
		timeout:    timeoutSeconds,
		retryDelay: pollRetryDelay,
	}
}

// SetRetryDelay overrides the pause after a failed getUpdates call.
func (p *Poller) SetRetryDelay(d time.Duration) {
	p.retryDelay = d
}

// Run polls until ctx is cancelled, then waits for in-flight updates.
func (p *Poller) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	var offset int64
	for {
		updates, err := p.source.GetUpdates(ctx, offset, p.timeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.l.Warnf(ctx, "telegram poller: getUpdates failed: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(p.retryDelay):
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			wg.Add(1)
			go func(u pkgTelegram.Update) {
				defer wg.Done()
				// Updates outlive the poll loop so a shutdown does not cut replies short.
				p.handler.ProcessUpdate(context.WithoutCancel(ctx), u)
			}(u)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}
