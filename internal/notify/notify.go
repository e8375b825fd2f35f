package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

const defaultTimeout = 10 * time.Second

type Channel interface {
	Name() string
	Send(ctx context.Context, receipt domain.Receipt) error
}

// Dispatcher fans a committed receipt out to every channel. Delivery is
// best effort: failures are logged and never reach the buyer.
type Dispatcher struct {
	pool     *WorkerPool
	channels []Channel
	timeout  time.Duration
}

func NewDispatcher(pool *WorkerPool, channels ...Channel) *Dispatcher {
	return &Dispatcher{
		pool:     pool,
		channels: channels,
		timeout:  defaultTimeout,
	}
}

func (d *Dispatcher) Notify(ctx context.Context, receipt domain.Receipt) {
	if len(d.channels) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)

	task := func() error {
		ctx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()
		return d.send(ctx, receipt)
	}
	if !d.pool.TryAddTask(task) {
		zap.L().Warn("Notification dropped, queue is full",
			zap.String("record_id", recordID(receipt)))
	}
}

func (d *Dispatcher) send(ctx context.Context, receipt domain.Receipt) error {
	var g errgroup.Group
	for _, ch := range d.channels {
		g.Go(func() error {
			if err := ch.Send(ctx, receipt); err != nil {
				zap.L().Warn("Notification channel failed",
					zap.String("channel", ch.Name()),
					zap.String("record_id", recordID(receipt)),
					zap.Error(err))
				return fmt.Errorf("%s: %w", ch.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

func recordID(receipt domain.Receipt) string {
	if receipt.Record == nil {
		return ""
	}
	return receipt.Record.ID
}
