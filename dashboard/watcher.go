package dashboard

import (
	"context"

	"github.com/ethereum/go-ethereum"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// HeadSubscriber delivers new chain heads. It needs a websocket or IPC endpoint.
type HeadSubscriber interface {
	SubscribeNewHead(ctx context.Context, ch chan<- *ethtypes.Header) (ethereum.Subscription, error)
}

// WatchHeads reloads the state on every new block until ctx is done, the subscription
// fails or the dashboard is closed. Heads that arrive during a load are coalesced.
func (d *Dashboard) WatchHeads(ctx context.Context, subscriber HeadSubscriber) error {
	lgr := d.logger.With(zap.String("method", "WatchHeads"))
	heads := make(chan *ethtypes.Header, 16)
	sub, err := subscriber.SubscribeNewHead(ctx, heads)
	if err != nil {
		lgr.Warn("cannot subscribe to new heads", zap.Error(err))
		return err
	}
	defer sub.Unsubscribe()
	lgr.Info("watching new heads")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			lgr.Warn("head subscription dropped", zap.Error(err))
			return err
		case head := <-heads:
			head = latest(head, heads)
			if d.isClosed() {
				return nil
			}
			lgr.Debug("new head", zap.Uint64("number", head.Number.Uint64()))
			if _, err := d.LoadState(ctx); err != nil {
				lgr.Warn("cannot refresh on new head", zap.Error(err))
			}
		}
	}
}

func latest(head *ethtypes.Header, heads <-chan *ethtypes.Header) *ethtypes.Header {
	for {
		select {
		case next := <-heads:
			head = next
		default:
			return head
		}
	}
}
