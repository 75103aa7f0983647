package dashboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/paralead/paralead-backend/types"
)

type Notifier interface {
	Notify(ctx context.Context, n types.Notification)
}

type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier writes notifications to the log, destructive ones at warn level.
func NewLogNotifier(logger *zap.Logger) Notifier {
	return &logNotifier{logger: logger.With(zap.String("component", "notifier"))}
}

func (n *logNotifier) Notify(_ context.Context, notification types.Notification) {
	fields := []zap.Field{
		zap.String("title", notification.Title),
		zap.String("message", notification.Message),
	}
	if notification.Variant == types.VariantDestructive {
		n.logger.Warn("notification", fields...)
		return
	}
	n.logger.Info("notification", fields...)
}

type multiNotifier []Notifier

// MultiNotifier fans a notification out to every non-nil notifier.
func MultiNotifier(notifiers ...Notifier) Notifier {
	var m multiNotifier
	for _, n := range notifiers {
		if n != nil {
			m = append(m, n)
		}
	}
	return m
}

func (m multiNotifier) Notify(ctx context.Context, notification types.Notification) {
	for _, n := range m {
		n.Notify(ctx, notification)
	}
}
