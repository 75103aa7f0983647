// Package cache
package cache

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/paralead/paralead-backend/types"
)

const (
	KeyNotifications     = "#notifications"      // List
	ChannelNotifications = "#notifications#live" // PubSub
)

type Redis struct {
	cfg    Config
	client *redis.Client

	logger *zap.Logger
}

// Notify stores n and publishes it. Failures are logged only.
func (c *Redis) Notify(ctx context.Context, n types.Notification) {
	if err := c.PushNotification(ctx, n); err != nil {
		c.logger.Warn("cannot push notification", zap.String("title", n.Title), zap.Error(err))
	}
}

// PushNotification prepends n to the notification list, trims the list to the configured
// limit and publishes n on the live channel.
func (c *Redis) PushNotification(ctx context.Context, n types.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, KeyNotifications, data)
		pipe.LTrim(ctx, KeyNotifications, 0, c.cfg.Limit-1)
		pipe.Publish(ctx, ChannelNotifications, data)
		return nil
	})
	return err
}

// Notifications returns the latest notifications, newest first.
func (c *Redis) Notifications(ctx context.Context, limit int64) ([]*types.Notification, error) {
	if limit <= 0 || limit > c.cfg.Limit {
		limit = c.cfg.Limit
	}
	marshalled, err := c.client.LRange(ctx, KeyNotifications, 0, limit-1).Result()
	if err != nil {
		c.logger.Warn("cannot get notifications", zap.Error(err))
		return nil, err
	}
	notifications := make([]*types.Notification, 0, len(marshalled))
	for _, data := range marshalled {
		var n types.Notification
		if err := json.Unmarshal([]byte(data), &n); err != nil {
			c.logger.Warn("skip malformed notification", zap.Error(err))
			continue
		}
		notifications = append(notifications, &n)
	}
	return notifications, nil
}

func (c *Redis) Close() error {
	return c.client.Close()
}
