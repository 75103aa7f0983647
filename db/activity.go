// Package db
package db

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/paralead/paralead-backend/types"
)

func (m *mongoDB) InsertActivity(ctx context.Context, activity *types.Activity) error {
	if _, err := m.wrapper.C(cActivities).Insert(ctx, activity); err != nil {
		m.logger.Warn("cannot insert activity", zap.String("txHash", activity.TxHash), zap.Error(err))
		return err
	}
	return nil
}

// Activities lists journal entries matching filter, newest first, with the total match count.
func (m *mongoDB) Activities(ctx context.Context, filter *types.ActivitiesFilter) ([]*types.Activity, uint64, error) {
	if filter.Pagination == nil {
		filter.Pagination = &types.Pagination{}
	}
	filter.Pagination.Sanitize()
	opts := []*options.FindOptions{
		m.wrapper.FindSetSort("-createdAt"),
		options.Find().SetSkip(int64(filter.Pagination.Skip)),
		options.Find().SetLimit(int64(filter.Pagination.Limit)),
	}

	cursor, err := m.wrapper.C(cActivities).Find(ctx, filter, opts...)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			m.logger.Warn("Error when close cursor", zap.Error(err))
		}
	}()

	var activities []*types.Activity
	for cursor.Next(ctx) {
		activity := &types.Activity{}
		if err := cursor.Decode(activity); err != nil {
			return nil, 0, err
		}
		activities = append(activities, activity)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}

	total, err := m.wrapper.C(cActivities).Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return activities, uint64(total), nil
}
