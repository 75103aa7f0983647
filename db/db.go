// Package db
package db

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/paralead/paralead-backend/types"
)

type Adapter string

const (
	MGO Adapter = "mgo"
)

var ErrInvalidConfig = errors.New("invalid db config")

type Config struct {
	DbAdapter Adapter
	DbName    string
	URL       string
	MinConn   int
	MaxConn   int
	FlushDB   bool

	Logger *zap.Logger
}

type IActivity interface {
	InsertActivity(ctx context.Context, activity *types.Activity) error
	Activities(ctx context.Context, filter *types.ActivitiesFilter) ([]*types.Activity, uint64, error)
}

type Client interface {
	ping(ctx context.Context) error
	dropDatabase(ctx context.Context) error

	IActivity

	Close(ctx context.Context) error
}

func NewClient(cfg Config) (Client, error) {
	switch cfg.DbAdapter {
	case MGO:
		return newMongoDB(cfg)
	default:
		return nil, ErrInvalidConfig
	}
}
