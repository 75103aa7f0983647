// Package db
package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	cActivities = "Activities"

	connectTimeout = 10 * time.Second
)

type mongoDB struct {
	logger  *zap.Logger
	wrapper *mgoWrapper
	client  *mongo.Client
}

func newMongoDB(cfg Config) (*mongoDB, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	dbClient := &mongoDB{
		logger:  cfg.Logger.With(zap.String("db", "mgo")),
		wrapper: &mgoWrapper{},
	}
	mgoOptions := options.Client()
	mgoOptions.ApplyURI(cfg.URL)
	mgoOptions.SetMinPoolSize(uint64(cfg.MinConn))
	mgoOptions.SetMaxPoolSize(uint64(cfg.MaxConn))
	mgoClient, err := mongo.NewClient(mgoOptions)
	if err != nil {
		return nil, err
	}

	if err := mgoClient.Connect(ctx); err != nil {
		return nil, err
	}
	dbClient.client = mgoClient
	dbClient.wrapper.Database(mgoClient.Database(cfg.DbName))

	if cfg.FlushDB {
		dbClient.logger.Info("Start flush database")
		if err := dbClient.wrapper.DropDatabase(ctx); err != nil {
			return nil, err
		}
	}
	if err := createIndexes(ctx, dbClient); err != nil {
		dbClient.logger.Warn("cannot create indexes", zap.Error(err))
	}

	return dbClient, nil
}

func createIndexes(ctx context.Context, dbClient *mongoDB) error {
	type CIndex struct {
		c     string
		model []mongo.IndexModel
	}

	indexes := []CIndex{
		// journal listing per account and per branch, newest first
		{c: cActivities, model: []mongo.IndexModel{{Keys: bson.D{{Key: "account", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetSparse(true)}}},
		{c: cActivities, model: []mongo.IndexModel{{Keys: bson.D{{Key: "branch", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetSparse(true)}}},
		{c: cActivities, model: []mongo.IndexModel{{Keys: bson.M{"createdAt": -1}}}},
		{c: cActivities, model: []mongo.IndexModel{{Keys: bson.M{"txHash": 1}, Options: options.Index().SetUnique(true).SetSparse(true)}}},
	}
	for _, cIdx := range indexes {
		if err := dbClient.wrapper.C(cIdx.c).EnsureIndex(ctx, cIdx.model); err != nil {
			return err
		}
	}
	return nil
}

//region General

func (m *mongoDB) ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *mongoDB) dropDatabase(ctx context.Context) error {
	return m.wrapper.DropDatabase(ctx)
}

func (m *mongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

//endregion General
