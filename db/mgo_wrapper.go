// Package db
package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mgoWrapper struct {
	DB  *mongo.Database
	col *mongo.Collection
}

func (w *mgoWrapper) Database(db *mongo.Database) {
	w.DB = db
}

// C returns a wrapper bound to the named collection. The receiver is left untouched.
func (w *mgoWrapper) C(name string) *mgoWrapper {
	return &mgoWrapper{DB: w.DB, col: w.DB.Collection(name)}
}

func (w *mgoWrapper) EnsureIndex(ctx context.Context, model []mongo.IndexModel) error {
	var err error
	opts := options.CreateIndexes().SetMaxTime(5 * time.Second)
	if len(model) == 1 {
		_, err = w.col.Indexes().CreateOne(ctx, model[0], opts)
	} else if len(model) > 1 {
		_, err = w.col.Indexes().CreateMany(ctx, model, opts)
	}
	return err
}

func (w *mgoWrapper) Find(ctx context.Context, filter interface{},
	opts ...*options.FindOptions) (*mongo.Cursor, error) {
	return w.col.Find(ctx, filter, opts...)
}

func (w *mgoWrapper) Count(ctx context.Context, filter interface{},
	opts ...*options.CountOptions) (int64, error) {
	return w.col.CountDocuments(ctx, filter, opts...)
}

func (w *mgoWrapper) Insert(ctx context.Context, document interface{},
	opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	return w.col.InsertOne(ctx, document, opts...)
}

func (w *mgoWrapper) FindSetSort(data string) *options.FindOptions {
	if data[0:1] == "-" {
		return options.Find().SetSort(bson.M{data[1:]: -1})
	}
	return options.Find().SetSort(bson.M{data: 1})
}

func (w *mgoWrapper) DropDatabase(ctx context.Context) error {
	if err := w.DB.Drop(ctx); err != nil {
		return err
	}
	return nil
}
