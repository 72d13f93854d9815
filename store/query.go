package store

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// findOrdered runs the filtered query with the requested sort. When the
// ordered query fails (the store cannot serve the filter+sort
// combination) it reruns the same filter without the sort and reports
// fallback=true so the caller can sort the result set in memory. Every
// ordered read goes through here; there is no per-callsite retry.
func findOrdered(ctx context.Context, collection *mongo.Collection, filter interface{}, sort interface{}) (cursor *mongo.Cursor, fallback bool, err error) {
	if sort != nil {
		cursor, err = collection.Find(ctx, filter, options.Find().SetSort(sort))
		if err == nil {
			return cursor, false, nil
		}
	}

	cursor, err = collection.Find(ctx, filter)
	if err != nil {
		return nil, false, err
	}
	return cursor, sort != nil, nil
}
