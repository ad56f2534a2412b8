package database

import (
	"context"
	"fmt"
	"time"

	"foodtruck_backend/pkg/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo connects, pings and returns the named database along with a
// disconnect func for shutdown.
func ConnectMongo(ctx context.Context, uri, dbName string) (*mongo.Database, func(), error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	utils.LogInfo("Connected to MongoDB", map[string]interface{}{"db": dbName})

	disconnect := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			utils.LogError(err, "MongoDB disconnect failed")
		}
	}
	return client.Database(dbName), disconnect, nil
}
