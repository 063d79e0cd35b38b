package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Mongo wraps the client for the submission document store
type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
	logger   *zap.Logger
}

// NewMongo connects to the submission store and verifies the connection
func NewMongo(ctx context.Context, config *MongoConfig, logger *zap.Logger) (*Mongo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("MongoDB connection established",
		zap.String("database", config.Database),
	)

	return &Mongo{
		Client:   client,
		Database: client.Database(config.Database),
		logger:   logger,
	}, nil
}

// Collection returns a handle to the named collection
func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.Database.Collection(name)
}

// HealthCheck verifies the store is reachable
func (m *Mongo) HealthCheck(ctx context.Context) error {
	return m.Client.Ping(ctx, nil)
}

// Close disconnects from the store
func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
