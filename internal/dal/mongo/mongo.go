package mongo

import (
	"context"
	"os"
	"time"

	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client represents a MongoDB client bound to the service database.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Database returns the underlying database handle.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Close disconnects the client for graceful shutdown.
func (c *Client) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return c.client.Disconnect(ctx)
}

// MustNewClient creates a new MongoDB client, pings the server and bootstraps
// the indexes the repositories rely on.
func MustNewClient() *Client {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(os.Getenv("MONGO_URI")))
	if err != nil {
		panic("failed to connect to MongoDB: " + err.Error())
	}

	if err := client.Ping(ctx, nil); err != nil {
		panic("failed to ping MongoDB: " + err.Error())
	}

	db := client.Database(viper.GetString("mongo.database"))

	if err := ensureIndexes(ctx, db); err != nil {
		panic("failed to create indexes: " + err.Error())
	}

	return &Client{
		client: client,
		db:     db,
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("exports").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "is_paid", Value: 1}, {Key: "paid_at", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("outbox").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "next_retry_at", Value: 1}},
	})

	return err
}
