package mongorepo

import (
	"context"
	"fmt"
	"time"

	"github.com/gmarket/export-svc/internal/service/models/outbox"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "outbox"

// MessageDal represents the outbox document as stored in MongoDB.
type MessageDal struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	ExchangeName string             `bson:"exchange_name"`
	RoutingKey   string             `bson:"routing_key"`
	Payload      []byte             `bson:"payload"`
	ContentType  string             `bson:"content_type"`
	RetryCount   int                `bson:"retry_count"`
	MaxRetries   int                `bson:"max_retries"`
	LastError    string             `bson:"last_error"`
	NextRetryAt  time.Time          `bson:"next_retry_at"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

// ToModel converts MessageDal to the service layer Message model.
func (d *MessageDal) ToModel() *outbox.Message {
	return &outbox.Message{
		ID:           d.ID,
		ExchangeName: d.ExchangeName,
		RoutingKey:   d.RoutingKey,
		Payload:      d.Payload,
		ContentType:  d.ContentType,
		RetryCount:   d.RetryCount,
		MaxRetries:   d.MaxRetries,
		LastError:    d.LastError,
		NextRetryAt:  d.NextRetryAt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// MongoOutboxRepository persists outbox messages in MongoDB.
type MongoOutboxRepository struct {
	collection *mongo.Collection
}

func NewMongoOutboxRepository(db *mongo.Database) *MongoOutboxRepository {
	return &MongoOutboxRepository{
		collection: db.Collection(collectionName),
	}
}

// Insert adds a new message to the outbox.
func (r *MongoOutboxRepository) Insert(ctx context.Context, msg outbox.Message) error {
	now := time.Now()
	dal := MessageDal{
		ExchangeName: msg.ExchangeName,
		RoutingKey:   msg.RoutingKey,
		Payload:      msg.Payload,
		ContentType:  msg.ContentType,
		RetryCount:   msg.RetryCount,
		MaxRetries:   msg.MaxRetries,
		LastError:    msg.LastError,
		NextRetryAt:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := r.collection.InsertOne(ctx, dal); err != nil {
		return fmt.Errorf("failed to insert outbox message: %w", err)
	}

	return nil
}

// GetPendingMessages retrieves messages whose next retry time has passed.
func (r *MongoOutboxRepository) GetPendingMessages(ctx context.Context, limit int) ([]outbox.Message, error) {
	filter := bson.M{"next_retry_at": bson.M{"$lte": time.Now()}}
	opts := options.Find().
		SetSort(bson.D{{Key: "next_retry_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query outbox: %w", err)
	}
	defer cursor.Close(ctx)

	var result []outbox.Message
	for cursor.Next(ctx) {
		var dal MessageDal
		if err := cursor.Decode(&dal); err != nil {
			return nil, fmt.Errorf("failed to decode outbox message: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration error: %w", err)
	}

	return result, nil
}

// Delete removes a message from the outbox after successful delivery.
func (r *MongoOutboxRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete outbox message: %w", err)
	}

	return nil
}

// UpdateRetry updates retry count and error information.
func (r *MongoOutboxRepository) UpdateRetry(
	ctx context.Context,
	id primitive.ObjectID,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	update := bson.M{"$set": bson.M{
		"retry_count":   retryCount,
		"last_error":    lastError,
		"next_retry_at": nextRetryAt,
		"updated_at":    time.Now(),
	}}

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("failed to update outbox retry info: %w", err)
	}

	return nil
}
