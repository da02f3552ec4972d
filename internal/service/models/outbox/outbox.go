package outbox

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message represents an export lifecycle event waiting to be published to
// RabbitMQ.
type Message struct {
	ID           primitive.ObjectID
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	NextRetryAt  time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
