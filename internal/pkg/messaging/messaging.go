// Package messaging carries the service's event streams over Kafka.
//
// Use cases publish and consume through the Messaging interface rather than
// kafka-go types so tests can substitute an in-memory fake and so the broker
// client stays swappable.
package messaging

import (
	"context"
	"io"
	"time"
)

// Messaging publishes to and consumes from named topics.
type Messaging interface {
	io.Closer

	// Publish sends one message to the topic.
	Publish(ctx context.Context, topic string, msg OutgoingMessage) (PublishResult, error)

	// Consume reads messages from the topic and feeds them to the handler.
	// It blocks until the context is canceled or an unrecoverable error occurs.
	Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes one received message. With auto-ack enabled the message
// is committed when the handler returns nil and redelivered when it errors,
// unless the handler already acked or nacked it explicitly.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is a message to be published.
type OutgoingMessage struct {
	// Body is the message payload.
	Body []byte

	// Key selects the partition; events for one member share a key so their
	// relative order survives.
	Key []byte

	// Headers carry out-of-band metadata such as the correlation ID.
	Headers []Header
}

// Header is one message header. Duplicate keys are allowed.
type Header struct {
	Key   string
	Value []byte
}

// PublishResult reports where and when the broker accepted the message.
type PublishResult struct {
	Topic     string
	Partition int32
	Offset    int64
	Timestamp time.Time
}

// Message is a received message.
type Message interface {
	// Body returns the message payload.
	Body() []byte
	// Key returns the partition key.
	Key() []byte
	// Headers returns the message headers.
	Headers() []Header
	// Attributes returns headers flattened to a string map, first value wins.
	Attributes() map[string]string

	// ID identifies the message uniquely within its topic, stable across
	// redeliveries so consumers can deduplicate.
	ID() string
	// Topic returns the topic the message arrived on.
	Topic() string
	// Timestamp returns the broker timestamp.
	Timestamp() time.Time

	// Ack commits the message so it is not delivered again.
	Ack(ctx context.Context) error
	// Nack leaves the message uncommitted for redelivery.
	Nack(ctx context.Context) error
}
