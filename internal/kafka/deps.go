package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// reader - минимальный контракт над источником (kafka.Reader),
// чтобы легко подменять его моками в тестах.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// requestHandler - бизнес-логика приёма заказа из сырого сообщения.
type requestHandler interface {
	AdmitFromMessage(ctx context.Context, raw []byte) error
}

// writer - минимальный контракт над kafka.Writer.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
