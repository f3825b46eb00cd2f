package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// ConsumerConfig - параметры чтения запросов на заказ.
type ConsumerConfig struct {
	Brokers     []string
	Topic       string
	GroupID     string
	StartOffset string // first|last (без учёта регистра и пробелов)

	ProcessTimeout time.Duration
	RetryInitial   time.Duration
	RetryMax       time.Duration

	// ProcessAttempts - сколько раз обработать одно сообщение при временной ошибке
	// прежде чем оставить его без коммита.
	ProcessAttempts int
}

// ReaderConfig - конфиг kafka.Reader с ручным коммитом оффсетов.
func (c *ConsumerConfig) ReaderConfig() kafka.ReaderConfig {
	rc := kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        c.GroupID,
		Topic:          c.Topic,
		CommitInterval: 0,
	}

	switch strings.ToLower(strings.TrimSpace(c.StartOffset)) {
	case "first":
		rc.StartOffset = kafka.FirstOffset
	default:
		rc.StartOffset = kafka.LastOffset
	}

	return rc
}

// ProducerConfig - параметры публикации событий.
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}
