//go:build integration

package testutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// UniqueTopicAndGroup - уникальные топик и группа консьюмера от базового префикса.
// base="orders-itc" -> "orders-itc-20250826T010203123456789", "...-g".
func UniqueTopicAndGroup(base string) (topic, group string) {
	s := strings.ReplaceAll(time.Now().UTC().Format("20060102T150405.000000000"), ".", "")
	topic = fmt.Sprintf("%s-%s", base, s)
	return topic, topic + "-g"
}

// EnsureTopics - создаёт топики через контроллер кластера (существующие не ошибка)
// и ждёт, пока каждый появится в метаданных.
// broker: "host:port", "PLAINTEXT://host:port" или список через запятую (берётся первый).
func EnsureTopics(ctx context.Context, broker string, topics ...string) error {
	if len(topics) == 0 {
		return nil
	}
	addr := firstBootstrap(broker)

	conn, err := kafka.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	ctrl, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	admin, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(ctrl.Host, strconv.Itoa(ctrl.Port)))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer admin.Close()

	configs := make([]kafka.TopicConfig, 0, len(topics))
	for _, t := range topics {
		configs = append(configs, kafka.TopicConfig{Topic: t, NumPartitions: 1, ReplicationFactor: 1})
	}
	if err := admin.CreateTopics(configs...); err != nil && !isTopicExists(err) {
		return fmt.Errorf("create topics: %w", err)
	}

	for _, t := range topics {
		if err := waitTopicReady(ctx, addr, t); err != nil {
			return err
		}
	}
	return nil
}

// EnsureTopic - EnsureTopics для одного топика.
func EnsureTopic(ctx context.Context, broker, topic string) error {
	return EnsureTopics(ctx, broker, topic)
}

func isTopicExists(err error) bool {
	if errors.Is(err, kafka.TopicAlreadyExists) {
		return true
	}
	// формулировка у разных брокеров своя
	return strings.Contains(strings.ToLower(err.Error()), "already exists")
}

// firstBootstrap - первый адрес из bootstrap-строки без схемы "PLAINTEXT://".
func firstBootstrap(raw string) string {
	first := strings.TrimSpace(strings.Split(raw, ",")[0])
	if strings.Contains(first, "://") {
		if u, err := url.Parse(first); err == nil && u.Host != "" {
			return u.Host
		}
	}
	return first
}

func waitTopicReady(ctx context.Context, broker, topic string) error {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(5 * time.Second)

	var lastErr error
	for {
		c, err := kafka.DialContext(ctx, "tcp", broker)
		if err == nil {
			parts, perr := c.ReadPartitions(topic)
			_ = c.Close()
			if perr == nil && len(parts) > 0 {
				return nil
			}
			err = perr
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return fmt.Errorf("topic %q not ready: %w", topic, lastErr)
		case <-ticker.C:
		}
	}
}
