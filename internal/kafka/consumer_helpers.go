package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/order_admission/internal/domain"
	"github.com/Gunvolt24/order_admission/pkg/metrics"
)

// handleMessage обрабатывает одно сообщение и определяет, нужно ли коммитить оффсет.
// Временные ошибки повторяются на месте с backoff, пока не кончатся попытки.
func (c *Consumer) handleMessage(ctx context.Context, topic string, msg *kafka.Message) bool {
	tries := max(c.processTries, 1)
	backoff := c.retryInitial

	for attempt := 1; ; attempt++ {
		err := c.process(ctx, msg)

		switch {
		case err == nil:
			metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
			return true
		case domain.IsBusinessError(err):
			// Заказ отклонён окончательно: повтор даст тот же ответ, коммитим
			metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
			c.log.Warnf(ctx, "order rejected offset=%d: %v (skipped)", msg.Offset, err)
			return true
		case leftReserved(err):
			// Резерв не вернулся: повтор зарезервировал бы остаток второй раз.
			// Остаток восстанавливается по строке RECONCILE из лога сервиса.
			metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
			c.log.Errorf(ctx, "persistence failed with stock left reserved offset=%d: %v (committed, not retried)", msg.Offset, err)
			return true
		}

		// Временная ошибка (БД/сеть/таймаут/конфликт резерва): НЕ коммитим
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		if attempt >= tries || ctx.Err() != nil {
			c.log.Warnf(ctx, "process failed offset=%d attempts=%d: %v (left uncommitted)", msg.Offset, attempt, err)
			return false
		}

		sleep := c.withJitterEqual(backoff)
		c.log.Warnf(ctx, "process failed offset=%d attempt=%d: %v (will retry in %s)", msg.Offset, attempt, err, sleep)
		if !c.sleepWithBackoff(ctx, sleep) {
			return false
		}
		backoff = c.nextBackoff(backoff)
	}
}

// leftReserved - сохранение не удалось, и компенсация тоже не прошла.
func leftReserved(err error) bool {
	var persistErr *domain.PersistenceFailedError
	return errors.As(err, &persistErr) && !persistErr.Compensated
}

// process - один вызов сервиса с таймаутом на сообщение.
func (c *Consumer) process(ctx context.Context, msg *kafka.Message) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, c.processTimeout)
	defer cancel()
	return c.service.AdmitFromMessage(ctxTimeout, msg.Value)
}

// commitSafely пытается закоммитить оффсет и залогировать ошибку.
func (c *Consumer) commitSafely(ctx context.Context, msg *kafka.Message) {
	if commitErr := c.reader.CommitMessages(ctx, *msg); commitErr != nil {
		c.log.Warnf(ctx, "commit failed offset=%d: %v", msg.Offset, commitErr)
	}
}

// sleepWithBackoff ждет backoff или останавливается по контексту.
func (c *Consumer) sleepWithBackoff(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// nextBackoff возвращает следующее время ожидания повтора с учетом retryMax.
func (c *Consumer) nextBackoff(current time.Duration) time.Duration {
	current *= 2
	if current > c.retryMax {
		return c.retryMax
	}
	return current
}

// withJitterEqual - умеренная случайность: половина задержки фиксирована,
// вторая половина случайная. Баланс между стабильностью и случайностью.
func (c *Consumer) withJitterEqual(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	jitter := time.Duration(c.jitterRand.Int63n(int64(d-half) + 1))
	return half + jitter
}

// minDuration возвращает минимальное время из двух.
func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
