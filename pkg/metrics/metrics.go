package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Kafka: приём запросов и публикация событий.
var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to process",
		},
		[]string{"topic"},
	)
	OrderEventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_events_published_total",
			Help: "OrderAdmitted events by publish result",
		},
		[]string{"result"}, // ok|failed
	)
)

// Кэш заказов.
var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache operations",
		},
		[]string{"op"}, // hit|miss|evicted|expired
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Number of items currently in cache",
		},
	)
)

// Приём заказов и резервирование.
var (
	OrderAdmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_admissions_total",
			Help: "Order admission attempts by result",
		},
		[]string{"result"},
	)
	OrderAdmissionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "order_admission_duration_seconds",
			Help:    "Order admission latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"},
	)
	ReservationConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "order_reservation_conflicts_total",
			Help: "Stock reserve and release attempts lost to a concurrent writer",
		},
	)
	Compensations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_compensations_total",
			Help: "Compensating stock releases by result",
		},
		[]string{"result"}, // released|failed
	)
)

var registerOnce sync.Once

// MustRegister - регистрирует метрики в глобальном реестре; повторный вызов ничего не делает.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed, OrderEventsPublished,
			CacheOps, CacheSize,
			OrderAdmissions, OrderAdmissionDuration, ReservationConflicts, Compensations,
		)
	})
}
