// internal/chats/metrics.go

package chats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	joinsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_joins_total",
		Help: "Event join operations, by outcome.",
	}, []string{"outcome"})

	chatCreateConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_create_conflicts_total",
		Help: "Chat creations that lost a concurrent-creation race and recovered.",
	})

	messagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_sent_total",
		Help: "Messages persisted across all chats.",
	})
)
