package conversation

import "github.com/prometheus/client_golang/prometheus"

const (
	OriginUser      = "user"
	OriginResponder = "responder"
)

type Metrics struct {
	Messages      *prometheus.CounterVec
	ReplyCycles   prometheus.Counter
	PendingChats  prometheus.Gauge
	ReplyDuration prometheus.Histogram
}

// NewMetrics registers the orchestrator metrics on reg. A nil reg keeps them
// unregistered, which is what tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_chat_messages_total",
			Help: "Messages appended to chats, by origin.",
		}, []string{"origin"}),
		ReplyCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "campus_chat_reply_cycles_total",
			Help: "Completed lecturer reply cycles.",
		}),
		PendingChats: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "campus_chat_pending_chats",
			Help: "Chats with a reply being generated or queued.",
		}),
		ReplyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "campus_chat_reply_duration_seconds",
			Help:    "Time spent generating one lecturer reply.",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Messages, m.ReplyCycles, m.PendingChats, m.ReplyDuration)
	}
	return m
}
