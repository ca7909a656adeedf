package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart store activity.
type CartMetrics struct {
	mutations     *prometheus.CounterVec
	notifications *prometheus.CounterVec
	persistErrors prometheus.Counter
	decodeErrors  prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_notifications_total",
		Help: "Cart change notifications delivered, by transport.",
	}, []string{"transport"})
	persistErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_persist_errors_total",
		Help: "Cart writes that failed and were swallowed.",
	})
	decodeErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_decode_errors_total",
		Help: "Persisted carts that failed to decode and were treated as empty.",
	})
	reg.MustRegister(mutations, notifications, persistErrors, decodeErrors)
	return &CartMetrics{
		mutations:     mutations,
		notifications: notifications,
		persistErrors: persistErrors,
		decodeErrors:  decodeErrors,
	}
}

// IncMutation increments the mutation counter for the named operation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncNotification increments the delivered-notification counter.
func (c *CartMetrics) IncNotification(transport string) {
	if c == nil || c.notifications == nil {
		return
	}
	c.notifications.WithLabelValues(normalizeLabel(transport)).Inc()
}

// IncPersistError counts a swallowed persist failure.
func (c *CartMetrics) IncPersistError() {
	if c == nil || c.persistErrors == nil {
		return
	}
	c.persistErrors.Inc()
}

// IncDecodeError counts a persisted cart that failed to decode.
func (c *CartMetrics) IncDecodeError() {
	if c == nil || c.decodeErrors == nil {
		return
	}
	c.decodeErrors.Inc()
}

// HTTPMetrics records request-level metadata for the API surfaces.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	reg.MustRegister(duration)
	return &HTTPMetrics{duration: duration}
}

// ObserveRequest records one served request.
func (h *HTTPMetrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	if h == nil || h.duration == nil {
		return
	}
	h.duration.WithLabelValues(normalizeLabel(method), normalizeLabel(route), normalizeLabel(status)).Observe(elapsed.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
