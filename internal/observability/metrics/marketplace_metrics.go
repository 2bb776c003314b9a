package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MarketplaceMetrics covers the order/payment lifecycle: checkouts,
// webhook deliveries, and the pending-order backlog the expiry sweep
// works through.
type MarketplaceMetrics struct {
	ordersCreated    *prometheus.CounterVec
	webhooksReceived *prometheus.CounterVec
	ordersExpired    prometheus.Counter
	pendingBacklog   prometheus.Gauge
	pendingOldest    prometheus.Gauge
}

var (
	marketplaceMetricsOnce sync.Once
	marketplaceMetrics     *MarketplaceMetrics
)

func Marketplace() *MarketplaceMetrics {
	return MarketplaceWithConfig(Config{})
}

func MarketplaceWithConfig(cfg Config) *MarketplaceMetrics {
	marketplaceMetricsOnce.Do(func() {
		marketplaceMetrics = newMarketplaceMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return marketplaceMetrics
}

// NewMarketplace builds metrics against a caller-supplied registerer.
// Tests pass a fresh prometheus.NewRegistry so repeated construction
// in one process never collides with the default registerer.
func NewMarketplace(registerer prometheus.Registerer, cfg Config) *MarketplaceMetrics {
	return newMarketplaceMetrics(registerer, cfg)
}

func newMarketplaceMetrics(registerer prometheus.Registerer, cfg Config) *MarketplaceMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "pexry"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	ordersCreated := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "pexry_orders_created_total",
			Help:        "Orders created by checkout, by initial status.",
			ConstLabels: constLabels,
		},
		[]string{"status"}, // pending | paid
	)

	webhooksReceived := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "pexry_payment_webhooks_total",
			Help:        "Payment webhook deliveries by processing outcome.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // settled | ignored | unmatched | invalid | error
	)

	ordersExpired := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:        "pexry_orders_expired_total",
			Help:        "Pending orders reclaimed by the expiry sweep.",
			ConstLabels: constLabels,
		},
	)

	pendingBacklog := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:        "pexry_orders_pending_total",
			Help:        "Number of orders awaiting payment confirmation.",
			ConstLabels: constLabels,
		},
	)

	pendingOldest := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name:        "pexry_orders_pending_oldest_seconds",
			Help:        "Age of the oldest order awaiting payment confirmation.",
			ConstLabels: constLabels,
		},
	)

	registerer.MustRegister(
		ordersCreated,
		webhooksReceived,
		ordersExpired,
		pendingBacklog,
		pendingOldest,
	)

	return &MarketplaceMetrics{
		ordersCreated:    ordersCreated,
		webhooksReceived: webhooksReceived,
		ordersExpired:    ordersExpired,
		pendingBacklog:   pendingBacklog,
		pendingOldest:    pendingOldest,
	}
}

func (m *MarketplaceMetrics) IncOrderCreated(status string) {
	if m == nil {
		return
	}
	m.ordersCreated.WithLabelValues(status).Inc()
}

func (m *MarketplaceMetrics) IncWebhook(result string) {
	if m == nil {
		return
	}
	m.webhooksReceived.WithLabelValues(result).Inc()
}

func (m *MarketplaceMetrics) AddOrdersExpired(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.ordersExpired.Add(float64(count))
}

func (m *MarketplaceMetrics) SetPendingBacklog(value int) {
	if m == nil {
		return
	}
	m.pendingBacklog.Set(float64(value))
}

func (m *MarketplaceMetrics) SetPendingOldest(age time.Duration) {
	if m == nil {
		return
	}
	seconds := age.Seconds()
	if seconds < 0 {
		seconds = 0
	}
	m.pendingOldest.Set(seconds)
}
