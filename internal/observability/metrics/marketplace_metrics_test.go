package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func gatherNames(t *testing.T, registry *prometheus.Registry) map[string]bool {
	t.Helper()
	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, family := range families {
		names[family.GetName()] = true
	}
	return names
}

func TestNewMarketplaceRegistersCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMarketplace(registry, Config{ServiceName: "test", Environment: "test"})

	m.IncOrderCreated("pending")
	m.IncWebhook("settled")
	m.AddOrdersExpired(2)
	m.SetPendingBacklog(1)

	names := gatherNames(t, registry)
	for _, want := range []string{
		"pexry_orders_created_total",
		"pexry_payment_webhooks_total",
		"pexry_orders_expired_total",
		"pexry_orders_pending_total",
	} {
		if !names[want] {
			t.Fatalf("metric %s not registered", want)
		}
	}
}

// Separate registries must not collide: every test fixture builds its
// own metrics, and a second construction in the same process used to
// panic on duplicate registration.
func TestNewMarketplaceIndependentPerRegistry(t *testing.T) {
	first := NewMarketplace(prometheus.NewRegistry(), Config{ServiceName: "test"})
	second := NewMarketplace(prometheus.NewRegistry(), Config{ServiceName: "test"})

	first.IncOrderCreated("pending")
	second.IncOrderCreated("paid")
}
