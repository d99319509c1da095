package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "giftconnect"

// MarketplaceMetrics counts domain events.
type MarketplaceMetrics struct {
	giftsCreated    prometheus.Counter
	giftApprovals   *prometheus.CounterVec
	cartAdds        prometheus.Counter
	requestsCreated prometheus.Counter
	requestValue    prometheus.Histogram
	requestStatus   *prometheus.CounterVec
	authEvents      *prometheus.CounterVec
}

// NewMarketplaceMetrics registers the domain counters on reg. A nil reg yields
// a recorder whose methods are no-ops.
func NewMarketplaceMetrics(reg prometheus.Registerer) *MarketplaceMetrics {
	if reg == nil {
		return &MarketplaceMetrics{}
	}
	m := &MarketplaceMetrics{
		giftsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gifts_created_total",
			Help:      "Gifts submitted by vendors.",
		}),
		giftApprovals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gift_approvals_total",
			Help:      "Admin approval decisions on gifts.",
		}, []string{"approved"}),
		cartAdds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_additions_total",
			Help:      "Gifts added to carts.",
		}),
		requestsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gift_requests_created_total",
			Help:      "Gift requests submitted.",
		}),
		requestValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gift_request_value_dollars",
			Help:      "Total value of submitted gift requests in dollars.",
			Buckets:   []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
		requestStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gift_request_status_changes_total",
			Help:      "Gift request status transitions, by target status.",
		}, []string{"status"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Authentication attempts, by event and outcome.",
		}, []string{"event", "outcome"}),
	}
	reg.MustRegister(m.giftsCreated, m.giftApprovals, m.cartAdds, m.requestsCreated, m.requestValue, m.requestStatus, m.authEvents)
	return m
}

func (m *MarketplaceMetrics) GiftCreated() {
	if m == nil || m.giftsCreated == nil {
		return
	}
	m.giftsCreated.Inc()
}

func (m *MarketplaceMetrics) GiftApproval(approved bool) {
	if m == nil || m.giftApprovals == nil {
		return
	}
	m.giftApprovals.WithLabelValues(strconv.FormatBool(approved)).Inc()
}

func (m *MarketplaceMetrics) CartAdd() {
	if m == nil || m.cartAdds == nil {
		return
	}
	m.cartAdds.Inc()
}

// GiftRequestCreated counts a submission and observes its value in dollars.
func (m *MarketplaceMetrics) GiftRequestCreated(totalDollars float64) {
	if m == nil || m.requestsCreated == nil {
		return
	}
	m.requestsCreated.Inc()
	m.requestValue.Observe(totalDollars)
}

func (m *MarketplaceMetrics) GiftRequestStatus(status string) {
	if m == nil || m.requestStatus == nil {
		return
	}
	m.requestStatus.WithLabelValues(normalizeLabel(status)).Inc()
}

// AuthEvent records an auth attempt, e.g. ("login", "success").
func (m *MarketplaceMetrics) AuthEvent(event, outcome string) {
	if m == nil || m.authEvents == nil {
		return
	}
	m.authEvents.WithLabelValues(normalizeLabel(event), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
