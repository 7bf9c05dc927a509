package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAPIMetrics(t *testing.T) {
	m := newAPIMetrics(prometheus.NewRegistry())

	m.RequestStarted("/api/orders", "POST")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeRequests.WithLabelValues("/api/orders", "POST")))

	m.RequestCompleted("/api/orders", "POST", "201", 20*time.Millisecond, 120, 300)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.activeRequests.WithLabelValues("/api/orders", "POST")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCounter.WithLabelValues("/api/orders", "POST", "201")))

	m.OrderCreated("sync", 152.73)
	m.OrderCreated("sync", 10)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ordersCreated.WithLabelValues("sync")))

	m.SyncCompleted(3, 1)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.syncOrders.WithLabelValues("synced")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.syncOrders.WithLabelValues("failed")))

	m.CircuitBreakerStateChanged("receitaws", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.circuitBreakerOpen.WithLabelValues("receitaws")))
	m.CircuitBreakerStateChanged("receitaws", false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.circuitBreakerOpen.WithLabelValues("receitaws")))

	m.LoginAttempt(false)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues("failure")))

	m.UpdateCacheHitRatio("memory", 0.75)
	assert.Equal(t, 0.75, testutil.ToFloat64(m.cacheHitRatio.WithLabelValues("memory")))
}
