package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "representacao"

// APIMetrics reúne as métricas HTTP e de negócio da aplicação
type APIMetrics struct {
	registry *prometheus.Registry

	requestCounter     *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	requestSize        *prometheus.SummaryVec
	responseSize       *prometheus.SummaryVec
	activeRequests     *prometheus.GaugeVec
	errorsTotal        *prometheus.CounterVec
	circuitBreakerOpen *prometheus.GaugeVec
	rateLimited        *prometheus.CounterVec
	cacheHitRatio      *prometheus.GaugeVec

	ordersCreated *prometheus.CounterVec
	orderValue    prometheus.Histogram
	syncOrders    *prometheus.CounterVec
	cnpjLookups   *prometheus.CounterVec
	logins        *prometheus.CounterVec
}

// NewAPIMetrics cria as métricas em um registro próprio, já com os coletores
// de processo e do runtime Go
func NewAPIMetrics() *APIMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return newAPIMetrics(registry)
}

func newAPIMetrics(registry *prometheus.Registry) *APIMetrics {
	factory := promauto.With(registry)

	return &APIMetrics{
		registry: registry,

		requestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by path, method, and status code",
			},
			[]string{"path", "method", "status"},
		),

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		requestSize: factory.NewSummaryVec(
			prometheus.SummaryOpts{
				Namespace:  namespace,
				Name:       "http_request_size_bytes",
				Help:       "HTTP request size in bytes",
				Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			},
			[]string{"path", "method"},
		),

		responseSize: factory.NewSummaryVec(
			prometheus.SummaryOpts{
				Namespace:  namespace,
				Name:       "http_response_size_bytes",
				Help:       "HTTP response size in bytes",
				Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			},
			[]string{"path", "method"},
		),

		activeRequests: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_active_requests",
				Help:      "Number of in-flight requests being processed",
			},
			[]string{"path", "method"},
		),

		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_errors_total",
				Help:      "Total number of errors by type",
			},
			[]string{"path", "method", "error_type"},
		),

		circuitBreakerOpen: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_open",
				Help:      "Indicates if a circuit breaker is open (1) or closed (0)",
			},
			[]string{"service"},
		),

		rateLimited: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_requests_total",
				Help:      "Total number of rate limited requests",
			},
			[]string{"path", "method", "limit_type"},
		),

		cacheHitRatio: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cache_hit_ratio",
				Help:      "Cache hit ratio (0.0 to 1.0)",
			},
			[]string{"cache_type"},
		),

		ordersCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_created_total",
				Help:      "Total number of orders created by origin (api or sync)",
			},
			[]string{"origin"},
		),

		orderValue: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "order_total_value",
				Help:      "Order total value after discount",
				Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
			},
		),

		syncOrders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sync_orders_total",
				Help:      "Orders received through sync by outcome",
			},
			[]string{"outcome"},
		),

		cnpjLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cnpj_lookups_total",
				Help:      "CNPJ lookups by result (hit, found, not_found, error)",
			},
			[]string{"result"},
		),

		logins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Login attempts by result",
			},
			[]string{"result"},
		),
	}
}

// Registry expõe o registro para o endpoint /metrics
func (m *APIMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// RequestStarted registra o início de uma requisição
func (m *APIMetrics) RequestStarted(path, method string) {
	m.activeRequests.WithLabelValues(path, method).Inc()
}

// RequestCompleted registra a conclusão de uma requisição
func (m *APIMetrics) RequestCompleted(path, method, status string, duration time.Duration, requestSize, responseSize int) {
	m.requestCounter.WithLabelValues(path, method, status).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
	m.requestSize.WithLabelValues(path, method).Observe(float64(requestSize))
	m.responseSize.WithLabelValues(path, method).Observe(float64(responseSize))
	m.activeRequests.WithLabelValues(path, method).Dec()
}

// RequestError registra um erro de requisição
func (m *APIMetrics) RequestError(path, method, errorType string) {
	m.errorsTotal.WithLabelValues(path, method, errorType).Inc()
}

// CircuitBreakerStateChanged registra mudança no estado de um circuit breaker
func (m *APIMetrics) CircuitBreakerStateChanged(service string, isOpen bool) {
	value := 0.0
	if isOpen {
		value = 1.0
	}
	m.circuitBreakerOpen.WithLabelValues(service).Set(value)
}

// RateLimitExceeded registra quando um limite de taxa é excedido
func (m *APIMetrics) RateLimitExceeded(path, method, limitType string) {
	m.rateLimited.WithLabelValues(path, method, limitType).Inc()
}

// UpdateCacheHitRatio atualiza a taxa de acertos do cache
func (m *APIMetrics) UpdateCacheHitRatio(cacheType string, hitRatio float64) {
	m.cacheHitRatio.WithLabelValues(cacheType).Set(hitRatio)
}

// OrderCreated conta um pedido gravado e observa seu valor total
func (m *APIMetrics) OrderCreated(origin string, total float64) {
	m.ordersCreated.WithLabelValues(origin).Inc()
	m.orderValue.Observe(total)
}

// SyncCompleted registra o resultado de um lote de sincronização
func (m *APIMetrics) SyncCompleted(synced, failed int) {
	m.syncOrders.WithLabelValues("synced").Add(float64(synced))
	m.syncOrders.WithLabelValues("failed").Add(float64(failed))
}

func (m *APIMetrics) CNPJLookup(result string) {
	m.cnpjLookups.WithLabelValues(result).Inc()
}

func (m *APIMetrics) LoginAttempt(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.logins.WithLabelValues(result).Inc()
}
