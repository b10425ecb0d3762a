package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los colectores Prometheus de la aplicación sobre un registro propio.
// Implementa ledger.Recorder y fulfillment.Observer.
type Metrics struct {
	registry        *prometheus.Registry
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	stockOperations *prometheus.CounterVec
	fulfillments    *prometheus.CounterVec
}

// New crea y registra todas las métricas.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "warehouse_http_requests_total",
			Help: "Peticiones HTTP atendidas por método, ruta y código",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "warehouse_http_request_duration_seconds",
			Help:    "Latencia de peticiones HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		stockOperations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "warehouse_stock_operations_total",
			Help: "Operaciones del ledger de stock por tipo y resultado",
		}, []string{"op", "result"}),
		fulfillments: f.NewCounterVec(prometheus.CounterOpts{
			Name: "warehouse_fulfillments_total",
			Help: "Despachos de líneas de orden por resultado",
		}, []string{"result"}),
	}
}

// ObserveStockOperation cuenta una operación del ledger (assign, move, remove, reserve).
func (m *Metrics) ObserveStockOperation(op, result string) {
	m.stockOperations.WithLabelValues(op, result).Inc()
}

// ObserveFulfillment cuenta un intento de despacho.
func (m *Metrics) ObserveFulfillment(result string) {
	m.fulfillments.WithLabelValues(result).Inc()
}

// Middleware registra conteo y latencia por ruta (patrón de la ruta, no la URL concreta).
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		m.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler expone /metrics en formato Prometheus.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Registry acceso al registro (tests).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
