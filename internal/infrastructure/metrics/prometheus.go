// Package metrics contadores Prometheus del negocio y del servidor HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appos "github.com/jhoicas/OrdemServico-api/internal/application/serviceorder"
)

const namespace = "ordemservico"

var _ appos.Metrics = (*Prometheus)(nil)

// Prometheus registro propio (no el global) con las métricas de la API.
type Prometheus struct {
	registry        *prometheus.Registry
	ordersCreated   *prometheus.CounterVec
	numberConflicts prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New registra las métricas y los collectors de runtime.
func New() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Órdenes de servicio creadas, por origen (api, csv).",
		}, []string{"source"}),
		numberConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_number_conflicts_total",
			Help:      "Altas reintentadas porque el número de OS ya estaba emitido.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y código.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.ordersCreated, p.numberConflicts, p.httpRequests, p.httpDuration,
	)
	return p
}

func (p *Prometheus) OrderCreated(source string) { p.ordersCreated.WithLabelValues(source).Inc() }

func (p *Prometheus) OrderNumberConflict() { p.numberConflicts.Inc() }

// Middleware mide cada petición usando la ruta registrada (no la URL) como etiqueta.
func (p *Prometheus) Middleware() fiber.Handler {
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
		p.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		p.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler expone /metrics.
func (p *Prometheus) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
}

// Registry para tests.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// NopMetrics descarta todo.
type NopMetrics struct{}

func (NopMetrics) OrderCreated(string)  {}
func (NopMetrics) OrderNumberConflict() {}
