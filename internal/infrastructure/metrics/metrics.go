// Package metrics expone contadores de negocio en formato Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/exhibition-api/internal/application/billing"
)

const namespace = "exhibition"

// BusinessMetrics implementa billing.Metrics sobre un registro propio.
type BusinessMetrics struct {
	registry         *prometheus.Registry
	customersCreated prometheus.Counter
	welcomeEmails    *prometheus.CounterVec
	billsCreated     prometheus.Counter
	exportedRows     prometheus.Counter
	exports          prometheus.Counter
}

var _ billing.Metrics = (*BusinessMetrics)(nil)

// New crea el registro con los contadores de negocio y los collectors de proceso y runtime.
func New() *BusinessMetrics {
	m := &BusinessMetrics{
		registry: prometheus.NewRegistry(),
		customersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "customers_created_total",
			Help:      "Clientes registrados.",
		}),
		welcomeEmails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "welcome_emails_total",
			Help:      "Correos de bienvenida por resultado.",
		}, []string{"result"}),
		billsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bills_created_total",
			Help:      "Cargos registrados.",
		}),
		exports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Exportaciones generadas.",
		}),
		exportedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exported_customers_total",
			Help:      "Clientes incluidos en exportaciones.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.customersCreated,
		m.welcomeEmails,
		m.billsCreated,
		m.exports,
		m.exportedRows,
	)
	return m
}

func (m *BusinessMetrics) CustomerCreated() { m.customersCreated.Inc() }

func (m *BusinessMetrics) WelcomeEmail(sent bool) {
	result := "failed"
	if sent {
		result = "sent"
	}
	m.welcomeEmails.WithLabelValues(result).Inc()
}

func (m *BusinessMetrics) BillCreated() { m.billsCreated.Inc() }

func (m *BusinessMetrics) Exported(customers int) {
	m.exports.Inc()
	m.exportedRows.Add(float64(customers))
}

// Registry registro subyacente (tests y collectors adicionales).
func (m *BusinessMetrics) Registry() *prometheus.Registry { return m.registry }

// Handler handler HTTP de scrape para /metrics.
func (m *BusinessMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
