package sim

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics instruments the simulator loop.
type Metrics struct {
	ticksTotal     prometheus.Counter
	publishedTotal prometheus.Counter
	publishErrors  prometheus.Counter
	activeVehicles prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tubegraph",
			Subsystem: "sim",
			Name:      "ticks_total",
			Help:      "number of simulation ticks run.",
		}),
		publishedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tubegraph",
			Subsystem: "sim",
			Name:      "positions_published_total",
			Help:      "number of vehicle positions handed to the publisher.",
		}),
		publishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tubegraph",
			Subsystem: "sim",
			Name:      "publish_errors_total",
			Help:      "number of failed publishes.",
		}),
		activeVehicles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tubegraph",
			Subsystem: "sim",
			Name:      "active_vehicles",
			Help:      "number of vehicles being simulated.",
		}),
	}
	reg.MustRegister(m.ticksTotal, m.publishedTotal, m.publishErrors, m.activeVehicles)
	return m
}

// ServeMetrics starts an HTTP server exposing /metrics on the given address.
func ServeMetrics(reg *prometheus.Registry, addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}
