package monitor

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metricsHandler builds a Prometheus registry that samples the scheduler on
// every scrape.
func (m *Monitor) metricsHandler() http.Handler {
	reg := prometheus.NewRegistry()

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(
		collectors.ProcessCollectorOpts{}))

	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "deltav",
		Name:      "simulated_seconds",
		Help:      "Simulated time in seconds.",
	}, func() float64 {
		return m.sched.CurrentTime().Seconds()
	}))

	reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "deltav",
		Name:      "delta_cycles_total",
		Help:      "Delta cycles executed since the start of the run.",
	}, func() float64 {
		return float64(m.sched.DeltaCount())
	}))

	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "deltav",
		Name:      "pending_timed_notifications",
		Help:      "Notifications waiting in the time wheel.",
	}, func() float64 {
		return float64(m.sched.TakeSnapshot().Pending)
	}))

	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "deltav",
		Name:      "processes",
		Help:      "Processes known to the scheduler.",
	}, func() float64 {
		return float64(len(m.sched.TakeSnapshot().Processes))
	}))

	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
