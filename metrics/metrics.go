// Package metrics exposes relay registry counters to Prometheus.
//
// The Collector reads a facade's stats snapshot at scrape time, so no
// instrumentation runs on the dispatch hot path beyond the atomic
// counters the registries already keep.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/relaycore/relay/facade"
)

const namespace = "relay"

// Collector implements prometheus.Collector over a facade's stats.
type Collector struct {
	f *facade.Facade

	broadcasts    *prometheus.Desc
	deliveries    *prometheus.Desc
	handlerErrors *prometheus.Desc
	handlerPanics *prometheus.Desc
	executions    *prometheus.Desc
	failures      *prometheus.Desc
	mediators     *prometheus.Desc
	subscriptions *prometheus.Desc
	proxies       *prometheus.Desc
	commands      *prometheus.Desc
}

// NewCollector creates a collector for the given facade. Register it with
// a prometheus.Registerer to expose the metrics.
func NewCollector(f *facade.Facade) *Collector {
	return &Collector{
		f: f,
		broadcasts: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "broadcasts_total"),
			"Notifications broadcast to at least one observer.", nil, nil),
		deliveries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "deliveries_total"),
			"Successful observer invocations.", nil, nil),
		handlerErrors: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "handler_errors_total"),
			"Observer invocations that returned an error.", nil, nil),
		handlerPanics: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "handler_panics_total"),
			"Observer invocations that panicked.", nil, nil),
		executions: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "command_executions_total"),
			"Commands instantiated and run.", nil, nil),
		failures: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "command_failures_total"),
			"Command executions that failed.", nil, nil),
		mediators: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "mediators"),
			"Currently registered mediators.", nil, nil),
		subscriptions: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "subscriptions"),
			"Current observer registrations across all notification names.", nil, nil),
		proxies: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "proxies"),
			"Currently registered proxies.", nil, nil),
		commands: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "commands"),
			"Currently mapped command notification names.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.broadcasts
	ch <- c.deliveries
	ch <- c.handlerErrors
	ch <- c.handlerPanics
	ch <- c.executions
	ch <- c.failures
	ch <- c.mediators
	ch <- c.subscriptions
	ch <- c.proxies
	ch <- c.commands
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.f.Stats()

	ch <- prometheus.MustNewConstMetric(c.broadcasts, prometheus.CounterValue, float64(stats.View.Broadcasts))
	ch <- prometheus.MustNewConstMetric(c.deliveries, prometheus.CounterValue, float64(stats.View.Deliveries))
	ch <- prometheus.MustNewConstMetric(c.handlerErrors, prometheus.CounterValue, float64(stats.View.HandlerErrors))
	ch <- prometheus.MustNewConstMetric(c.handlerPanics, prometheus.CounterValue, float64(stats.View.HandlerPanics))
	ch <- prometheus.MustNewConstMetric(c.executions, prometheus.CounterValue, float64(stats.Controller.Executions))
	ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue, float64(stats.Controller.Failures))
	ch <- prometheus.MustNewConstMetric(c.mediators, prometheus.GaugeValue, float64(stats.View.Mediators))
	ch <- prometheus.MustNewConstMetric(c.subscriptions, prometheus.GaugeValue, float64(stats.View.Subscriptions))
	ch <- prometheus.MustNewConstMetric(c.proxies, prometheus.GaugeValue, float64(stats.Proxies))
	ch <- prometheus.MustNewConstMetric(c.commands, prometheus.GaugeValue, float64(stats.Controller.Commands))
}
