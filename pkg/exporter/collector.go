// Package exporter exposes interface snapshots to Prometheus and over a
// small JSON API.
package exporter

import (
	"time"

	"github.com/danpilch/ifstat/pkg/collectors/network"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const namespace = "ifstat"

// Snapshotter takes one fresh snapshot per call.
type Snapshotter interface {
	Collect() (*network.Snapshot, error)
}

type counterDesc struct {
	counter network.Counter
	desc    *prometheus.Desc
}

// Collector is a prometheus.Collector that polls a Snapshotter on every scrape.
type Collector struct {
	source Snapshotter
	logger logrus.FieldLogger

	info     *prometheus.Desc
	speed    *prometheus.Desc
	counters []counterDesc
	warnings *prometheus.Desc
	success  *prometheus.Desc
	duration *prometheus.Desc
}

// NewCollector creates a collector over source.
func NewCollector(source Snapshotter, logger logrus.FieldLogger) *Collector {
	ifaceLabel := []string{"interface"}
	c := &Collector{
		source: source,
		logger: logger,
		info: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "interface", "info"),
			"Interface addresses, value is always 1.",
			[]string{"interface", "ipv4", "ipv6"}, nil),
		speed: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "interface", "speed_mbps"),
			"Link speed in Mb/s, 0 when unknown.",
			ifaceLabel, nil),
		warnings: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "collection", "warnings"),
			"Statistics that could not be read in the last collection.",
			nil, nil),
		success: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "collection", "success"),
			"1 if interfaces could be enumerated, 0 otherwise.",
			nil, nil),
		duration: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "collection", "duration_seconds"),
			"Time taken by the last collection.",
			nil, nil),
	}

	for _, counter := range network.TrafficCounters {
		c.counters = append(c.counters, counterDesc{
			counter: counter,
			desc: prometheus.NewDesc(
				prometheus.BuildFQName(namespace, "interface", metricName(counter)),
				"Cumulative "+counterHelp[counter]+" since the interface was created.",
				ifaceLabel, nil),
		})
	}
	return c
}

var counterHelp = map[network.Counter]string{
	network.RxBytes:   "bytes received",
	network.RxPackets: "packets received",
	network.RxErrors:  "receive errors",
	network.RxDropped: "received packets dropped",
	network.TxBytes:   "bytes transmitted",
	network.TxPackets: "packets transmitted",
	network.TxErrors:  "transmit errors",
	network.TxDropped: "transmitted packets dropped",
}

// metricName maps rx_bytes to receive_bytes_total.
func metricName(counter network.Counter) string {
	s := string(counter)
	switch s[:2] {
	case "rx":
		s = "receive" + s[2:]
	case "tx":
		s = "transmit" + s[2:]
	}
	return s + "_total"
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.info
	ch <- c.speed
	for _, cd := range c.counters {
		ch <- cd.desc
	}
	ch <- c.warnings
	ch <- c.success
	ch <- c.duration
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	start := time.Now()
	snapshot, err := c.source.Collect()
	elapsed := time.Since(start).Seconds()

	ch <- prometheus.MustNewConstMetric(c.duration, prometheus.GaugeValue, elapsed)
	if err != nil {
		// The collector has already logged the failure.
		ch <- prometheus.MustNewConstMetric(c.success, prometheus.GaugeValue, 0)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.success, prometheus.GaugeValue, 1)
	ch <- prometheus.MustNewConstMetric(c.warnings, prometheus.GaugeValue, float64(len(snapshot.Warnings)))

	for _, s := range snapshot.Interfaces {
		ch <- prometheus.MustNewConstMetric(c.info, prometheus.GaugeValue, 1, s.Name, s.IPv4Address, s.IPv6Address)
		ch <- prometheus.MustNewConstMetric(c.speed, prometheus.GaugeValue, float64(s.SpeedMbps), s.Name)
		for _, cd := range c.counters {
			ch <- prometheus.MustNewConstMetric(cd.desc, prometheus.CounterValue, float64(s.Get(cd.counter)), s.Name)
		}
	}
	c.logger.WithFields(logrus.Fields{
		"interfaces": len(snapshot.Interfaces),
		"warnings":   len(snapshot.Warnings),
	}).Debug("Scrape collected")
}
