// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics wires the engine and dispatcher into a real
// prometheus.Registry, which is itself a prometheus.Gatherer: no custom
// family-conversion layer is needed the way it would be for a metrics
// system that does not already speak the Prometheus wire format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/naamancurtis/trx/ledger"
)

// Metrics holds every counter/gauge trx exposes, backed by a private
// registry so process-wide metrics don't leak in and New can be called more
// than once in the same process (e.g. once per test) without duplicate
// registration.
type Metrics struct {
	registry *prometheus.Registry

	EventsTotal        *prometheus.CounterVec
	EventsIgnoredTotal *prometheus.CounterVec
	AccountsLocked     prometheus.Gauge
	ClientsTotal       prometheus.Gauge
}

// New builds and registers every metric, returning the resulting Metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		EventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trx",
			Name:      "events_total",
			Help:      "Total number of transaction events ingested, labeled by kind.",
		}, []string{"kind"}),
		EventsIgnoredTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trx",
			Name:      "events_ignored_total",
			Help:      "Total number of transaction events the engine declined to apply, labeled by reason.",
		}, []string{"reason"}),
		AccountsLocked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "trx",
			Name:      "accounts_locked",
			Help:      "Number of client accounts currently locked due to a chargeback.",
		}),
		ClientsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "trx",
			Name:      "clients_total",
			Help:      "Number of distinct clients seen in the stream so far.",
		}),
	}

	registry.MustRegister(
		m.EventsTotal,
		m.EventsIgnoredTotal,
		m.AccountsLocked,
		m.ClientsTotal,
	)
	return m
}

// Gatherer exposes the underlying registry for anything that wants to
// render these metrics (e.g. expfmt, or a future /metrics endpoint).
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// ObserveEvent increments the per-kind event counter. Call it from the
// Dispatcher's Ingest boundary, once per event, before handing the event to
// the engine.
func (m *Metrics) ObserveEvent(kind ledger.EventKind) {
	m.EventsTotal.WithLabelValues(kind.String()).Inc()
}

// Recorder wraps a ledger.Recorder, incrementing EventsIgnoredTotal for
// every ignored event before delegating to next. A nil next is legal
// (NopRecorder semantics).
type Recorder struct {
	metrics *Metrics
	next    ledger.Recorder
}

var _ ledger.Recorder = (*Recorder)(nil)

// WrapRecorder returns a ledger.Recorder that counts every ignored event
// before forwarding it to next (a telemetry.Recorder in the CLI's wiring, or
// ledger.NopRecorder in tests that don't care about logs).
func WrapRecorder(m *Metrics, next ledger.Recorder) *Recorder {
	if next == nil {
		next = ledger.NopRecorder{}
	}
	return &Recorder{metrics: m, next: next}
}

// RecordIgnored implements ledger.Recorder.
func (r *Recorder) RecordIgnored(evt ledger.Event, reason ledger.IgnoreReason) {
	r.metrics.EventsIgnoredTotal.WithLabelValues(reason.String()).Inc()
	r.next.RecordIgnored(evt, reason)
}

// SetAccountsLocked and SetClientsTotal are called once, after Finalize, by
// the CLI: the dispute state machine only settles once the whole stream has
// been applied, so these are snapshot gauges rather than metrics the engine
// could keep live itself without knowledge of every dispatcher topology.

// SetAccountsLocked sets the AccountsLocked gauge to n.
func (m *Metrics) SetAccountsLocked(n int) {
	m.AccountsLocked.Set(float64(n))
}

// SetClientsTotal sets the ClientsTotal gauge to n.
func (m *Metrics) SetClientsTotal(n int) {
	m.ClientsTotal.Set(float64(n))
}
