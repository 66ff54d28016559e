// Package metrics defines the sinks that observe the decision layer. Every
// sink records solve events; sinks may also implement RouteStatsRecorder or
// FleetSizeRecorder. PromSink and InfluxSink live in infra/metrics and are
// combined with NewMultiSink. NewMetricsSink returns a MultiSink when
// multiple sinks are configured.
package metrics
