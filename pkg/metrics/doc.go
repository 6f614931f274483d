/*
Package metrics defines and registers the Prometheus metrics exposed by the
admin consumer. Gauges track queue depth, checkpoint lag, and leadership;
counters track consumption and dispatch outcomes; histograms track per-kind
dispatch latency and checkpoint duration. All metrics register at package
init and are served over /metrics via Handler.

Naming follows the admin_consumer_ prefix throughout so dashboards and
alerts can be written against a stable namespace regardless of which
LogStream, AdminBackend, or LeaderOracle backing is wired in at runtime.

Usage:

	timer := metrics.NewTimer()
	err := table.Dispatch(ctx, op)
	timer.ObserveDurationVec(metrics.DispatchLatency, string(op.Kind))
*/
package metrics
