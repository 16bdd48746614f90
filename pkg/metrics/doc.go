// Package metrics exports scheduler and patch counters to Prometheus.
//
// A Collector satisfies both reactive.Metrics and vdom.Metrics, so one value
// can be handed to a Runtime and a Patcher:
//
//	m := metrics.New(metrics.WithRegistry(reg))
//	rt := reactive.New(reactive.WithMetrics(m))
//	p := vdom.NewPatcher(host, vdom.WithMetrics(m))
//
// Metrics collected (default namespace "tether"):
//   - tether_flushes_total: scheduler flushes
//   - tether_flush_duration_seconds: flush duration
//   - tether_watcher_runs_total: watcher runs by kind
//   - tether_circular_updates_total: flushes aborted by the update limit
//   - tether_errors_handled_total: errors routed to the global handler, by source
//   - tether_warnings_total: warnings by code
//   - tether_patches_total: Patch calls by status
//   - tether_patch_duration_seconds: Patch duration
//   - tether_patch_ops_total: host mutations by op
package metrics
