// Package metrics holds the probe counters and the statistics derived
// from them.
//
// Counters records successes, failures and verified documents together
// with latency samples. The derivations are pure functions of those
// counts:
//
//	pct, ok := metrics.Availability(successes, failures) // ok=false: no attempts
//	pct, ok := metrics.Loss(sent, verified)              // ok=false: nothing sent
//	rate, ok := metrics.Throughput(units, elapsed)       // ok=false: elapsed is 0
//
// When ok is false the value is 0 and callers print the matching
// "no data" message instead of a percentage.
//
// # Prometheus
//
// Collector exports per-operation counters and latency histograms on a
// caller-supplied registerer. The status server serves that registry on
// /metrics.
//
// # Thread Safety
//
// Counters uses atomics for the counts and a mutex for latency samples so
// the status server can read a Snapshot while a driver is writing.
package metrics
