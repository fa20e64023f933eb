// Package chaos injects faults into a store.Store.
//
// Injector wraps any store and, per call, can fail with a configured
// probability, add a fixed delay, or refuse everything while "killed".
// Outages drives Kill/Revive on a fixed period to rehearse outage windows.
// Dry runs use both against the in-memory store; tests use them to drive
// the failure counters deterministically.
package chaos
