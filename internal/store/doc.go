// Package store defines the document store contract used by the probes.
//
// A Store exposes the three verbs the measurements need (write with a
// generated or explicit ID, existence check by ID, delete by ID) plus a
// bounded listing used to clear leftovers before a throughput run.
//
// Implementations:
//   - store/firestore: Cloud Firestore via the Firebase Admin SDK
//   - store/memory: in-process map, used for dry runs and tests
//
// Missing documents are reported with ErrNotFound so callers can tell
// "absent" apart from transport failures.
package store
