// Package firestore adapts Cloud Firestore to store.Store.
//
// A Connector turns a credential file (or an emulator address) into one
// client handle for the life of the process. Connect is idempotent: the
// first call initializes the Firebase app, later calls return the same
// handle or the same error.
package firestore
