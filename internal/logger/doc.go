// Package logger provides a simple, thread-safe leveled logger.
//
// The logger supports four levels: Debug, Info, Warn, and Error.
// Each line carries a timestamp, the level, an optional component tag
// (for example "availability" or "firestore"), and the message.
//
// # Basic Usage
//
//	logger.Info("", "probe started")
//	logger.Warn("packetloss", "write %d failed: %v", seq, err)
//
// Creating a custom logger:
//
//	l := logger.New(os.Stderr, logger.LevelDebug)
//	l.Debug("throughput", "batch done")
//
// # Levels from configuration
//
// ParseLevel maps the strings used in config files ("debug", "info",
// "warn", "error") onto Level values. SetLevel may be called while other
// goroutines log, which is how config reloads change verbosity.
package logger
