// Package logger provides the structured logging interface used across pru.
//
// It wraps zerolog with a small Logger interface so packages can accept a
// logger without depending on zerolog directly. Console output goes to
// stderr so that listings printed to stdout stay machine readable. Every
// logger carries a run_id field identifying one invocation.
//
// Basic Usage:
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	logger.GetLogger().WithField("camera", "A").Info("fetch started")
//
// Tests use NewTestLogger to capture messages or NewNopLogger to discard them.
package logger
