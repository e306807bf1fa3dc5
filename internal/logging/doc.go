// Package logging provides structured logging for upnpc.
//
// This package wraps a process-wide zap logger. Logging is silent unless a
// level is given through --log-level or the UPNPC_LOG_LEVEL environment
// variable, so scripted use of the tool sees only rendered device lines.
//
// # Log Levels
//
//   - Debug: SSDP responses, pipeline state changes, library chatter
//   - Info: discovery start and end
//   - Warn: device descriptions that could not be fetched
//   - Error: fatal failures
//
// # Structured Logging
//
//	logging.Info("Discovery finished",
//	    zap.Int("printed", 4),
//	    zap.Duration("elapsed", 3*time.Second),
//	)
//
// # Output Format
//
// Logs are written to stderr in console format. stdout is reserved for the
// rendered output so that `upnpc | sort` keeps working with logging enabled.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use once the logger has been
// initialized.
package logging
