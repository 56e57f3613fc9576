// Package logger provides structured logging on top of zerolog.
//
// Loggers carry a service tag and optional component/run fields; messages
// take an optional map of structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.Get("runner")
//	log.Info("run started", logger.Fields("run_id", id, "nodes", n))
package logger
