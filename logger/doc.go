// Package logger provides structured logging backed by zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.WithComponent("local-whisper")
//	log.Info("recognizer finished", logger.Fields("chars", 120))
package logger
