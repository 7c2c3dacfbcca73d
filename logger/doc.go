// Package logger provides structured logging for linekit hosts and the
// pipeline runner using zerolog.
//
// Library code (the pipeline runner, the command catalog) logs at debug
// level; hosts (the CLI and the HTTP server) log at info. The CLI sends
// console output to stderr so stdout carries only pipeline output.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//	  output: "stderr"
//
// # Usage
//
//	log := logger.Get("pipeline").WithContext(ctx)
//	log.Info("pipeline finished", logger.Fields(logger.FieldLinesOut, n))
package logger
