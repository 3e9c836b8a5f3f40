// Package log provides structured logging for the pratt module.
//
// A Logger writes entries in one of four formats (JSON, text, console,
// logfmt) and is immutable: WithField, WithRequestID and friends return
// configured copies that share the underlying writer.
//
//	logger := log.NewWithConfig(log.Config{Level: log.LevelDebug, Format: log.FormatText})
//	logger.WithRequestID(id).Info("evaluate", log.Fields{"mode": "eval"})
//
// The parsing engine logs at trace level and checks IsLevelEnabled before
// building any fields, so a logger above trace costs nothing per token.
package log
