// Package logger sets up the JSON slog logger every studyhall process writes
// through, tagged with service=studyhall and filtered at the configured
// server.log_level.
//
// Request-scoped loggers travel in the context: middleware attaches one with
// WithLogger, and services and the quiz engine pull it back out with
// FromContextOrDefault so their entries carry the trace ID.
package logger
