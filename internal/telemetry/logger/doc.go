// Package logger provides structured logging for printlink on log/slog.
//
// Every logger shares one level, which the admin socket and config reload
// change at runtime. Request and trace ids travel in the context and are
// attached with ContextAttrs.
//
// Print data never reaches the log in clear. Attributes whose key names a
// payload are replaced by their size, credential-like keys are redacted
// and long opaque values are masked.
package logger
