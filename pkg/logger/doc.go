// Package logger builds slog loggers for sessionkit services and provides
// attribute helpers for session events.
//
// New returns a JSON logger at info level on stdout; options change the
// format, level, output and static attributes. WithEnvironment applies the
// preset of an environment (text and debug for development, JSON and info
// otherwise). NewFromConfig does the same from LOG_LEVEL, LOG_FORMAT,
// APP_NAME and APP_ENV.
//
// Context extractors add request scoped attributes at log time:
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "sessionkit"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "session started", logger.SessionID(id))
//
// SessionID and Fingerprint mask their values, so full credentials never
// reach the output. Error and Errors return an empty attribute for nil
// errors, which slog drops.
package logger
