// Package requestid tags every request with an id that is echoed in the
// X-Request-ID header, stored in the context and added to log records
// through LoggerExtractor.
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r.Use(requestid.Middleware)
package requestid
