// Package logger builds *slog.Logger values with functional options, shared
// attribute constructors and context-value injection.
//
//	log := logger.New(
//		logger.WithConfig(cfg),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "submission finished",
//		logger.SubmissionID(id),
//		logger.Category("success"),
//	)
//
// New picks a JSON or text handler and wraps it in LogHandlerDecorator, which
// runs every ContextExtractor against the record's context. Nop returns a
// logger for tests and for callers that do not want output.
package logger
