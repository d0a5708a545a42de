// Package logger provides structured logging utilities built on Go's standard slog package.
//
// Loggers are built with a factory and functional options, and the package ships a set of
// attribute helpers for the values this module logs most: HTTP exchanges made by the request
// pipeline, session lifecycle events and storage backends.
//
// # Basic Usage
//
//	import "github.com/SinArtur/Sstu-DB/core/logger"
//
//	// Development: text format, debug level, stderr
//	log := logger.New(logger.WithDevelopment("sstu"))
//
//	// Production: JSON format, info level, stderr
//	log := logger.New(logger.WithProduction("raspproxy"))
//
//	// Custom configuration
//	log := logger.New(
//		logger.WithLevel(slog.LevelWarn),
//		logger.WithJSONFormatter(),
//		logger.WithAttr(slog.String("region", "eu")),
//		logger.WithOutput(os.Stdout),
//	)
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for zero values, so they can be passed
// unconditionally:
//
//	log.Error("refresh failed", logger.Component("client"), logger.Error(err))
//	log.Debug("request completed",
//		logger.Method(http.MethodGet),
//		logger.Path("/materials/"),
//		logger.StatusCode(200),
//		logger.Latency(time.Since(start)),
//		logger.RequestID(id),
//	)
//
// slog drops empty attributes, so logger.Error(nil) produces no output.
package logger
