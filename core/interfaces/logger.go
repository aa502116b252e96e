package interfaces

// Logger defines the interface for logging throughout the engine.
// This abstraction allows for different logging implementations (logrus, std log, etc.)
// while maintaining a consistent interface.
//
// Example usage:
//
//	logger.Info("Strategy succeeded", map[string]interface{}{
//		"strategy": "archive",
//		"results":  12,
//	})
//
//	logger.Warn("Strategy failed", map[string]interface{}{
//		"strategy": "bing",
//		"error":    err.Error(),
//	})
type Logger interface {
	// Debug logs a debug level message with optional structured fields.
	Debug(msg string, fields map[string]interface{})

	// Info logs an info level message with optional structured fields.
	Info(msg string, fields map[string]interface{})

	// Warn logs a warning level message with optional structured fields.
	// Used for upstream failures the engine recovers from.
	Warn(msg string, fields map[string]interface{})

	// Error logs an error level message with optional structured fields.
	Error(msg string, fields map[string]interface{})
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Debug(string, map[string]interface{}) {}
func (NopLogger) Info(string, map[string]interface{})  {}
func (NopLogger) Warn(string, map[string]interface{})  {}
func (NopLogger) Error(string, map[string]interface{}) {}

// LoggerOrNop returns l, or a NopLogger when l is nil
func LoggerOrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}
