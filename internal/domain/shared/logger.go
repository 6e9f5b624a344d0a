package shared

// Logger is the logging port used by domain components.
// The application layer aliases it, so one adapter serves both.
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Log levels understood by the adapters
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARNING"
	LevelError = "ERROR"
)

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Log(string, string, map[string]interface{}) {}

// LoggerOrNop returns l, or a NopLogger when l is nil
func LoggerOrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}
