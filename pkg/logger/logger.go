package logger

// Field is a structured key/value attached to a log line.
type Field struct {
	Key   string
	Value any
}

// Logger is the logging surface every package depends on.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Err is shorthand for the error field used across services.
func Err(err error) Field {
	return Field{Key: "err", Value: err}
}
