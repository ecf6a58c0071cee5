package core

// Logger is the minimal logging surface used across apps.
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, err error, args ...interface{})
}
