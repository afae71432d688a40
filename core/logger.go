package core

// Logger is the app-wide leveled logger.
// args may carry anything worth reporting alongside msg: an error,
// a map[string]interface{} of extras, the acting user.User...
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
