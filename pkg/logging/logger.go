// Package logging provides the structured logging interface used across
// streamlink's components, backed by logrus.
package logging

import "github.com/sirupsen/logrus"

// Logger is the structured logging interface accepted by every component
// that performs I/O or makes scheduling decisions. It is small enough to be
// implemented by a logrus.Entry directly or faked in tests.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Debugln(args ...interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// entryLogger adapts a *logrus.Entry to the Logger interface.
type entryLogger struct {
	entry *logrus.Entry
}

// New returns a Logger backed by a fresh logrus.Logger writing to stderr in
// text format, the same default the teacher's cmd/main.go relies on.
func New() Logger {
	l := logrus.New()
	return &entryLogger{entry: logrus.NewEntry(l)}
}

// Wrap adapts an existing *logrus.Logger to the Logger interface.
func Wrap(l *logrus.Logger) Logger {
	return &entryLogger{entry: logrus.NewEntry(l)}
}

func (l *entryLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *entryLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *entryLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *entryLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *entryLogger) Debugln(args ...interface{})               { l.entry.Debugln(args...) }

func (l *entryLogger) WithField(key string, value interface{}) Logger {
	return &entryLogger{entry: l.entry.WithField(key, value)}
}

func (l *entryLogger) WithFields(fields map[string]interface{}) Logger {
	return &entryLogger{entry: l.entry.WithFields(fields)}
}
