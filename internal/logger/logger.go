// Package logger configures logrus for the whole process and hands out
// namespaced entries.
package logger

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Options contains the configuration values of the logger system
type Options struct {
	Output io.Writer
	Level  string
	// Format is "text" or "json".
	Format string
}

// Init configures the standard logrus logger.
func Init(opt Options) error {
	level := opt.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}

	l := logrus.StandardLogger()
	l.SetLevel(lvl)
	if opt.Output != nil {
		l.SetOutput(opt.Output)
	}
	switch opt.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// WithNamespace returns a logger with the specified nspace field.
func WithNamespace(nspace string) *logrus.Entry {
	return logrus.WithField("nspace", nspace)
}

// IsDebug returns whether or not the debug mode is activated.
func IsDebug() bool {
	return logrus.IsLevelEnabled(logrus.DebugLevel)
}
