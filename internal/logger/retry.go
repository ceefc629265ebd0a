package logger

import "github.com/sirupsen/logrus"

// Leveled adapts a logrus entry to the LeveledLogger interface of
// go-retryablehttp.
type Leveled struct {
	Entry *logrus.Entry
}

func (l Leveled) Error(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Error(msg)
}

func (l Leveled) Info(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Info(msg)
}

// Debug is used by retryablehttp for every request, so it stays at debug.
func (l Leveled) Debug(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Debug(msg)
}

func (l Leveled) Warn(msg string, keysAndValues ...interface{}) {
	l.with(keysAndValues).Warn(msg)
}

func (l Leveled) with(kv []interface{}) *logrus.Entry {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		fields[key] = kv[i+1]
	}
	return l.Entry.WithFields(fields)
}
