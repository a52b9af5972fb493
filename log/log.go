// Package log is the application logger: logrus writing to a daily file under where.Logs(),
// silent unless logs.write is enabled.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/filesystem"
	"github.com/ytfree-cli/ytfree/key"
	"github.com/ytfree-cli/ytfree/where"
)

var enabled bool

// Setup opens today's log file and applies the configured format and level.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		logrus.SetOutput(io.Discard)
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	path := filepath.Join(dir, time.Now().Format("2006-01-02")+".log")
	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	return nil
}

// Enabled reports whether log output is being written.
func Enabled() bool {
	return enabled
}

// Fields is an alias so callers do not import logrus directly.
type Fields = logrus.Fields

// Entry is a structured log line builder. Calls on it are no-ops while logging is disabled.
type Entry struct {
	e *logrus.Entry
}

// WithField starts a structured entry.
func WithField(k string, v any) Entry {
	return Entry{e: logrus.WithField(k, v)}
}

// WithFields starts a structured entry with several fields.
func WithFields(fields Fields) Entry {
	return Entry{e: logrus.WithFields(fields)}
}

func (e Entry) WithField(k string, v any) Entry {
	return Entry{e: e.e.WithField(k, v)}
}

func (e Entry) Debugf(format string, args ...any) {
	if enabled {
		e.e.Debugf(format, args...)
	}
}

func (e Entry) Infof(format string, args ...any) {
	if enabled {
		e.e.Infof(format, args...)
	}
}

func (e Entry) Warnf(format string, args ...any) {
	if enabled {
		e.e.Warnf(format, args...)
	}
}

func (e Entry) Errorf(format string, args ...any) {
	if enabled {
		e.e.Errorf(format, args...)
	}
}

func Error(args ...any) {
	if enabled {
		logrus.Error(args...)
	}
}

func Errorf(format string, args ...any) {
	if enabled {
		logrus.Errorf(format, args...)
	}
}

func Warn(args ...any) {
	if enabled {
		logrus.Warn(args...)
	}
}

func Warnf(format string, args ...any) {
	if enabled {
		logrus.Warnf(format, args...)
	}
}

func Info(args ...any) {
	if enabled {
		logrus.Info(args...)
	}
}

func Infof(format string, args ...any) {
	if enabled {
		logrus.Infof(format, args...)
	}
}

func Debug(args ...any) {
	if enabled {
		logrus.Debug(args...)
	}
}

func Debugf(format string, args ...any) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}

func Tracef(format string, args ...any) {
	if enabled {
		logrus.Tracef(format, args...)
	}
}
