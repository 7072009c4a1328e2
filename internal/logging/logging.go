// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/bookstore/internal/config"
)

// New builds a logger from configuration. Unknown levels fall back to info.
func New(cfg config.Log) *logrus.Logger {
	return NewWithOutput(cfg, os.Stdout)
}

func NewWithOutput(cfg config.Log, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.Out = out

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "text" {
		log.Formatter = &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		}
	} else {
		log.Formatter = &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "severity",
				logrus.FieldKeyMsg:   "message",
			},
			TimestampFormat: time.RFC3339Nano,
		}
	}

	return log
}

// GormLogLevel maps the logrus level onto gorm's SQL logger.
func GormLogLevel(log *logrus.Logger) gormlogger.LogLevel {
	switch {
	case log.IsLevelEnabled(logrus.DebugLevel):
		return gormlogger.Info
	case log.IsLevelEnabled(logrus.WarnLevel):
		return gormlogger.Warn
	case log.IsLevelEnabled(logrus.ErrorLevel):
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}

// GormLogger routes gorm's SQL logging through the given logrus logger.
func GormLogger(log *logrus.Logger) gormlogger.Interface {
	return gormlogger.New(
		log,
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  GormLogLevel(log),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
