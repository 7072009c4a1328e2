package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/bookstore/internal/config"
)

func TestNew_JSONFieldNames(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(config.Log{Level: "info", Format: "json"}, &buf)

	log.WithField("book_id", "42").Info("book liked")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "book liked", entry["message"])
	assert.Equal(t, "info", entry["severity"])
	assert.Equal(t, "42", entry["book_id"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	log := NewWithOutput(config.Log{Level: "loud"}, &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestGormLogLevel(t *testing.T) {
	cases := map[string]gormlogger.LogLevel{
		"debug": gormlogger.Info,
		"info":  gormlogger.Warn,
		"error": gormlogger.Error,
		"panic": gormlogger.Silent,
	}
	for level, want := range cases {
		t.Run(level, func(t *testing.T) {
			log := NewWithOutput(config.Log{Level: level}, &bytes.Buffer{})
			assert.Equal(t, want, GormLogLevel(log))
		})
	}
}
