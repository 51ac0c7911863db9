package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
}

func TestNew_DoesNotPanic(t *testing.T) {
	for _, f := range []string{"json", "console"} {
		l := New(Config{Level: "debug", Format: f})
		l.Info("hello", zap.String("format", f))
	}
}

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn)
	fc := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	gl.Trace(context.Background(), time.Now(), fc, gorm.ErrRecordNotFound)
	gl.Trace(context.Background(), time.Now().Add(-time.Second), fc, nil)

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "query failed", entries[0].Message)
		assert.Equal(t, "slow query", entries[1].Message)
	}

	silent := gl.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), fc, errors.New("ignored"))
	assert.Len(t, logs.All(), 2)
}
