package wlog

import (
	"go.uber.org/zap/zapcore"
)

// zapCore adapts a Logger into a zapcore.Core so dependencies that insist on
// a *zap.Logger (Logger.Zap) still end up funneling through the same
// ordered-JSON output.
type zapCore struct {
	l Logger
}

func (c zapCore) Enabled(level zapcore.Level) bool {
	if c.l.Debug {
		return true
	}
	return level > zapcore.DebugLevel
}

func (c zapCore) With(fields []zapcore.Field) zapcore.Core {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	c.l = c.l.With(enc.Fields)
	return c
}

func (c zapCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c zapCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	l := c.l
	if entry.LoggerName != "" {
		l = l.Named(entry.LoggerName)
	}
	l.log(entry.Level == zapcore.DebugLevel, l.formatMsg(entry.Message, enc.Fields))
	return nil
}

func (c zapCore) Sync() error { return nil }
