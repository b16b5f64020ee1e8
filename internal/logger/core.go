package logger

import (
	"go.uber.org/zap/zapcore"
)

// RingCore is a custom Zap Core that intercepts logs
type RingCore struct {
	zapcore.Core
	writer *RingWriter
}

// NewRingCore wraps an existing core (like the console logger) and adds
// buffered capture for the operator API
func NewRingCore(baseCore zapcore.Core, writer *RingWriter) zapcore.Core {
	return &RingCore{
		Core:   baseCore,
		writer: writer,
	}
}

// Write is called for every log entry
func (c *RingCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	// Extract contextual fields we care about (table, mapping)
	var table, mapping string
	for _, f := range fields {
		if f.Key == "table" {
			table = f.String
		}
		if f.Key == "mapping" {
			mapping = f.String
		}
	}

	c.writer.AddLog(LogEntry{
		Level:   entry.Level,
		Message: entry.Message,
		Table:   table,
		Mapping: mapping,
		Caller:  entry.Caller.Function,
		Time:    entry.Time,
	})

	// Call the underlying core so it still prints to console
	return c.Core.Write(entry, fields)
}

// Check decides if we should log this level
func (c *RingCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
