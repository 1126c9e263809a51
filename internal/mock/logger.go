package mock

import "c2_console/internal/core"

// NopLogger discards everything. Handy for tests that do not assert on
// log output.
type NopLogger struct{}

func (l *NopLogger) Debug(msg string, fields ...interface{})               {}
func (l *NopLogger) Info(msg string, fields ...interface{})                {}
func (l *NopLogger) Warn(msg string, fields ...interface{})                {}
func (l *NopLogger) Error(msg string, fields ...interface{})               {}
func (l *NopLogger) Fatal(msg string, fields ...interface{})               {}
func (l *NopLogger) WithField(k string, v interface{}) core.ILogger        { return l }
func (l *NopLogger) WithFields(fields map[string]interface{}) core.ILogger { return l }

var _ core.ILogger = (*NopLogger)(nil)
