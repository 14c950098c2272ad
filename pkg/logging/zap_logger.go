// Copyright 2025 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"io"
	"maps"
	"os"
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ Logger = (*ZapLogger)(nil)

// Options configures New.
type Options struct {
	// Level sets the minimum level to output.
	Level LogLevel
	// Format selects text or JSON lines.
	Format LogFormat
	// Output receives the log lines. Defaults to os.Stderr.
	Output io.Writer
	// TimeFormat is a time layout for timestamps. Empty disables them in
	// text output; JSON output falls back to RFC 3339.
	TimeFormat string
	// ShowLevel prefixes text lines with the upper-case level.
	ShowLevel bool
}

// DefaultOptions returns info-level text output on standard error.
func DefaultOptions() Options {
	return Options{
		Level:  LevelInfo,
		Format: FormatText,
		Output: os.Stderr,
	}
}

// ZapLogger implements Logger on a zap SugaredLogger. Loggers derived
// with WithField share the level of their parent.
type ZapLogger struct {
	sugar *zap.SugaredLogger
	atom  zap.AtomicLevel
}

// New builds a logger from opts.
func New(opts Options) *ZapLogger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	atom := zap.NewAtomicLevelAt(toZapLevel(opts.Level))
	core := zapcore.NewCore(newEncoder(opts), zapcore.Lock(zapcore.AddSync(out)), atom)

	return &ZapLogger{sugar: zap.New(core).Sugar(), atom: atom}
}

func newEncoder(opts Options) zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	if opts.Format == FormatJSON {
		layout := opts.TimeFormat
		if layout == "" {
			layout = "2006-01-02T15:04:05Z07:00"
		}
		cfg.TimeKey = "timestamp"
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout(layout)
		cfg.LevelKey = "level"
		cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		return zapcore.NewJSONEncoder(cfg)
	}

	cfg.ConsoleSeparator = " "
	if opts.TimeFormat != "" {
		cfg.TimeKey = "timestamp"
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout(opts.TimeFormat)
	}
	if opts.ShowLevel {
		cfg.LevelKey = "level"
		cfg.EncodeLevel = bracketLevelEncoder
	}
	return zapcore.NewConsoleEncoder(cfg)
}

func bracketLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + l.CapitalString() + "]")
}

func toZapLevel(l LogLevel) zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InvalidLevel
	}
}

func fromZapLevel(l zapcore.Level) LogLevel {
	switch l {
	case zapcore.DebugLevel:
		return LevelDebug
	case zapcore.InfoLevel:
		return LevelInfo
	case zapcore.WarnLevel:
		return LevelWarn
	case zapcore.ErrorLevel:
		return LevelError
	default:
		return LevelSilent
	}
}

// WithFields returns a child logger carrying fields, added in key order.
func (l *ZapLogger) WithFields(fields map[string]any) Logger {
	args := make([]any, 0, 2*len(fields))
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		args = append(args, k, fields[k])
	}
	return &ZapLogger{sugar: l.sugar.With(args...), atom: l.atom}
}

// WithField returns a child logger carrying key=value.
func (l *ZapLogger) WithField(key string, value any) Logger {
	return &ZapLogger{sugar: l.sugar.With(key, value), atom: l.atom}
}

// SetLevel changes the level of l and every logger derived from it.
func (l *ZapLogger) SetLevel(level LogLevel) {
	l.atom.SetLevel(toZapLevel(level))
}

// GetLevel returns the current minimum level.
func (l *ZapLogger) GetLevel() LogLevel {
	return fromZapLevel(l.atom.Level())
}

// Silent reports whether debug output is suppressed.
func (l *ZapLogger) Silent() bool {
	return !l.atom.Enabled(zapcore.DebugLevel)
}

// IsLevelEnabled reports whether entries at level are emitted.
func (l *ZapLogger) IsLevelEnabled(level LogLevel) bool {
	return level != LevelSilent && l.atom.Enabled(toZapLevel(level))
}

// Sync flushes buffered output.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}

func (l *ZapLogger) Debug(format string, args ...any) { l.sugar.Debugf(format, args...) }
func (l *ZapLogger) Debugln(msg string)               { l.sugar.Debug(msg) }
func (l *ZapLogger) Info(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *ZapLogger) Infoln(msg string)                { l.sugar.Info(msg) }
func (l *ZapLogger) Warn(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *ZapLogger) Warnln(msg string)                { l.sugar.Warn(msg) }
func (l *ZapLogger) Error(format string, args ...any) { l.sugar.Errorf(format, args...) }
func (l *ZapLogger) Errorln(msg string)               { l.sugar.Error(msg) }
