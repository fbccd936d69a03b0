package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
	FormatPretty  = "pretty"
)

// Logger is a zerolog logger carrying the service tag.
type Logger struct {
	zl      zerolog.Logger
	service string
}

var global atomic.Pointer[Logger]

// Init configures the process-wide logger returned by WithComponent.
func Init(cfg Config) {
	cfg.ApplyDefaults()
	global.Store(New(&cfg, cfg.ServiceName))
}

func defaultLogger() *Logger {
	if l := global.Load(); l != nil {
		return l
	}
	cfg := Config{}
	cfg.ApplyDefaults()
	l := New(&cfg, "")
	global.CompareAndSwap(nil, l)
	return global.Load()
}

// New builds a logger from cfg. An unknown level falls back to info. The
// level also becomes zerolog's global level, which gin mode follows.
func New(cfg *Config, serviceName string) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	out := outputWriter(cfg)
	var zl zerolog.Logger
	if isConsole(cfg.Format) {
		zl = zerolog.New(consoleWriter(out, serviceName, cfg.NoColor))
	} else {
		zl = zerolog.New(out)
		if serviceName != "" {
			zl = zl.With().Str("service", serviceName).Logger()
		}
	}
	if cfg.Timestamp || isConsole(cfg.Format) {
		zl = zl.With().Timestamp().Logger()
	}
	if cfg.Caller {
		zl = zl.With().Caller().Logger()
	}
	return &Logger{zl: zl, service: serviceName}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// WithComponent tags the process-wide logger with a component name.
func WithComponent(name string) *Logger {
	return defaultLogger().WithComponent(name)
}

type requestIDKey struct{}

// ContextWithRequestID stores id for WithContext.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the stored request ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithContext adds the request ID and the active trace ID found in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	zc := l.zl.With()
	if id := RequestIDFromContext(ctx); id != "" {
		zc = zc.Str(FieldRequestID, id)
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		zc = zc.Str(FieldTraceID, sc.TraceID().String())
	}
	return &Logger{zl: zc.Logger(), service: l.service}
}

// WithComponent returns a child logger tagged with name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{zl: l.zl.With().Str(FieldComponent, name).Logger(), service: l.service}
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	emit(l.zl.Error(), msg, fields)
}

func emit(e *zerolog.Event, msg string, fields []map[string]interface{}) {
	for _, fm := range fields {
		for k, v := range fm {
			e = e.Interface(k, v)
		}
	}
	e.Msg(msg)
}

func isConsole(format string) bool {
	switch strings.ToLower(format) {
	case FormatConsole, FormatPretty:
		return true
	}
	return false
}

func outputWriter(cfg *Config) io.Writer {
	if cfg.Writer != nil {
		return cfg.Writer
	}
	if strings.EqualFold(cfg.Output, "stdout") {
		return os.Stdout
	}
	return os.Stderr
}

var levelStyle = map[string]struct{ tag, color string }{
	"debug": {"DBG", "\033[36m"},
	"info":  {"INF", "\033[32m"},
	"warn":  {"WRN", "\033[33m"},
	"error": {"ERR", "\033[31m"},
	"fatal": {"FTL", "\033[35m"},
}

// consoleWriter prefixes each line with a three-letter service tag and a
// level tag, e.g. "[VOI][WRN]".
func consoleWriter(out io.Writer, serviceName string, noColor bool) zerolog.ConsoleWriter {
	paint := func(color, s string) string {
		if noColor {
			return s
		}
		return color + s + "\033[0m"
	}
	prefix := ""
	if len(serviceName) >= 3 {
		prefix = paint("\033[34m", "["+strings.ToUpper(serviceName[:3])+"]")
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			raw := fmt.Sprint(i)
			style, ok := levelStyle[raw]
			if !ok {
				return prefix + "[" + strings.ToUpper(raw) + "]"
			}
			return prefix + paint(style.color, "["+style.tag+"]")
		},
		FormatFieldName: func(i interface{}) string { return fmt.Sprint(i) + ":" },
	}
}
