package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

type LoggerType uint8

const (
	ConsoleLogger LoggerType = iota
	JSONLogger
)

// sink is where the component loggers write and the level they filter at.
type sink struct {
	out   io.Writer
	level zerolog.Level
}

// output is the writer shared by every component logger. Init swaps its sink,
// so the loggers themselves never change and can be read from any goroutine,
// runtime cleanups included.
type output struct {
	cur atomic.Pointer[sink]
}

func (o *output) Write(p []byte) (int, error) {
	return o.cur.Load().out.Write(p)
}

func (o *output) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	s := o.cur.Load()
	if l < s.level {
		return len(p), nil
	}
	return s.out.Write(p)
}

var out = newOutput()

func newOutput() *output {
	o := &output{}
	o.cur.Store(&sink{out: io.Discard, level: zerolog.Disabled})
	return o
}

// Component loggers. They discard everything until Init is called.
var (
	Root      = zerolog.New(out).With().Timestamp().Logger()
	Binding   = Root.With().Str("component", "binding").Logger()
	Engine    = Root.With().Str("component", "engine").Logger()
	Finalizer = Root.With().Str("component", "finalizer").Logger()
)

// Options for Logger
type Options struct {
	// Enable Debug loglevel, default Info
	LogLevel zerolog.Level
	Type     LoggerType
	// Out defaults to os.Stdout
	Out io.Writer
}

func ParseLogLevel(loglevel string) (zerolog.Level, error) {
	return zerolog.ParseLevel(loglevel)
}

func ParseLoggerType(t string) (LoggerType, error) {
	switch strings.ToLower(t) {
	case "", "console":
		return ConsoleLogger, nil
	case "json":
		return JSONLogger, nil
	default:
		return ConsoleLogger, fmt.Errorf("unknown logger type %q", t)
	}
}

// Init points every component logger at opts.Out (stdout by default) with the
// given format and level. It is safe to call while handles are being
// reclaimed.
func Init(opts Options) {
	w := opts.Out
	if w == nil {
		w = os.Stdout
	}
	if opts.Type == ConsoleLogger {
		w = newConsoleWriter(w)
	}
	out.cur.Store(&sink{out: w, level: opts.LogLevel})
}

func newConsoleWriter(out io.Writer) zerolog.ConsoleWriter {
	cw := zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: time.RFC3339}

	cw.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}

	cw.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("message: \"%s\" |", i)
	}

	cw.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("\"%s\": ", i)
	}

	cw.FormatFieldValue = func(i interface{}) string {
		return fmt.Sprintf("\"%s\" |", i)
	}

	cw.FormatErrFieldValue = func(i interface{}) string {
		return fmt.Sprintf(" %s |", i)
	}
	return cw
}
