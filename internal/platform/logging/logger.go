// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Level  string
	Pretty bool
}

// SetupLogger configures the global zerolog logger.
func SetupLogger(cfg Config) {
	SetupLoggerTo(os.Stdout, cfg)
}

func SetupLoggerTo(out io.Writer, cfg Config) {
	output := out
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// RetryLogger adapts a zerolog logger to retryablehttp.LeveledLogger.
type RetryLogger struct {
	Logger zerolog.Logger
}

func (l RetryLogger) Error(msg string, keysAndValues ...any) {
	l.event(l.Logger.Error(), msg, keysAndValues)
}

func (l RetryLogger) Info(msg string, keysAndValues ...any) {
	l.event(l.Logger.Info(), msg, keysAndValues)
}

func (l RetryLogger) Debug(msg string, keysAndValues ...any) {
	l.event(l.Logger.Debug(), msg, keysAndValues)
}

func (l RetryLogger) Warn(msg string, keysAndValues ...any) {
	l.event(l.Logger.Warn(), msg, keysAndValues)
}

func (l RetryLogger) event(e *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		e = e.Interface(fmt.Sprint(kv[i]), kv[i+1])
	}
	e.Msg(msg)
}
