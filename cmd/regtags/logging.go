package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/scottbass3/regtags/internal/registry"
)

func setupLogger(out io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), errors.Wrap(err, "invalid log level")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: out}).Level(lvl)
	return zlog.Logger, nil
}

func newRequestLogger(logger zerolog.Logger, ch chan<- string) registry.RequestLogger {
	return func(log registry.RequestLog) {
		logger.Debug().
			Str("method", log.Method).
			Str("url", log.URL).
			Int("status", log.Status).
			Bool("cached", log.Cached).
			Msg("registry request")
		if ch == nil {
			return
		}
		select {
		case ch <- formatRequestLog(log):
		default:
		}
	}
}

func formatRequestLog(log registry.RequestLog) string {
	var b strings.Builder
	b.WriteString(log.Method)
	b.WriteString(" ")
	b.WriteString(log.URL)
	if log.Status > 0 {
		b.WriteString(" -> ")
		b.WriteString(fmt.Sprintf("%d", log.Status))
	}
	if log.Cached {
		b.WriteString(" (cached)")
	}
	if len(log.Headers) == 0 {
		return b.String()
	}

	b.WriteString(" | ")
	keys := make([]string, 0, len(log.Headers))
	for key := range log.Headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for i, key := range keys {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(strings.Join(log.Headers[key], ","))
	}
	return b.String()
}
