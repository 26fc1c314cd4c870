package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// InitSlog installs a text handler writing to `out` as the default slog logger.
func InitSlog(out io.Writer, level slog.Level) {
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// ParseLevel turns a flag value like "debug" or "WARN" into a slog level.
func ParseLevel(value string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(strings.TrimSpace(value)))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", value)
	}
	return level, nil
}

var meter = otel.Meter("tmdb-scraper/telemetry")

// SlogAPI implements API using the log/slog package, counts are also
// recorded to an otel gauge so they show up when metrics export is on.
type SlogAPI struct {
	counts metric.Int64Gauge
}

func NewSlogAPI() SlogAPI {
	gauge, err := meter.Int64Gauge("report_count")
	if err != nil {
		slog.Warn("failed to create report_count gauge", "err", err)
	}
	return SlogAPI{counts: gauge}
}

func (SlogAPI) formatParams(out *[]any, params []any) {
	for i, p := range params {
		*out = append(
			*out,
			fmt.Sprintf("params.%d", i),
			p,
		)
	}
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	remainingPairs := []any{"id", id}
	s.formatParams(&remainingPairs, params)
	slog.Error("broken component", remainingPairs...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	remainingPairs := []any{"id", id}
	s.formatParams(&remainingPairs, params)
	slog.Warn("warning", remainingPairs...)
}

func (s SlogAPI) ReportDebug(message string, params ...any) {
	remainingPairs := []any{}
	s.formatParams(&remainingPairs, params)
	slog.Debug(message, remainingPairs...)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	slog.Info("count", "id", id, "n", count)
	if s.counts != nil {
		s.counts.Record(context.Background(), count, metric.WithAttributes(idAttr(id)))
	}
}
