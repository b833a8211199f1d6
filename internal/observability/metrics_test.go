package observability

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsWriteFile(t *testing.T) {
	m := NewMetricsForTesting()
	m.RowsRead.WithLabelValues("seattle").Add(3)
	m.RowsDropped.WithLabelValues("seattle", "coordinates").Inc()
	m.RunTimestamp.Set(1409529600)

	path := filepath.Join(t.TempDir(), "crime_report.prom")
	require.NoError(t, m.WriteFile(path))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), `crime_report_rows_read_total{region="seattle"} 3`)
	assert.Contains(t, string(body), `crime_report_rows_dropped_total{reason="coordinates",region="seattle"} 1`)
	assert.Contains(t, string(body), "crime_report_generated_timestamp_seconds")
}

func TestMetricsIndependentRegistries(t *testing.T) {
	// Two instances must not collide on registration.
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.RowsRead.WithLabelValues("seattle").Inc()
	b.RowsRead.WithLabelValues("seattle").Add(5)

	pathA := filepath.Join(t.TempDir(), "a.prom")
	require.NoError(t, a.WriteFile(pathA))

	body, err := os.ReadFile(pathA)
	require.NoError(t, err)
	assert.Contains(t, string(body), `crime_report_rows_read_total{region="seattle"} 1`)
}

func TestNewLogger(t *testing.T) {
	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&buf, "info", "text")
		logger.Info("hello", "region", "seattle")

		assert.Contains(t, buf.String(), "msg=hello")
		assert.Contains(t, buf.String(), "region=seattle")
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&buf, "info", "json")
		logger.Info("hello")

		assert.Contains(t, buf.String(), `"msg":"hello"`)
	})

	t.Run("level filter", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&buf, "warn", "text")
		logger.Info("quiet")
		logger.Warn("loud")

		assert.NotContains(t, buf.String(), "quiet")
		assert.Contains(t, buf.String(), "loud")
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&buf, "shouty", "text")
		logger.Debug("hidden")
		logger.Info("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("returns usable logger", func(t *testing.T) {
		logger := NewLogger("info", "json")
		assert.IsType(t, &slog.Logger{}, logger)
	})
}
