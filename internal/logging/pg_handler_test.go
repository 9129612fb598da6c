package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryWriter struct {
	mu   sync.Mutex
	rows []models.SystemLog
}

func (w *memoryWriter) WriteLogs(_ context.Context, batch []models.SystemLog) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = append(w.rows, batch...)
	return nil
}

func (w *memoryWriter) snapshot() []models.SystemLog {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.SystemLog(nil), w.rows...)
}

func TestPGHandler_OnlyErrorsAreStored(t *testing.T) {
	w := &memoryWriter{}
	h := NewBatchHandler(w, time.Hour)
	logger := slog.New(h).With("request_id", "req-1")

	logger.Info("complaint submitted", "complaint_id", uint(3))
	logger.Error("store failed",
		"complaint_id", uint(3),
		"action", "submit",
		"error", "connection reset",
		"latency_ms", 12.6,
		"asset", "before-1-abc.jpg",
	)
	h.Stop()

	rows := w.snapshot()
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "ERROR", row.Level)
	assert.Equal(t, "store failed", row.Message)
	assert.Equal(t, "req-1", row.RequestID)
	require.NotNil(t, row.ComplaintID)
	assert.Equal(t, uint(3), *row.ComplaintID)
	assert.Equal(t, "submit", row.Action)
	assert.Equal(t, "connection reset", row.Error)
	assert.Equal(t, 13, row.LatencyMs)

	var extra map[string]interface{}
	require.NoError(t, json.Unmarshal(row.Extra, &extra))
	assert.Equal(t, "before-1-abc.jpg", extra["asset"])
}

func TestPGHandler_FlushesFullBatch(t *testing.T) {
	w := &memoryWriter{}
	h := NewBatchHandler(w, time.Hour)
	defer h.Stop()
	logger := slog.New(h)

	for i := 0; i < batchSize; i++ {
		logger.Error("boom", "n", i)
	}

	assert.Eventually(t, func() bool {
		return len(w.snapshot()) == batchSize
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPGHandler_StopIsIdempotent(t *testing.T) {
	h := NewBatchHandler(&memoryWriter{}, time.Hour)
	h.Stop()
	h.Stop()
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }

func TestMultiHandler_FansOut(t *testing.T) {
	var buf bytes.Buffer
	w := &memoryWriter{}
	pg := NewBatchHandler(w, time.Hour)
	stdout := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	logger := slog.New(NewMultiHandler(stdout, pg)).With("action", "complete")
	logger.Info("complaint completed")
	logger.Error("asset upload failed")
	pg.Stop()

	assert.Contains(t, buf.String(), "complaint completed")
	assert.Contains(t, buf.String(), "asset upload failed")
	rows := w.snapshot()
	require.Len(t, rows, 1)
	assert.Equal(t, "complete", rows[0].Action)
}

func TestMultiHandler_KeepsGoingAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	stdout := slog.NewJSONHandler(&buf, nil)
	broken := failingHandler{Handler: slog.NewJSONHandler(&bytes.Buffer{}, nil)}

	m := NewMultiHandler(broken, stdout)
	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)

	err := m.Handle(context.Background(), rec)
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "hello")
}
