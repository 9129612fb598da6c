package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const batchSize = 50

// LogWriter persists a batch of system log rows.
type LogWriter interface {
	WriteLogs(ctx context.Context, batch []models.SystemLog) error
}

type GormLogWriter struct {
	DB *gorm.DB
}

func (w GormLogWriter) WriteLogs(ctx context.Context, batch []models.SystemLog) error {
	return w.DB.WithContext(ctx).CreateInBatches(batch, batchSize).Error
}

// PGHandler is an slog.Handler that batches ERROR+ records into system_logs.
// Handlers derived through WithAttrs share one buffer.
type PGHandler struct {
	sink  *logSink
	attrs []slog.Attr
}

type logSink struct {
	writer   LogWriter
	mu       sync.Mutex
	buffer   []models.SystemLog
	ticker   *time.Ticker
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

func NewPGHandler(db *gorm.DB) *PGHandler {
	return NewBatchHandler(GormLogWriter{DB: db}, 5*time.Second)
}

// NewBatchHandler flushes to writer every interval or once batchSize records are queued.
func NewBatchHandler(writer LogWriter, interval time.Duration) *PGHandler {
	sink := &logSink{
		writer:  writer,
		buffer:  make([]models.SystemLog, 0, batchSize),
		ticker:  time.NewTicker(interval),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go sink.loop()
	return &PGHandler{sink: sink}
}

func (s *logSink) loop() {
	defer close(s.stopped)
	for {
		select {
		case <-s.ticker.C:
			s.flush()
		case <-s.done:
			s.flush()
			return
		}
	}
}

func (s *logSink) flush() {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.buffer
	s.buffer = make([]models.SystemLog, 0, batchSize)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// WARN keeps this record out of the handler that failed.
	if err := s.writer.WriteLogs(ctx, batch); err != nil {
		slog.Warn("failed to flush system logs", "error", err, "count", len(batch))
	}
}

// Stop flushes what is buffered and waits for the writer to finish.
func (h *PGHandler) Stop() {
	h.sink.stopOnce.Do(func() {
		h.sink.ticker.Stop()
		close(h.sink.done)
	})
	<-h.sink.stopped
}

func (h *PGHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *PGHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	apply := func(a slog.Attr) bool {
		applyAttr(&entry, extra, a)
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	h.sink.mu.Lock()
	h.sink.buffer = append(h.sink.buffer, entry)
	needFlush := len(h.sink.buffer) >= batchSize
	h.sink.mu.Unlock()

	if needFlush {
		go h.sink.flush()
	}
	return nil
}

func applyAttr(entry *models.SystemLog, extra map[string]interface{}, a slog.Attr) {
	v := a.Value.Resolve()
	switch a.Key {
	case "request_id":
		entry.RequestID = v.String()
	case "complaint_id":
		switch v.Kind() {
		case slog.KindUint64:
			id := uint(v.Uint64())
			entry.ComplaintID = &id
		case slog.KindInt64:
			if n := v.Int64(); n > 0 {
				id := uint(n)
				entry.ComplaintID = &id
			}
		default:
			extra[a.Key] = v.Any()
		}
	case "action":
		entry.Action = v.String()
	case "error":
		entry.Error = v.String()
	case "latency_ms":
		switch v.Kind() {
		case slog.KindFloat64:
			entry.LatencyMs = int(math.Round(v.Float64()))
		case slog.KindInt64:
			entry.LatencyMs = int(v.Int64())
		case slog.KindDuration:
			entry.LatencyMs = int(v.Duration().Milliseconds())
		}
	default:
		extra[a.Key] = v.Any()
	}
}

func (h *PGHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &PGHandler{sink: h.sink, attrs: merged}
}

// WithGroup is a no-op; system_logs has no notion of nested attributes.
func (h *PGHandler) WithGroup(string) slog.Handler {
	return h
}
