package logging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/store"
)

const flushBatchSize = 50

// StoreHandler is an slog.Handler that batches ERROR+ records into the
// system_logs collection of the document store.
type StoreHandler struct {
	logs   store.Collection
	mu     sync.Mutex
	buffer []map[string]interface{}
	ticker *time.Ticker
	done   chan struct{}
}

func NewStoreHandler(logs store.Collection) *StoreHandler {
	h := &StoreHandler{
		logs:   logs,
		buffer: make([]map[string]interface{}, 0, flushBatchSize),
		ticker: time.NewTicker(5 * time.Second),
		done:   make(chan struct{}),
	}
	go h.flushLoop()
	return h
}

func (h *StoreHandler) flushLoop() {
	for {
		select {
		case <-h.ticker.C:
			h.flush()
		case <-h.done:
			h.flush()
			return
		}
	}
}

func (h *StoreHandler) flush() {
	h.mu.Lock()
	if len(h.buffer) == 0 {
		h.mu.Unlock()
		return
	}
	batch := h.buffer
	h.buffer = make([]map[string]interface{}, 0, flushBatchSize)
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	failed := 0
	for _, entry := range batch {
		if _, err := h.logs.Create(ctx, "", entry); err != nil {
			failed++
		}
	}
	if failed > 0 {
		// Write to stdout only; going through slog again would loop.
		slog.New(NewStdoutHandler("")).Error("failed to flush system logs to store", "failed", failed, "batch", len(batch))
	}
}

func (h *StoreHandler) Stop() {
	h.ticker.Stop()
	close(h.done)
}

// Enabled only handles ERROR and above.
func (h *StoreHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *StoreHandler) Handle(_ context.Context, record slog.Record) error {
	entry := map[string]interface{}{
		"timestamp": record.Time,
		"level":     record.Level.String(),
		"message":   record.Message,
	}
	record.Attrs(func(a slog.Attr) bool {
		entry[a.Key] = a.Value.String()
		return true
	})

	h.mu.Lock()
	h.buffer = append(h.buffer, entry)
	needFlush := len(h.buffer) >= flushBatchSize
	h.mu.Unlock()

	if needFlush {
		go h.flush()
	}
	return nil
}

func (h *StoreHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *StoreHandler) WithGroup(name string) slog.Handler {
	return h
}
