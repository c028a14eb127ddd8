package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/store"
)

const logRetention = 30 * 24 * time.Hour

// StartCleanup runs a daily goroutine that deletes system log documents
// older than the retention window.
func StartCleanup(logs store.Collection, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sweep(logs)
			case <-done:
				return
			}
		}
	}()
}

func sweep(logs store.Collection) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	docs, err := logs.ReadAll(ctx)
	if err != nil {
		slog.Error("log cleanup failed", "error", err)
		return
	}

	cutoff := time.Now().Add(-logRetention)
	deleted := 0
	for _, doc := range docs {
		ts, ok := doc.Data["timestamp"].(time.Time)
		if !ok || !ts.Before(cutoff) {
			continue
		}
		if err := logs.Delete(ctx, doc.ID); err != nil {
			slog.Error("log cleanup delete failed", "id", doc.ID, "error", err)
			continue
		}
		deleted++
	}
	if deleted > 0 {
		slog.Info("log cleanup completed", "deleted", deleted)
	}
}
