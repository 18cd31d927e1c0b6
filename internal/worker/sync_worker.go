package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gastos/internal/amqp"
	"gastos/internal/core"
	"gastos/internal/sheets"
	"gastos/internal/storage"
)

// RowSource is the slice of the SQLite repository the worker needs.
type RowSource interface {
	GetRow(ctx context.Context, id int64) (*storage.StoredRow, error)
	PendingSyncIDs(ctx context.Context, limit int) ([]int64, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

// SyncWorker mirrors rows stored in SQLite into Google Sheets.
type SyncWorker struct {
	storage   RowSource
	sheets    sheets.RowAppender
	batchSize int
}

func NewSyncWorker(storage RowSource, sheets sheets.RowAppender, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &SyncWorker{storage: storage, sheets: sheets, batchSize: batchSize}
}

// HandleSyncMessage mirrors the row named by msg. Returning an error makes
// the consumer requeue the message.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.RowSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID, "message_id", msg.MessageID)
	return w.syncRow(ctx, msg.ID)
}

// ProcessPending mirrors up to one batch of rows that were never synced.
// It covers messages lost while the broker or the worker was down.
func (w *SyncWorker) ProcessPending(ctx context.Context) (synced, failed int, err error) {
	ids, err := w.storage.PendingSyncIDs(ctx, w.batchSize)
	if err != nil {
		return 0, 0, fmt.Errorf("get pending rows: %w", err)
	}
	for _, id := range ids {
		if err := w.syncRow(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending row", "id", id, "error", err)
			failed++
			continue
		}
		synced++
	}
	if len(ids) > 0 {
		slog.InfoContext(ctx, "Pending rows processed", "total", len(ids), "synced", synced, "errors", failed)
	}
	return synced, failed, nil
}

// RunPeriodic calls ProcessPending every interval until ctx is done.
func (w *SyncWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, _, err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
			}
		}
	}
}

func (w *SyncWorker) syncRow(ctx context.Context, id int64) error {
	stored, err := w.storage.GetRow(ctx, id)
	if errors.Is(err, storage.ErrRowNotFound) {
		// Nothing to mirror; retrying will not help.
		slog.WarnContext(ctx, "Row to sync not found, dropping", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get row from storage: %w", err)
	}
	if stored.SyncStatus == storage.SyncSynced {
		slog.InfoContext(ctx, "Row already synced, skipping", "id", id)
		return nil
	}

	if err := stored.Row.Validate(); err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return nil
	}

	if err := w.sheets.AppendRow(ctx, stored.Row); err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		// The append already happened; a retry would duplicate the row.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Row mirrored to sheets",
		"id", id,
		"category", core.NormalizeCategory(stored.Row.Category),
		"amount", stored.Row.Amount.String())
	return nil
}
