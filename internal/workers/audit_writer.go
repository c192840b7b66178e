package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lapor/internal/domain"
	"lapor/internal/metrics"
	"lapor/pkg/e"
)

//go:generate mockgen -source=audit_writer.go -destination=mocks/mock.go
type AuditQueue interface {
	BRPop(ctx context.Context, timeout time.Duration) (domain.StatusChange, error)
	Requeue(ctx context.Context, change domain.StatusChange) error
}

type HistoryStore interface {
	Save(ctx context.Context, change *domain.StatusChange) error
}

// AuditWriter drains accepted status changes into the history table.
type AuditWriter struct {
	logger     *slog.Logger
	queue      AuditQueue
	store      HistoryStore
	metrics    *metrics.Metrics
	popTimeout time.Duration
	retryDelay time.Duration
	maxRetries int
}

func NewAuditWriter(logger *slog.Logger, q AuditQueue, store HistoryStore, m *metrics.Metrics, popTimeout time.Duration) *AuditWriter {
	return &AuditWriter{
		logger:     logger,
		queue:      q,
		store:      store,
		metrics:    m,
		popTimeout: popTimeout,
		retryDelay: time.Second,
		maxRetries: 3,
	}
}

func (w *AuditWriter) Run(ctx context.Context) {
	w.logger.Info("auditWriter STARTED")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("auditWriter STOPPED", slog.String("reason", ctx.Err().Error()))
			return
		default:
		}

		change, err := w.queue.BRPop(ctx, w.popTimeout)
		if err != nil {
			if errors.Is(err, e.ErrAuditQueueEmpty) || ctx.Err() != nil {
				continue
			}
			w.logger.Error("BRPop failed", slog.Any("error", err))
			sleep(ctx, 500*time.Millisecond)
			continue
		}

		w.write(ctx, change)
	}
}

func (w *AuditWriter) write(ctx context.Context, change domain.StatusChange) {
	log := w.logger.With(
		slog.String("entity", string(change.Entity)),
		slog.String("entity_id", change.EntityID.String()),
		slog.String("change_id", change.ID.String()),
	)

	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		err := w.store.Save(ctx, &change)
		if err == nil {
			w.metrics.RecordAuditWrite("ok")
			log.Debug("status change written", slog.String("to", change.To))
			return
		}
		if errors.Is(err, e.ErrInvalidInput) {
			w.metrics.RecordAuditWrite("dropped")
			log.Error("status change rejected by store, dropping", slog.Any("error", err))
			return
		}

		log.Warn("status change write failed", slog.Int("attempt", attempt), slog.Any("error", err))
		if !sleep(ctx, time.Duration(attempt)*w.retryDelay) {
			break
		}
	}

	// Put it back so a later pass or the next process picks it up.
	w.metrics.RecordAuditWrite("requeued")
	if err := w.queue.Requeue(context.WithoutCancel(ctx), change); err != nil {
		log.Error("requeue failed, status change lost", slog.Any("error", err))
	}
}

// sleep waits for d and reports false when ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
