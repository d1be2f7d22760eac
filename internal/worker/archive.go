package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/config"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/logger"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/model"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/queue"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/storage"
)

// JobSource delivers queued archive jobs and keeps a dead-letter list for
// the ones that fail.
type JobSource interface {
	Consume(ctx context.Context, handler queue.MessageHandler) error
	MoveToDLQ(ctx context.Context, message []byte) error
}

// ArchiveWorker consumes archive jobs and uploads their CSV snapshots to
// object storage. Snapshots arrive pre-rendered, so the worker never reads
// the tabular store. Every failed job ends up on the dead-letter list: the
// consumer parks decode failures and pool rejections, the worker parks
// upload failures itself.
type ArchiveWorker struct {
	cfg     *config.Config
	storage storage.Storage
	source  JobSource
	pool    *Pool
	log     zerolog.Logger
}

func NewArchiveWorker(cfg *config.Config, store storage.Storage, source JobSource) *ArchiveWorker {
	return &ArchiveWorker{
		cfg:     cfg,
		storage: store,
		source:  source,
		pool:    NewPool(cfg.Archive.WorkerCount),
		log:     logger.Get(),
	}
}

func (w *ArchiveWorker) Start(ctx context.Context) error {
	w.log.Info().Msg("Starting archive worker")

	w.pool.Start(ctx)
	return w.source.Consume(ctx, w.handleMessage)
}

func (w *ArchiveWorker) Stop() {
	w.log.Info().Msg("Stopping archive worker")
	w.pool.Stop()
}

func (w *ArchiveWorker) handleMessage(ctx context.Context, data []byte) error {
	var job model.ArchiveJob
	if err := json.Unmarshal(data, &job); err != nil {
		w.log.Error().Err(err).Msg("Failed to unmarshal archive job")
		return err
	}

	// The upload runs after this handler returns, so its failures cannot
	// surface through the handler error; the job parks itself instead.
	accepted := w.pool.Submit(func(ctx context.Context) error {
		err := w.uploadSnapshot(ctx, job)
		if err != nil {
			w.deadLetter(ctx, data, job.Key)
		}
		return err
	})
	if !accepted {
		return fmt.Errorf("archive job %s rejected, worker pool full or stopped", job.Key)
	}
	return nil
}

func (w *ArchiveWorker) deadLetter(ctx context.Context, data []byte, key string) {
	if err := w.source.MoveToDLQ(ctx, data); err != nil {
		w.log.Error().Err(err).Str("key", key).Msg("Failed to move archive job to DLQ")
		return
	}
	w.log.Warn().Str("key", key).Msg("Archive job moved to DLQ")
}

func (w *ArchiveWorker) uploadSnapshot(ctx context.Context, job model.ArchiveJob) error {
	log := w.log.With().Str("key", job.Key).Logger()

	if err := w.storage.Upload(ctx, job.Key, strings.NewReader(job.CSV)); err != nil {
		log.Error().Err(err).Msg("Failed to upload archive snapshot")
		return err
	}

	log.Info().Time("requested_at", job.RequestedAt).Int("bytes", len(job.CSV)).
		Msg("Archive snapshot uploaded")
	return nil
}
