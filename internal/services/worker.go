package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ats-cv-scorer/internal/repositories"
)

const (
	workerQueueSize    = 100
	workerPollInterval = 10 * time.Second
	workerPollBatch    = 10
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(analysisID uuid.UUID)
}

type worker struct {
	analysisRepo    repositories.AnalysisRepository
	feedbackService FeedbackService
	jobQueue        chan uuid.UUID
	concurrency     int
	pollInterval    time.Duration
	logger          *zap.Logger
	wg              sync.WaitGroup
	stopChan        chan struct{}
	stopOnce        sync.Once

	mu      sync.Mutex
	pending map[uuid.UUID]struct{}
}

func NewWorker(
	analysisRepo repositories.AnalysisRepository,
	feedbackService FeedbackService,
	concurrency int,
	logger *zap.Logger,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &worker{
		analysisRepo:    analysisRepo,
		feedbackService: feedbackService,
		jobQueue:        make(chan uuid.UUID, workerQueueSize),
		concurrency:     concurrency,
		pollInterval:    workerPollInterval,
		logger:          logger,
		stopChan:        make(chan struct{}),
		pending:         make(map[uuid.UUID]struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("🚀 Starting feedback worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollQueuedJobs(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("🛑 Stopping feedback worker...")
		close(w.stopChan)
		w.wg.Wait()
		w.logger.Info("✅ Feedback worker stopped")
	})
}

// EnqueueJob implements Worker. Ids already waiting or running are ignored. A
// full queue drops the id; the poller picks it up again from the database.
func (w *worker) EnqueueJob(analysisID uuid.UUID) {
	if !w.markPending(analysisID) {
		return
	}

	select {
	case <-w.stopChan:
		w.clearPending(analysisID)
		w.logger.Warn("⚠️ Worker stopped, cannot enqueue job", zap.String("analysis_id", analysisID.String()))
	case w.jobQueue <- analysisID:
		w.logger.Debug("📥 Job enqueued", zap.String("analysis_id", analysisID.String()))
	default:
		w.clearPending(analysisID)
		w.logger.Warn("⚠️ Job queue full, deferring to poller", zap.String("analysis_id", analysisID.String()))
	}
}

func (w *worker) markPending(id uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.pending[id]; ok {
		return false
	}
	w.pending[id] = struct{}{}
	return true
}

func (w *worker) clearPending(id uuid.UUID) {
	w.mu.Lock()
	delete(w.pending, id)
	w.mu.Unlock()
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case id := <-w.jobQueue:
			log := w.logger.With(zap.Int("worker", workerID), zap.String("analysis_id", id.String()))
			if err := w.feedbackService.GenerateFeedback(ctx, id); err != nil {
				log.Error("❌ Failed to process job", zap.Error(err))
			} else {
				log.Info("✅ Job completed")
			}
			w.clearPending(id)
		}
	}
}

func (w *worker) pollQueuedJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			queued, err := w.analysisRepo.FindQueuedFeedback(workerPollBatch)
			if err != nil {
				w.logger.Warn("⚠️ Failed to fetch queued jobs", zap.Error(err))
				continue
			}

			if len(queued) > 0 {
				w.logger.Info("📋 Found queued jobs", zap.Int("count", len(queued)))
			}

			for _, a := range queued {
				w.EnqueueJob(a.ID)
			}
		}
	}
}
