package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"alfredoptarigan/ats-cv-scorer/internal/models"
	"alfredoptarigan/ats-cv-scorer/internal/repositories"
)

type memoryCache struct {
	mu    sync.Mutex
	items map[string]*CachedResult
	gets  atomic.Int32
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string]*CachedResult)}
}

func (c *memoryCache) Get(_ context.Context, key string) (*CachedResult, bool, error) {
	defer c.gets.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.items[key]
	return r, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, result *CachedResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = result
	return nil
}

type countingExtractor struct {
	text    string
	release chan struct{}
	calls   atomic.Int32
}

func (e *countingExtractor) Extract(_ context.Context, _ UploadedDocument) (string, error) {
	e.calls.Add(1)
	if e.release != nil {
		<-e.release
	}
	return e.text, nil
}

type stubJobLibrary struct {
	text    string
	err     error
	lookups int
}

func (l *stubJobLibrary) Ingest(context.Context, string, string, string) (int, error) {
	return 0, errors.New("not implemented")
}

func (l *stubJobLibrary) Lookup(_ context.Context, _ string) (string, error) {
	l.lookups++
	return l.text, l.err
}

type memoryStorage struct {
	saved   map[string][]byte
	deleted []string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{saved: make(map[string][]byte)}
}

func (s *memoryStorage) SaveFile(content []byte, originalName string) (string, string, error) {
	name := "cv_" + uuid.NewString() + ".txt"
	s.saved[name] = content
	return name, "/tmp/" + name, nil
}

func (s *memoryStorage) GetFilePath(filename string) string { return "/tmp/" + filename }

func (s *memoryStorage) DeleteFile(filename string) error {
	s.deleted = append(s.deleted, filename)
	delete(s.saved, filename)
	return nil
}

func (s *memoryStorage) EnsureUploadDir() error { return nil }

type memoryDocumentRepo struct {
	docs map[uuid.UUID]*models.Document
	err  error
}

func newMemoryDocumentRepo() *memoryDocumentRepo {
	return &memoryDocumentRepo{docs: make(map[uuid.UUID]*models.Document)}
}

func (r *memoryDocumentRepo) Create(doc *models.Document) error {
	if r.err != nil {
		return r.err
	}
	r.docs[doc.ID] = doc
	return nil
}

func (r *memoryDocumentRepo) FindByID(id uuid.UUID) (*models.Document, error) {
	if d, ok := r.docs[id]; ok {
		return d, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *memoryDocumentRepo) FindByFingerprint(fp string) (*models.Document, error) {
	for _, d := range r.docs {
		if d.Fingerprint == fp {
			return d, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memoryDocumentRepo) Delete(id uuid.UUID) error {
	delete(r.docs, id)
	return nil
}

type memoryAnalysisRepo struct {
	mu       sync.Mutex
	analyses map[uuid.UUID]*models.Analysis
	statuses []models.FeedbackStatus
	err      error
}

func newMemoryAnalysisRepo() *memoryAnalysisRepo {
	return &memoryAnalysisRepo{analyses: make(map[uuid.UUID]*models.Analysis)}
}

func (r *memoryAnalysisRepo) Create(a *models.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.analyses[a.ID] = a
	return nil
}

func (r *memoryAnalysisRepo) FindByID(id uuid.UUID) (*models.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.analyses[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *memoryAnalysisRepo) UpdateFeedbackStatus(id uuid.UUID, status models.FeedbackStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.analyses[id]
	if !ok {
		return repositories.ErrNotFound
	}
	a.FeedbackStatus = status
	r.statuses = append(r.statuses, status)
	return nil
}

func (r *memoryAnalysisRepo) UpdateFeedback(id uuid.UUID, feedback string) error {
	if err := r.UpdateFeedbackStatus(id, models.FeedbackCompleted); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyses[id].Feedback = &feedback
	return nil
}

func (r *memoryAnalysisRepo) UpdateError(id uuid.UUID, msg string) error {
	if err := r.UpdateFeedbackStatus(id, models.FeedbackFailed); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyses[id].ErrorMessage = &msg
	return nil
}

func (r *memoryAnalysisRepo) FindQueuedFeedback(limit int) ([]models.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Analysis
	for _, a := range r.analyses {
		if a.FeedbackStatus == models.FeedbackQueued && len(out) < limit {
			out = append(out, *a)
		}
	}
	return out, nil
}

type recordingWorker struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (w *recordingWorker) Start(context.Context) {}
func (w *recordingWorker) Stop()                 {}

func (w *recordingWorker) EnqueueJob(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ids = append(w.ids, id)
}

type stubGemini struct {
	mu         sync.Mutex
	embedding  []float32
	embedErr   error
	text       string
	textErr    error
	prompts    []string
	embedCalls int
}

func (g *stubGemini) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.embedCalls++
	return g.embedding, g.embedErr
}

func (g *stubGemini) GenerateText(_ context.Context, prompt string, _ float32) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.text, g.textErr
}

func (g *stubGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, _ int) (string, error) {
	return g.GenerateText(ctx, prompt, temperature)
}

type stubQdrant struct {
	upserts  []JobDescriptionChunk
	deleted  []string
	results  []SearchResult
	err      error
	upsertFn func(JobDescriptionChunk) error
}

func (q *stubQdrant) InitCollection(context.Context) error { return nil }

func (q *stubQdrant) UpsertChunk(_ context.Context, chunk JobDescriptionChunk, _ []float32) error {
	if q.upsertFn != nil {
		if err := q.upsertFn(chunk); err != nil {
			return err
		}
	}
	q.upserts = append(q.upserts, chunk)
	return nil
}

func (q *stubQdrant) SearchSimilar(context.Context, []float32, int) ([]SearchResult, error) {
	return q.results, q.err
}

func (q *stubQdrant) DeleteDocument(_ context.Context, docID string) error {
	q.deleted = append(q.deleted, docID)
	return nil
}
