package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	jobChunkSize    = 1000
	jobChunkOverlap = 200
	jobSearchLimit  = 3
)

var ErrJobDescriptionNotFound = errors.New("job description not found")

// JobLibrary stores job descriptions in a vector index and finds the one that
// best fits a job title.
type JobLibrary interface {
	Ingest(ctx context.Context, docID, title, text string) (int, error)
	Lookup(ctx context.Context, jobTitle string) (string, error)
}

type jobLibrary struct {
	gemini        GeminiService
	qdrant        QdrantService
	chunker       TextChunker
	promptBuilder *PromptBuilder
	logger        *zap.Logger
}

func NewJobLibrary(gemini GeminiService, qdrant QdrantService, chunker TextChunker, logger *zap.Logger) JobLibrary {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &jobLibrary{
		gemini:        gemini,
		qdrant:        qdrant,
		chunker:       chunker,
		promptBuilder: NewPromptBuilder(),
		logger:        logger,
	}
}

// Ingest replaces any stored chunks of docID and returns how many were stored.
func (l *jobLibrary) Ingest(ctx context.Context, docID, title, text string) (int, error) {
	if err := l.qdrant.DeleteDocument(ctx, docID); err != nil {
		return 0, fmt.Errorf("failed to clear previous chunks: %w", err)
	}

	stored := 0
	for i, chunk := range l.chunker.ChunkText(text, jobChunkSize, jobChunkOverlap) {
		embedding, err := l.gemini.GenerateEmbedding(ctx, chunk)
		if err != nil {
			l.logger.Warn("❌ Failed to embed chunk", zap.String("doc_id", docID), zap.Int("chunk", i), zap.Error(err))
			continue
		}

		err = l.qdrant.UpsertChunk(ctx, JobDescriptionChunk{DocID: docID, Title: title, Index: i, Text: chunk}, embedding)
		if err != nil {
			l.logger.Warn("❌ Failed to store chunk", zap.String("doc_id", docID), zap.Int("chunk", i), zap.Error(err))
			continue
		}
		stored++
	}

	if stored == 0 {
		return 0, fmt.Errorf("no chunks stored for %s", docID)
	}
	return stored, nil
}

// Lookup returns the text of the best matching job description. Only chunks of
// the top ranked document are used.
func (l *jobLibrary) Lookup(ctx context.Context, jobTitle string) (string, error) {
	jobTitle = strings.TrimSpace(jobTitle)
	if jobTitle == "" {
		return "", ErrJobDescriptionNotFound
	}

	embedding, err := l.gemini.GenerateEmbedding(ctx, l.promptBuilder.BuildRetrievalQuery(jobTitle))
	if err != nil {
		return "", fmt.Errorf("failed to generate query embedding: %w", err)
	}

	results, err := l.qdrant.SearchSimilar(ctx, embedding, jobSearchLimit)
	if err != nil {
		return "", fmt.Errorf("failed to search job descriptions: %w", err)
	}
	if len(results) == 0 {
		return "", ErrJobDescriptionNotFound
	}

	top := results[0].DocID
	sameDoc := results[:0:0]
	for _, r := range results {
		if r.DocID == top {
			sameDoc = append(sameDoc, r)
		}
	}

	l.logger.Debug("🔍 Job description retrieved",
		zap.String("job_title", jobTitle),
		zap.String("doc_id", top),
		zap.Float32("score", results[0].Score),
	)
	return FormatJobContext(sameDoc), nil
}
