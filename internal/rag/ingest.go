package rag

import (
	"context"
	"fmt"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/wiz-abhi/realprep/internal/model"
	"github.com/wiz-abhi/realprep/internal/pkg/ids"
	"github.com/wiz-abhi/realprep/internal/pkg/timeutil"
)

type IngestorConfig struct {
	ChunkSize  int
	EmbedLimit int
	// EmbedDim, when set, rejects embeddings whose dimensionality does
	// not match the vector columns. A mismatched embedder would
	// otherwise poison the index with unsearchable rows.
	EmbedDim int
}

// Ingestor builds the searchable representation of a document: chunk,
// embed every chunk, swap the stored rows in one transaction. A failed
// ingestion leaves the previously indexed version untouched.
type Ingestor struct {
	embedder Embedder
	resumes  ResumeChunkStore
	refs     ReferenceChunkStore
	cfg      IngestorConfig
}

func NewIngestor(embedder Embedder, resumes ResumeChunkStore, refs ReferenceChunkStore, cfg IngestorConfig) *Ingestor {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.EmbedLimit <= 0 {
		cfg.EmbedLimit = 4
	}
	return &Ingestor{embedder: embedder, resumes: resumes, refs: refs, cfg: cfg}
}

// IngestResume replaces the indexed representation of one resume.
// Returns the number of chunks written.
func (ing *Ingestor) IngestResume(ctx context.Context, resumeID, text string) (int, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("resume_id", resumeID))
	contents := SplitText(text, ing.cfg.ChunkSize)
	if len(contents) == 0 {
		logger.Info("resume has no indexable text, clearing chunks")
		if err := ing.resumes.Replace(ctx, resumeID, nil); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrStoreWrite, err)
		}
		return 0, nil
	}
	embeddings, err := ing.embedAll(ctx, contents)
	if err != nil {
		return 0, err
	}
	now := timeutil.NowUnix()
	chunks := make([]*model.ResumeChunk, 0, len(contents))
	for i, content := range contents {
		chunks = append(chunks, &model.ResumeChunk{
			ID:        ids.New(),
			ResumeID:  resumeID,
			Content:   content,
			Embedding: embeddings[i],
			Ctime:     now,
		})
	}
	if err := ing.resumes.Replace(ctx, resumeID, chunks); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	logger.Info("resume ingested", zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}

// IngestReference replaces the indexed representation of one reference
// document, identified by title.
func (ing *Ingestor) IngestReference(ctx context.Context, title, docType, text string) (int, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("title", title), zap.String("doc_type", docType))
	contents := SplitText(text, ing.cfg.ChunkSize)
	if len(contents) == 0 {
		logger.Info("reference doc has no indexable text, clearing chunks")
		if err := ing.refs.Replace(ctx, title, nil); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrStoreWrite, err)
		}
		return 0, nil
	}
	embeddings, err := ing.embedAll(ctx, contents)
	if err != nil {
		return 0, err
	}
	now := timeutil.NowUnix()
	chunks := make([]*model.ReferenceChunk, 0, len(contents))
	for i, content := range contents {
		chunks = append(chunks, &model.ReferenceChunk{
			ID:        ids.New(),
			Title:     title,
			DocType:   docType,
			Content:   content,
			Embedding: embeddings[i],
			Ctime:     now,
		})
	}
	if err := ing.refs.Replace(ctx, title, chunks); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	logger.Info("reference doc ingested", zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}

// embedAll embeds every chunk with at most cfg.EmbedLimit calls in
// flight. The first failure cancels the remaining calls and aborts the
// whole document.
func (ing *Ingestor) embedAll(ctx context.Context, contents []string) ([][]float32, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	embeddings := make([][]float32, len(contents))
	sem := make(chan struct{}, ing.cfg.EmbedLimit)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancel()
	}

	for i, content := range contents {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		mu.Lock()
		failed := firstErr != nil
		mu.Unlock()
		if failed || ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(i int, content string) {
			defer wg.Done()
			defer func() { <-sem }()
			values, err := ing.embedder.Embed(ctx, content, TaskTypeDocument)
			if err != nil {
				fail(err)
				return
			}
			if ing.cfg.EmbedDim > 0 && len(values) != ing.cfg.EmbedDim {
				fail(fmt.Errorf("embedding dimension %d, want %d", len(values), ing.cfg.EmbedDim))
				return
			}
			embeddings[i] = values
		}(i, content)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, firstErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return embeddings, nil
}
