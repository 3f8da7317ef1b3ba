package rag

import (
	"context"
	"errors"

	"github.com/wiz-abhi/realprep/internal/model"
)

// Embedding task types, forwarded to providers that distinguish
// document-side and query-side embeddings.
const (
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
	TaskTypeQuery    = "RETRIEVAL_QUERY"
)

var (
	ErrEmbedding  = errors.New("embedding service failed")
	ErrStoreWrite = errors.New("vector store write failed")
	ErrStoreQuery = errors.New("vector store query failed")
)

// Embedder turns a text into a fixed-dimension vector. *ai.Manager
// satisfies this.
type Embedder interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
}

// ResumeChunkStore holds resume chunks and answers cosine-distance
// nearest-neighbor queries scoped to one resume. Replace swaps the
// whole indexed representation of one resume atomically; a nil or
// empty chunk slice clears it.
type ResumeChunkStore interface {
	Replace(ctx context.Context, resumeID string, chunks []*model.ResumeChunk) error
	NearestByResume(ctx context.Context, resumeID string, query []float32, limit int) ([]model.RetrievedChunk, error)
}

// ReferenceChunkStore is the unscoped counterpart for shared reference
// documents, keyed by document title.
type ReferenceChunkStore interface {
	Replace(ctx context.Context, title string, chunks []*model.ReferenceChunk) error
	Nearest(ctx context.Context, query []float32, limit int) ([]model.RetrievedChunk, error)
}
