package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/wiz-abhi/realprep/internal/model"
)

const (
	resumeSectionHeader    = "Candidate resume:"
	referenceSectionHeader = "Reference material:"
)

// Retriever builds the grounding-context string for one interview turn:
// the query is embedded once, then matched against the candidate's resume
// chunks and against all reference-document chunks independently. The two
// result sets are never reranked against each other; keeping the sources
// in separate sections lets the prompt distinguish them.
type Retriever struct {
	embedder Embedder
	resumes  ResumeChunkStore
	refs     ReferenceChunkStore
	topK     int
}

func NewRetriever(embedder Embedder, resumes ResumeChunkStore, refs ReferenceChunkStore, topK int) *Retriever {
	if topK <= 0 {
		topK = 4
	}
	return &Retriever{embedder: embedder, resumes: resumes, refs: refs, topK: topK}
}

// Context returns the formatted grounding context for query, scoped to
// resumeID for the resume section. A search that fails or returns no rows
// leaves its section empty; only a failed query embedding is an error.
func (r *Retriever) Context(ctx context.Context, resumeID, query string, limit int) (string, error) {
	if limit <= 0 {
		limit = r.topK
	}
	logger := logutil.GetLogger(ctx).With(zap.String("resume_id", resumeID))
	queryEmb, err := r.embedder.Embed(ctx, query, TaskTypeQuery)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEmbedding, err)
	}

	resumeHits, err := r.resumes.NearestByResume(ctx, resumeID, queryEmb, limit)
	if err != nil {
		logger.Warn("resume chunk search failed, continuing without resume context", zap.Error(err))
		resumeHits = nil
	}
	refHits, err := r.refs.Nearest(ctx, queryEmb, limit)
	if err != nil {
		logger.Warn("reference chunk search failed, continuing without reference context", zap.Error(err))
		refHits = nil
	}
	return formatContext(resumeHits, refHits), nil
}

func formatContext(resumeHits, refHits []model.RetrievedChunk) string {
	var sb strings.Builder
	sb.WriteString(resumeSectionHeader)
	sb.WriteString("\n")
	for _, hit := range resumeHits {
		sb.WriteString(hit.Content)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(referenceSectionHeader)
	sb.WriteString("\n")
	for _, hit := range refHits {
		if hit.Title != "" {
			sb.WriteString("[")
			sb.WriteString(hit.Title)
			sb.WriteString("] ")
		}
		sb.WriteString(hit.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
