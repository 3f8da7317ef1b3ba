package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func seedRetriever(t *testing.T) (*Retriever, *memResumeStore, *memReferenceStore) {
	t.Helper()
	embedder := newFakeEmbedder("go", "postgresql", "kubernetes", "painting")
	resumes := &memResumeStore{}
	refs := &memReferenceStore{}
	ing := NewIngestor(embedder, resumes, refs, IngestorConfig{ChunkSize: 80, EmbedLimit: 2})

	_, err := ing.IngestResume(context.Background(), "r1",
		"Experienced backend engineer skilled in Go and PostgreSQL. "+
			"Operated kubernetes clusters in production. "+
			"Hobbies include painting and hiking.")
	require.NoError(t, err)
	_, err = ing.IngestResume(context.Background(), "r2", "Watercolor painting instructor")
	require.NoError(t, err)
	_, err = ing.IngestReference(context.Background(), "backend-jd", "job",
		"We are hiring a Go engineer comfortable with PostgreSQL")
	require.NoError(t, err)

	return NewRetriever(embedder, resumes, refs, 2), resumes, refs
}

func TestRetrieverContextRanksByRelevance(t *testing.T) {
	retriever, _, _ := seedRetriever(t)

	out, err := retriever.Context(context.Background(), "r1", "tell me about your go and postgresql experience", 1)
	require.NoError(t, err)

	resumeSection, refSection := splitSections(t, out)
	require.Contains(t, resumeSection, "Go and PostgreSQL")
	require.NotContains(t, resumeSection, "painting")
	require.Contains(t, refSection, "[backend-jd]")
}

func TestRetrieverContextScopedToResume(t *testing.T) {
	retriever, _, _ := seedRetriever(t)

	out, err := retriever.Context(context.Background(), "r2", "painting", 5)
	require.NoError(t, err)

	resumeSection, _ := splitSections(t, out)
	require.Contains(t, resumeSection, "Watercolor")
	require.NotContains(t, resumeSection, "backend engineer")
}

func TestRetrieverContextUnknownResumeLeavesSectionEmpty(t *testing.T) {
	retriever, _, _ := seedRetriever(t)

	out, err := retriever.Context(context.Background(), "missing", "go experience", 2)
	require.NoError(t, err)

	resumeSection, refSection := splitSections(t, out)
	require.Empty(t, strings.TrimSpace(resumeSection))
	require.NotEmpty(t, strings.TrimSpace(refSection))
}

func TestRetrieverContextDegradesOnSearchFailure(t *testing.T) {
	embedder := newFakeEmbedder("go")
	resumes := &memResumeStore{failQry: errStoreDown}
	refs := &memReferenceStore{failQry: errStoreDown}
	retriever := NewRetriever(embedder, resumes, refs, 2)

	out, err := retriever.Context(context.Background(), "r1", "go", 2)
	require.NoError(t, err)
	resumeSection, refSection := splitSections(t, out)
	require.Empty(t, strings.TrimSpace(resumeSection))
	require.Empty(t, strings.TrimSpace(refSection))
}

func TestRetrieverContextEmbedFailureIsError(t *testing.T) {
	embedder := newFakeEmbedder("go")
	embedder.fail = errors.New("provider down")
	retriever := NewRetriever(embedder, &memResumeStore{}, &memReferenceStore{}, 2)

	_, err := retriever.Context(context.Background(), "r1", "go", 2)
	require.ErrorIs(t, err, ErrEmbedding)
}

// splitSections cuts the formatted context into its resume and
// reference halves.
func splitSections(t *testing.T, out string) (string, string) {
	t.Helper()
	require.True(t, strings.HasPrefix(out, resumeSectionHeader))
	rest := strings.TrimPrefix(out, resumeSectionHeader)
	parts := strings.SplitN(rest, referenceSectionHeader, 2)
	require.Len(t, parts, 2)
	return parts[0], parts[1]
}
