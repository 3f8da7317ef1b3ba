package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIngestResumeWritesAllChunks(t *testing.T) {
	embedder := newFakeEmbedder("go", "sql")
	resumes := &memResumeStore{}
	refs := &memReferenceStore{}
	ing := NewIngestor(embedder, resumes, refs, IngestorConfig{ChunkSize: 20, EmbedLimit: 2})

	n, err := ing.IngestResume(context.Background(), "r1", "go developer with sql experience and more go work history")
	require.NoError(t, err)
	require.Greater(t, n, 1)
	require.Equal(t, n, resumes.count("r1"))
	require.Equal(t, n, embedder.callCount())
}

func TestIngestResumeReplacesPreviousChunks(t *testing.T) {
	embedder := newFakeEmbedder("go")
	resumes := &memResumeStore{}
	ing := NewIngestor(embedder, resumes, &memReferenceStore{}, IngestorConfig{ChunkSize: 10, EmbedLimit: 2})

	_, err := ing.IngestResume(context.Background(), "r1", "first version of the resume text")
	require.NoError(t, err)

	n, err := ing.IngestResume(context.Background(), "r1", "second version")
	require.NoError(t, err)
	require.Equal(t, n, resumes.count("r1"))
}

func TestIngestResumeEmptyTextClearsIndex(t *testing.T) {
	embedder := newFakeEmbedder("go")
	resumes := &memResumeStore{}
	ing := NewIngestor(embedder, resumes, &memReferenceStore{}, IngestorConfig{ChunkSize: 10, EmbedLimit: 2})

	_, err := ing.IngestResume(context.Background(), "r1", "some text here")
	require.NoError(t, err)
	require.NotZero(t, resumes.count("r1"))

	n, err := ing.IngestResume(context.Background(), "r1", "   ")
	require.NoError(t, err)
	require.Zero(t, n)
	require.Zero(t, resumes.count("r1"))
}

func TestIngestResumeEmbedFailureWritesNothing(t *testing.T) {
	embedder := newFakeEmbedder("go")
	embedder.fail = errors.New("provider down")
	resumes := &memResumeStore{}
	ing := NewIngestor(embedder, resumes, &memReferenceStore{}, IngestorConfig{ChunkSize: 10, EmbedLimit: 2})

	_, err := ing.IngestResume(context.Background(), "r1", "some resume text that spans chunks")
	require.ErrorIs(t, err, ErrEmbedding)
	require.Zero(t, resumes.count("r1"))
}

func TestIngestResumeStoreFailureReported(t *testing.T) {
	embedder := newFakeEmbedder("go")
	resumes := &memResumeStore{failRepl: errStoreDown}
	ing := NewIngestor(embedder, resumes, &memReferenceStore{}, IngestorConfig{ChunkSize: 10, EmbedLimit: 2})

	_, err := ing.IngestResume(context.Background(), "r1", "some resume text")
	require.ErrorIs(t, err, ErrStoreWrite)
}

func TestIngestResumeStoreFailureKeepsOldIndex(t *testing.T) {
	embedder := newFakeEmbedder("go")
	resumes := &memResumeStore{}
	ing := NewIngestor(embedder, resumes, &memReferenceStore{}, IngestorConfig{ChunkSize: 10, EmbedLimit: 2})

	_, err := ing.IngestResume(context.Background(), "r1", "first version of the resume")
	require.NoError(t, err)
	before := resumes.count("r1")
	require.NotZero(t, before)

	resumes.failRepl = errStoreDown
	_, err = ing.IngestResume(context.Background(), "r1", "second version that fails")
	require.ErrorIs(t, err, ErrStoreWrite)
	require.Equal(t, before, resumes.count("r1"))
}

func TestIngestResumeRejectsWrongEmbeddingDim(t *testing.T) {
	embedder := newFakeEmbedder("go", "sql")
	resumes := &memResumeStore{}
	ing := NewIngestor(embedder, resumes, &memReferenceStore{}, IngestorConfig{ChunkSize: 10, EmbedLimit: 2, EmbedDim: 3})

	_, err := ing.IngestResume(context.Background(), "r1", "go and sql text")
	require.ErrorIs(t, err, ErrEmbedding)
	require.Zero(t, resumes.count("r1"))
}

func TestIngestReferenceKeepsTitleIsolation(t *testing.T) {
	embedder := newFakeEmbedder("go", "java")
	refs := &memReferenceStore{}
	ing := NewIngestor(embedder, &memResumeStore{}, refs, IngestorConfig{ChunkSize: 15, EmbedLimit: 2})

	_, err := ing.IngestReference(context.Background(), "backend-jd", "job", "go services and databases")
	require.NoError(t, err)
	_, err = ing.IngestReference(context.Background(), "frontend-jd", "job", "java applets and widgets")
	require.NoError(t, err)

	// re-ingesting one title must not touch the other
	_, err = ing.IngestReference(context.Background(), "backend-jd", "job", "updated go content")
	require.NoError(t, err)

	titles := map[string]int{}
	for _, chunk := range refs.chunks {
		titles[chunk.Title]++
	}
	require.NotZero(t, titles["backend-jd"])
	require.NotZero(t, titles["frontend-jd"])
}
