package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiz-abhi/realprep/internal/model"
	"github.com/wiz-abhi/realprep/internal/repo"
	"github.com/wiz-abhi/realprep/test/testutil"
)

// unitVec builds a 768-dim vector pointing mostly along axis, so cosine
// ordering in the tests is easy to reason about.
func unitVec(axis int) []float32 {
	vec := make([]float32, 768)
	vec[axis] = 1
	return vec
}

func TestResumeChunkRepoReplaceAndNearest(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	chunks := repo.NewResumeChunkRepo(db)
	require.NoError(t, chunks.DeleteByResume(context.Background(), "chunk-test-r1"))

	err := chunks.Replace(context.Background(), "chunk-test-r1", []*model.ResumeChunk{
		{ID: "ct-1", ResumeID: "chunk-test-r1", Content: "go services", Embedding: unitVec(0), Ctime: 1},
		{ID: "ct-2", ResumeID: "chunk-test-r1", Content: "painting hobby", Embedding: unitVec(1), Ctime: 1},
	})
	require.NoError(t, err)

	count, err := chunks.CountByResume(context.Background(), "chunk-test-r1")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	hits, err := chunks.NearestByResume(context.Background(), "chunk-test-r1", unitVec(0), 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "go services", hits[0].Content)
	require.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
}

func TestResumeChunkRepoReplaceSwapsOldRows(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	chunks := repo.NewResumeChunkRepo(db)
	require.NoError(t, chunks.DeleteByResume(context.Background(), "chunk-test-r5"))

	err := chunks.Replace(context.Background(), "chunk-test-r5", []*model.ResumeChunk{
		{ID: "ct-30", ResumeID: "chunk-test-r5", Content: "old", Embedding: unitVec(0), Ctime: 1},
	})
	require.NoError(t, err)

	err = chunks.Replace(context.Background(), "chunk-test-r5", []*model.ResumeChunk{
		{ID: "ct-31", ResumeID: "chunk-test-r5", Content: "new", Embedding: unitVec(0), Ctime: 2},
	})
	require.NoError(t, err)

	hits, err := chunks.NearestByResume(context.Background(), "chunk-test-r5", unitVec(0), 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "new", hits[0].Content)
}

func TestResumeChunkRepoScopesByResume(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	chunks := repo.NewResumeChunkRepo(db)
	require.NoError(t, chunks.DeleteByResume(context.Background(), "chunk-test-r2"))
	require.NoError(t, chunks.DeleteByResume(context.Background(), "chunk-test-r3"))

	err := chunks.Replace(context.Background(), "chunk-test-r2", []*model.ResumeChunk{
		{ID: "ct-10", ResumeID: "chunk-test-r2", Content: "mine", Embedding: unitVec(0), Ctime: 1},
	})
	require.NoError(t, err)
	err = chunks.Replace(context.Background(), "chunk-test-r3", []*model.ResumeChunk{
		{ID: "ct-11", ResumeID: "chunk-test-r3", Content: "other", Embedding: unitVec(0), Ctime: 1},
	})
	require.NoError(t, err)

	hits, err := chunks.NearestByResume(context.Background(), "chunk-test-r2", unitVec(0), 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "mine", hits[0].Content)
}

func TestResumeChunkRepoReplaceFailureKeepsOldRows(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	chunks := repo.NewResumeChunkRepo(db)
	require.NoError(t, chunks.DeleteByResume(context.Background(), "chunk-test-r4"))

	err := chunks.Replace(context.Background(), "chunk-test-r4", []*model.ResumeChunk{
		{ID: "ct-20", ResumeID: "chunk-test-r4", Content: "survivor", Embedding: unitVec(0), Ctime: 1},
	})
	require.NoError(t, err)

	// duplicate id in the new batch rolls back the whole replace, old
	// rows included
	err = chunks.Replace(context.Background(), "chunk-test-r4", []*model.ResumeChunk{
		{ID: "ct-21", ResumeID: "chunk-test-r4", Content: "one", Embedding: unitVec(0), Ctime: 2},
		{ID: "ct-21", ResumeID: "chunk-test-r4", Content: "two", Embedding: unitVec(1), Ctime: 2},
	})
	require.Error(t, err)

	count, err := chunks.CountByResume(context.Background(), "chunk-test-r4")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	hits, err := chunks.NearestByResume(context.Background(), "chunk-test-r4", unitVec(0), 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "survivor", hits[0].Content)
}
