package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wiz-abhi/realprep/internal/rag"
	"github.com/wiz-abhi/realprep/internal/repo"
	"github.com/wiz-abhi/realprep/internal/service"
	"github.com/wiz-abhi/realprep/test/testutil"
)

type downEmbedder struct{}

func (downEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	return nil, errors.New("provider down")
}

func TestReferenceServiceCreateRollsBackOnIngestFailure(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	docs := repo.NewReferenceDocRepo(db)
	chunks := repo.NewReferenceChunkRepo(db)
	ingestor := rag.NewIngestor(downEmbedder{}, repo.NewResumeChunkRepo(db), chunks, rag.IngestorConfig{ChunkSize: 100, EmbedLimit: 2})
	refs := service.NewReferenceService(docs, chunks, ingestor)

	title := "ref-test-" + time.Now().Format("150405.000000")
	_, err := refs.Create(context.Background(), service.ReferenceCreateInput{
		Title:   title,
		DocType: "job_description",
		Content: "go backend role with postgres",
	})
	require.Error(t, err)

	// the doc row must not survive a failed ingestion
	all, err := docs.List(context.Background())
	require.NoError(t, err)
	for _, doc := range all {
		require.NotEqual(t, title, doc.Title)
	}
}
