package service

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/wiz-abhi/realprep/internal/model"
	appErr "github.com/wiz-abhi/realprep/internal/pkg/errors"
	"github.com/wiz-abhi/realprep/internal/pkg/ids"
	"github.com/wiz-abhi/realprep/internal/pkg/timeutil"
	"github.com/wiz-abhi/realprep/internal/rag"
	"github.com/wiz-abhi/realprep/internal/repo"
)

type ResumeService struct {
	resumes  *repo.ResumeRepo
	chunks   *repo.ResumeChunkRepo
	ingestor *rag.Ingestor
}

func NewResumeService(resumes *repo.ResumeRepo, chunks *repo.ResumeChunkRepo, ingestor *rag.Ingestor) *ResumeService {
	return &ResumeService{resumes: resumes, chunks: chunks, ingestor: ingestor}
}

type ResumeCreateInput struct {
	Title   string
	Content string
	FileKey string
}

// Create persists the resume and ingests it into the vector store. A
// failed ingestion does not fail the upload: the resume stays in the
// pending state and the resync job retries it.
func (s *ResumeService) Create(ctx context.Context, userID string, in ResumeCreateInput) (*model.Resume, error) {
	if in.Title == "" || in.Content == "" {
		return nil, appErr.ErrInvalid
	}
	now := timeutil.NowUnix()
	resume := &model.Resume{
		ID:          ids.New(),
		UserID:      userID,
		Title:       in.Title,
		Content:     in.Content,
		FileKey:     in.FileKey,
		IngestState: repo.ResumeIngestPending,
		Ctime:       now,
		Mtime:       now,
	}
	if err := s.resumes.Create(ctx, resume); err != nil {
		return nil, err
	}
	if err := s.ingest(ctx, resume); err != nil {
		logutil.GetLogger(ctx).Warn("resume ingestion failed, will retry in background",
			zap.String("resume_id", resume.ID),
			zap.Error(err),
		)
	}
	return resume, nil
}

func (s *ResumeService) Get(ctx context.Context, userID, resumeID string) (*model.Resume, error) {
	return s.resumes.GetByID(ctx, userID, resumeID)
}

func (s *ResumeService) List(ctx context.Context, userID string) ([]model.Resume, error) {
	return s.resumes.ListByUser(ctx, userID)
}

// Delete removes the resume and cascades to its chunks.
func (s *ResumeService) Delete(ctx context.Context, userID, resumeID string) error {
	if _, err := s.resumes.GetByID(ctx, userID, resumeID); err != nil {
		return err
	}
	if err := s.chunks.DeleteByResume(ctx, resumeID); err != nil {
		return err
	}
	return s.resumes.Delete(ctx, userID, resumeID)
}

// ProcessPendingIngestions retries ingestion for resumes whose chunks
// were never written, oldest first. Used by the resync cron job.
func (s *ResumeService) ProcessPendingIngestions(ctx context.Context, delaySeconds int64, limit int) error {
	before := timeutil.NowUnix() - delaySeconds
	pending, err := s.resumes.ListPending(ctx, before, limit)
	if err != nil {
		return err
	}
	logger := logutil.GetLogger(ctx)
	for i := range pending {
		resume := &pending[i]
		if err := s.ingest(ctx, resume); err != nil {
			logger.Warn("resume resync failed",
				zap.String("resume_id", resume.ID),
				zap.Error(err),
			)
			continue
		}
		logger.Info("resume resynced", zap.String("resume_id", resume.ID))
	}
	return nil
}

func (s *ResumeService) ingest(ctx context.Context, resume *model.Resume) error {
	if _, err := s.ingestor.IngestResume(ctx, resume.ID, resume.Content); err != nil {
		return err
	}
	return s.resumes.UpdateIngestState(ctx, resume.ID, repo.ResumeIngestDone, timeutil.NowUnix())
}
