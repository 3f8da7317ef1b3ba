package job

import (
	"context"

	"github.com/wiz-abhi/realprep/internal/service"
)

// ResumeResyncJob retries vector-store ingestion for resumes whose
// initial ingestion failed and left them in the pending state.
type ResumeResyncJob struct {
	resumes      *service.ResumeService
	delaySeconds int64
	batchLimit   int
}

func NewResumeResyncJob(resumes *service.ResumeService, delaySeconds int64, batchLimit int) *ResumeResyncJob {
	return &ResumeResyncJob{resumes: resumes, delaySeconds: delaySeconds, batchLimit: batchLimit}
}

func (j *ResumeResyncJob) Name() string {
	return "resume_resync"
}

func (j *ResumeResyncJob) Run(ctx context.Context) error {
	if j.resumes == nil {
		return nil
	}
	return j.resumes.ProcessPendingIngestions(ctx, j.delaySeconds, j.batchLimit)
}
