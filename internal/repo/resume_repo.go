package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/wiz-abhi/realprep/internal/model"
	"github.com/wiz-abhi/realprep/internal/pkg/dbutil"
	appErr "github.com/wiz-abhi/realprep/internal/pkg/errors"
)

// Ingestion states for a resume. Pending resumes are retried by the
// resync job until their chunks are written.
const (
	ResumeIngestPending = 0
	ResumeIngestDone    = 1
)

type ResumeRepo struct {
	db *sql.DB
}

func NewResumeRepo(db *sql.DB) *ResumeRepo {
	return &ResumeRepo{db: db}
}

var resumeFields = []string{"id", "user_id", "title", "content", "file_key", "ingest_state", "ctime", "mtime"}

func (r *ResumeRepo) Create(ctx context.Context, resume *model.Resume) error {
	data := map[string]interface{}{
		"id":           resume.ID,
		"user_id":      resume.UserID,
		"title":        resume.Title,
		"content":      resume.Content,
		"file_key":     resume.FileKey,
		"ingest_state": resume.IngestState,
		"ctime":        resume.Ctime,
		"mtime":        resume.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("resumes", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *ResumeRepo) GetByID(ctx context.Context, userID, resumeID string) (*model.Resume, error) {
	where := map[string]interface{}{
		"id":      resumeID,
		"user_id": userID,
	}
	sqlStr, args, err := builder.BuildSelect("resumes", where, resumeFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	return scanResume(rows)
}

func (r *ResumeRepo) ListByUser(ctx context.Context, userID string) ([]model.Resume, error) {
	where := map[string]interface{}{
		"user_id":  userID,
		"_orderby": "mtime desc",
	}
	sqlStr, args, err := builder.BuildSelect("resumes", where, resumeFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var resumes []model.Resume
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, *resume)
	}
	return resumes, rows.Err()
}

func (r *ResumeRepo) UpdateIngestState(ctx context.Context, resumeID string, state int, mtime int64) error {
	where := map[string]interface{}{"id": resumeID}
	update := map[string]interface{}{
		"ingest_state": state,
		"mtime":        mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("resumes", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *ResumeRepo) Delete(ctx context.Context, userID, resumeID string) error {
	where := map[string]interface{}{
		"id":      resumeID,
		"user_id": userID,
	}
	sqlStr, args, err := builder.BuildDelete("resumes", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

// ListPending returns resumes whose ingestion has not completed and that
// were last touched before the delay cutoff, oldest first.
func (r *ResumeRepo) ListPending(ctx context.Context, before int64, limit int) ([]model.Resume, error) {
	where := map[string]interface{}{
		"ingest_state": ResumeIngestPending,
		"mtime <":      before,
		"_orderby":     "mtime asc",
		"_limit":       []uint{0, uint(limit)},
	}
	sqlStr, args, err := builder.BuildSelect("resumes", where, resumeFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var resumes []model.Resume
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, *resume)
	}
	return resumes, rows.Err()
}

func scanResume(rows *sql.Rows) (*model.Resume, error) {
	var resume model.Resume
	if err := rows.Scan(&resume.ID, &resume.UserID, &resume.Title, &resume.Content, &resume.FileKey, &resume.IngestState, &resume.Ctime, &resume.Mtime); err != nil {
		return nil, err
	}
	return &resume, nil
}
