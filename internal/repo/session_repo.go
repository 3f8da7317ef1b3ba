package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/wiz-abhi/realprep/internal/model"
	"github.com/wiz-abhi/realprep/internal/pkg/dbutil"
	appErr "github.com/wiz-abhi/realprep/internal/pkg/errors"
)

const (
	SessionStateActive   = 1
	SessionStateFinished = 2
)

type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

var sessionFields = []string{"id", "user_id", "resume_id", "role", "state", "duration_mins", "score", "feedback", "ctime", "mtime"}

func (r *SessionRepo) Create(ctx context.Context, session *model.InterviewSession) error {
	data := map[string]interface{}{
		"id":            session.ID,
		"user_id":       session.UserID,
		"resume_id":     session.ResumeID,
		"role":          session.Role,
		"state":         session.State,
		"duration_mins": session.DurationMins,
		"score":         session.Score,
		"feedback":      session.Feedback,
		"ctime":         session.Ctime,
		"mtime":         session.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("interview_sessions", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *SessionRepo) GetByID(ctx context.Context, userID, sessionID string) (*model.InterviewSession, error) {
	where := map[string]interface{}{
		"id":      sessionID,
		"user_id": userID,
	}
	sqlStr, args, err := builder.BuildSelect("interview_sessions", where, sessionFields)
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
	return scanSession(rows)
}

func (r *SessionRepo) ListByUser(ctx context.Context, userID string, limit uint) ([]model.InterviewSession, error) {
	where := map[string]interface{}{
		"user_id":  userID,
		"_orderby": "ctime desc",
	}
	if limit > 0 {
		where["_limit"] = []uint{0, limit}
	}
	sqlStr, args, err := builder.BuildSelect("interview_sessions", where, sessionFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var sessions []model.InterviewSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

// Finish marks an active session finished and stores the score and
// feedback. Finishing an already finished session reports ErrNotFound.
func (r *SessionRepo) Finish(ctx context.Context, userID, sessionID string, score int, feedback string, mtime int64) error {
	where := map[string]interface{}{
		"id":      sessionID,
		"user_id": userID,
		"state":   SessionStateActive,
	}
	update := map[string]interface{}{
		"state":    SessionStateFinished,
		"score":    score,
		"feedback": feedback,
		"mtime":    mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("interview_sessions", where, update)
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

func scanSession(rows *sql.Rows) (*model.InterviewSession, error) {
	var session model.InterviewSession
	if err := rows.Scan(&session.ID, &session.UserID, &session.ResumeID, &session.Role, &session.State, &session.DurationMins, &session.Score, &session.Feedback, &session.Ctime, &session.Mtime); err != nil {
		return nil, err
	}
	return &session, nil
}
