package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/didi/gendry/builder"

	"github.com/wiz-abhi/realprep/internal/model"
	"github.com/wiz-abhi/realprep/internal/pkg/dbutil"
)

// createRetries bounds how often Create re-runs after losing a seq race
// to a concurrent insert on the same session.
const createRetries = 3

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

var messageFields = []string{"id", "session_id", "seq", "role", "content", "emotion", "ctime"}

// Create appends msg to its session's transcript. The sequence number
// is assigned inside the insert; the unique (session_id, seq) index
// turns concurrent appends into a conflict, which is retried with a
// freshly computed seq. The assigned value is written back to msg.Seq.
func (r *MessageRepo) Create(ctx context.Context, msg *model.InterviewMessage) error {
	const query = `
		INSERT INTO interview_messages (id, session_id, seq, role, content, emotion, ctime)
		SELECT $1, $2, COALESCE(MAX(seq), 0) + 1, $3, $4, $5, $6
		FROM interview_messages WHERE session_id = $2
		RETURNING seq
	`
	var err error
	for attempt := 0; attempt < createRetries; attempt++ {
		err = r.db.QueryRowContext(ctx, query,
			msg.ID,
			msg.SessionID,
			msg.Role,
			msg.Content,
			msg.Emotion,
			msg.Ctime,
		).Scan(&msg.Seq)
		if err == nil || !dbutil.IsConflict(err) {
			return err
		}
	}
	return fmt.Errorf("append message: %w", err)
}

func (r *MessageRepo) ListBySession(ctx context.Context, sessionID string) ([]model.InterviewMessage, error) {
	where := map[string]interface{}{
		"session_id": sessionID,
		"_orderby":   "seq asc",
	}
	sqlStr, args, err := builder.BuildSelect("interview_messages", where, messageFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var msgs []model.InterviewMessage
	for rows.Next() {
		var msg model.InterviewMessage
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Seq, &msg.Role, &msg.Content, &msg.Emotion, &msg.Ctime); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}
