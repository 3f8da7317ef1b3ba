package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/wiz-abhi/realprep/internal/model"
)

// ResumeChunkRepo stores resume chunks with their embeddings and answers
// cosine-distance nearest-neighbor queries scoped to one resume.
type ResumeChunkRepo struct {
	db *sql.DB
}

func NewResumeChunkRepo(db *sql.DB) *ResumeChunkRepo {
	return &ResumeChunkRepo{db: db}
}

// Replace swaps the indexed representation of one resume in a single
// transaction. Any failure rolls back to the previously indexed rows;
// an empty chunk slice clears the index.
func (r *ResumeChunkRepo) Replace(ctx context.Context, resumeID string, chunks []*model.ResumeChunk) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM resume_chunks WHERE resume_id = $1`, resumeID); err != nil {
		return fmt.Errorf("clear resume chunks: %w", err)
	}
	const insert = `
		INSERT INTO resume_chunks (id, resume_id, content, embedding, ctime)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, chunk := range chunks {
		if _, err := tx.ExecContext(ctx, insert,
			chunk.ID,
			chunk.ResumeID,
			chunk.Content,
			pgvector.NewVector(chunk.Embedding),
			chunk.Ctime,
		); err != nil {
			return fmt.Errorf("insert resume chunk: %w", err)
		}
	}
	return tx.Commit()
}

func (r *ResumeChunkRepo) DeleteByResume(ctx context.Context, resumeID string) error {
	const query = `DELETE FROM resume_chunks WHERE resume_id = $1`
	_, err := r.db.ExecContext(ctx, query, resumeID)
	return err
}

func (r *ResumeChunkRepo) CountByResume(ctx context.Context, resumeID string) (int, error) {
	const query = `SELECT COUNT(*) FROM resume_chunks WHERE resume_id = $1`
	var count int
	if err := r.db.QueryRowContext(ctx, query, resumeID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// NearestByResume returns the limit chunks of one resume closest to the
// query embedding, nearest first. Similarity is 1 - cosine distance.
func (r *ResumeChunkRepo) NearestByResume(ctx context.Context, resumeID string, query []float32, limit int) ([]model.RetrievedChunk, error) {
	const sqlStr = `
		SELECT content, 1 - (embedding <=> $1) AS similarity
		FROM resume_chunks
		WHERE resume_id = $2
		ORDER BY embedding <=> $1
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, sqlStr, pgvector.NewVector(query), resumeID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var hits []model.RetrievedChunk
	for rows.Next() {
		var hit model.RetrievedChunk
		if err := rows.Scan(&hit.Content, &hit.Similarity); err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}
