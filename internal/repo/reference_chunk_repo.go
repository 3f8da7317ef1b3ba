package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/wiz-abhi/realprep/internal/model"
)

// ReferenceChunkRepo is the unscoped vector store for shared reference
// documents (job descriptions, sample questions), keyed by title.
type ReferenceChunkRepo struct {
	db *sql.DB
}

func NewReferenceChunkRepo(db *sql.DB) *ReferenceChunkRepo {
	return &ReferenceChunkRepo{db: db}
}

// Replace swaps every chunk stored under title in a single transaction.
// Any failure rolls back to the previously indexed rows; an empty chunk
// slice clears the title's index.
func (r *ReferenceChunkRepo) Replace(ctx context.Context, title string, chunks []*model.ReferenceChunk) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reference_chunks WHERE title = $1`, title); err != nil {
		return fmt.Errorf("clear reference chunks: %w", err)
	}
	const insert = `
		INSERT INTO reference_chunks (id, title, doc_type, content, embedding, ctime)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, chunk := range chunks {
		if _, err := tx.ExecContext(ctx, insert,
			chunk.ID,
			chunk.Title,
			chunk.DocType,
			chunk.Content,
			pgvector.NewVector(chunk.Embedding),
			chunk.Ctime,
		); err != nil {
			return fmt.Errorf("insert reference chunk: %w", err)
		}
	}
	return tx.Commit()
}

func (r *ReferenceChunkRepo) DeleteByTitle(ctx context.Context, title string) error {
	const query = `DELETE FROM reference_chunks WHERE title = $1`
	_, err := r.db.ExecContext(ctx, query, title)
	return err
}

// Nearest searches all reference chunks, nearest first, labeling each
// hit with its originating document title.
func (r *ReferenceChunkRepo) Nearest(ctx context.Context, query []float32, limit int) ([]model.RetrievedChunk, error) {
	const sqlStr = `
		SELECT content, title, 1 - (embedding <=> $1) AS similarity
		FROM reference_chunks
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, sqlStr, pgvector.NewVector(query), limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var hits []model.RetrievedChunk
	for rows.Next() {
		var hit model.RetrievedChunk
		if err := rows.Scan(&hit.Content, &hit.Title, &hit.Similarity); err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}
