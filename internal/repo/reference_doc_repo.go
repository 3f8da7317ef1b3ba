package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/wiz-abhi/realprep/internal/model"
	"github.com/wiz-abhi/realprep/internal/pkg/dbutil"
	appErr "github.com/wiz-abhi/realprep/internal/pkg/errors"
)

type ReferenceDocRepo struct {
	db *sql.DB
}

func NewReferenceDocRepo(db *sql.DB) *ReferenceDocRepo {
	return &ReferenceDocRepo{db: db}
}

var referenceDocFields = []string{"id", "title", "doc_type", "content", "ctime", "mtime"}

func (r *ReferenceDocRepo) Create(ctx context.Context, doc *model.ReferenceDoc) error {
	data := map[string]interface{}{
		"id":       doc.ID,
		"title":    doc.Title,
		"doc_type": doc.DocType,
		"content":  doc.Content,
		"ctime":    doc.Ctime,
		"mtime":    doc.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("reference_docs", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *ReferenceDocRepo) Update(ctx context.Context, doc *model.ReferenceDoc) error {
	where := map[string]interface{}{"id": doc.ID}
	update := map[string]interface{}{
		"doc_type": doc.DocType,
		"content":  doc.Content,
		"mtime":    doc.Mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("reference_docs", where, update)
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

func (r *ReferenceDocRepo) GetByID(ctx context.Context, docID string) (*model.ReferenceDoc, error) {
	where := map[string]interface{}{"id": docID}
	sqlStr, args, err := builder.BuildSelect("reference_docs", where, referenceDocFields)
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
	return scanReferenceDoc(rows)
}

func (r *ReferenceDocRepo) List(ctx context.Context) ([]model.ReferenceDoc, error) {
	where := map[string]interface{}{
		"_orderby": "mtime desc",
	}
	sqlStr, args, err := builder.BuildSelect("reference_docs", where, referenceDocFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var docs []model.ReferenceDoc
	for rows.Next() {
		doc, err := scanReferenceDoc(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

func (r *ReferenceDocRepo) Delete(ctx context.Context, docID string) error {
	where := map[string]interface{}{"id": docID}
	sqlStr, args, err := builder.BuildDelete("reference_docs", where)
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

func scanReferenceDoc(rows *sql.Rows) (*model.ReferenceDoc, error) {
	var doc model.ReferenceDoc
	if err := rows.Scan(&doc.ID, &doc.Title, &doc.DocType, &doc.Content, &doc.Ctime, &doc.Mtime); err != nil {
		return nil, err
	}
	return &doc, nil
}
