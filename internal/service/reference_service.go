package service

import (
	"context"
	"strings"

	"github.com/xxxsen/common/logutil"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"

	"github.com/wiz-abhi/realprep/internal/model"
	appErr "github.com/wiz-abhi/realprep/internal/pkg/errors"
	"github.com/wiz-abhi/realprep/internal/pkg/ids"
	"github.com/wiz-abhi/realprep/internal/pkg/timeutil"
	"github.com/wiz-abhi/realprep/internal/rag"
	"github.com/wiz-abhi/realprep/internal/repo"
)

// ReferenceService manages the shared reference documents (job
// descriptions, sample question banks) that ground interview prompts.
type ReferenceService struct {
	docs     *repo.ReferenceDocRepo
	chunks   *repo.ReferenceChunkRepo
	ingestor *rag.Ingestor
}

func NewReferenceService(docs *repo.ReferenceDocRepo, chunks *repo.ReferenceChunkRepo, ingestor *rag.Ingestor) *ReferenceService {
	return &ReferenceService{docs: docs, chunks: chunks, ingestor: ingestor}
}

type ReferenceCreateInput struct {
	Title   string
	DocType string
	Content string
}

func (s *ReferenceService) Create(ctx context.Context, in ReferenceCreateInput) (*model.ReferenceDoc, error) {
	if in.Title == "" || in.Content == "" {
		return nil, appErr.ErrInvalid
	}
	if in.DocType != model.RefDocTypeJobDescription && in.DocType != model.RefDocTypeSampleQuestions {
		return nil, appErr.ErrInvalid
	}
	now := timeutil.NowUnix()
	doc := &model.ReferenceDoc{
		ID:      ids.New(),
		Title:   in.Title,
		DocType: in.DocType,
		Content: in.Content,
		Ctime:   now,
		Mtime:   now,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, err
	}
	if _, err := s.ingestor.IngestReference(ctx, doc.Title, doc.DocType, flattenMarkdown(doc.Content)); err != nil {
		// Roll the document back so a failed ingestion never leaves a
		// doc that retrieval can't see. The caller retries the whole
		// create.
		if derr := s.docs.Delete(ctx, doc.ID); derr != nil {
			logutil.GetLogger(ctx).Error("reference doc orphaned after failed ingestion",
				zap.String("doc_id", doc.ID),
				zap.Error(derr),
			)
		}
		return nil, err
	}
	return doc, nil
}

func (s *ReferenceService) Update(ctx context.Context, docID string, docType, content string) (*model.ReferenceDoc, error) {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if docType != "" {
		doc.DocType = docType
	}
	if content != "" {
		doc.Content = content
	}
	doc.Mtime = timeutil.NowUnix()
	if err := s.docs.Update(ctx, doc); err != nil {
		return nil, err
	}
	if _, err := s.ingestor.IngestReference(ctx, doc.Title, doc.DocType, flattenMarkdown(doc.Content)); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *ReferenceService) Get(ctx context.Context, docID string) (*model.ReferenceDoc, error) {
	return s.docs.GetByID(ctx, docID)
}

func (s *ReferenceService) List(ctx context.Context) ([]model.ReferenceDoc, error) {
	return s.docs.List(ctx)
}

func (s *ReferenceService) Delete(ctx context.Context, docID string) error {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if err := s.chunks.DeleteByTitle(ctx, doc.Title); err != nil {
		return err
	}
	return s.docs.Delete(ctx, docID)
}

// flattenMarkdown strips markdown structure so chunking and embedding
// see plain prose instead of syntax noise. Non-markdown text passes
// through nearly unchanged.
func flattenMarkdown(markdown string) string {
	md := goldmark.New()
	reader := text.NewReader([]byte(markdown))
	doc := md.Parser().Parse(reader)

	var parts []string
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		txt := extractText(node, reader.Source())
		if txt == "" {
			continue
		}
		parts = append(parts, txt)
	}
	return strings.Join(parts, "\n\n")
}

func extractText(n ast.Node, source []byte) string {
	var sb strings.Builder
	ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if node.Type() == ast.TypeBlock || node.Type() == ast.TypeInline {
			if node.Kind() == ast.KindText {
				sb.Write(node.(*ast.Text).Segment.Value(source))
				sb.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
