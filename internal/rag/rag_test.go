package rag

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/wiz-abhi/realprep/internal/model"
)

// fakeEmbedder produces small deterministic vectors: one dimension per
// vocabulary word, counting occurrences. Cosine similarity then ranks
// texts by word overlap, which is enough to test retrieval ordering.
type fakeEmbedder struct {
	vocab []string
	mu    sync.Mutex
	calls int
	fail  error
}

func newFakeEmbedder(vocab ...string) *fakeEmbedder {
	return &fakeEmbedder{vocab: vocab}
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	f.mu.Lock()
	f.calls++
	fail := f.fail
	f.mu.Unlock()
	if fail != nil {
		return nil, fail
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lower := strings.ToLower(text)
	vec := make([]float32, len(f.vocab))
	for i, word := range f.vocab {
		vec[i] = float32(strings.Count(lower, word))
	}
	return vec, nil
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

type memResumeStore struct {
	mu       sync.Mutex
	chunks   []*model.ResumeChunk
	failRepl error
	failQry  error
}

// Replace mirrors the repo's transactional swap: on failure the old
// chunks stay untouched.
func (s *memResumeStore) Replace(ctx context.Context, resumeID string, chunks []*model.ResumeChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRepl != nil {
		return s.failRepl
	}
	kept := s.chunks[:0]
	for _, chunk := range s.chunks {
		if chunk.ResumeID != resumeID {
			kept = append(kept, chunk)
		}
	}
	s.chunks = append(kept, chunks...)
	return nil
}

func (s *memResumeStore) NearestByResume(ctx context.Context, resumeID string, query []float32, limit int) ([]model.RetrievedChunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failQry != nil {
		return nil, s.failQry
	}
	var hits []model.RetrievedChunk
	for _, chunk := range s.chunks {
		if chunk.ResumeID != resumeID {
			continue
		}
		hits = append(hits, model.RetrievedChunk{
			Content:    chunk.Content,
			Similarity: cosineSimilarity(query, chunk.Embedding),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Similarity > hits[j].Similarity })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (s *memResumeStore) count(resumeID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, chunk := range s.chunks {
		if chunk.ResumeID == resumeID {
			n++
		}
	}
	return n
}

type memReferenceStore struct {
	mu       sync.Mutex
	chunks   []*model.ReferenceChunk
	failRepl error
	failQry  error
}

func (s *memReferenceStore) Replace(ctx context.Context, title string, chunks []*model.ReferenceChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRepl != nil {
		return s.failRepl
	}
	kept := s.chunks[:0]
	for _, chunk := range s.chunks {
		if chunk.Title != title {
			kept = append(kept, chunk)
		}
	}
	s.chunks = append(kept, chunks...)
	return nil
}

func (s *memReferenceStore) Nearest(ctx context.Context, query []float32, limit int) ([]model.RetrievedChunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failQry != nil {
		return nil, s.failQry
	}
	var hits []model.RetrievedChunk
	for _, chunk := range s.chunks {
		hits = append(hits, model.RetrievedChunk{
			Content:    chunk.Content,
			Title:      chunk.Title,
			Similarity: cosineSimilarity(query, chunk.Embedding),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Similarity > hits[j].Similarity })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

var errStoreDown = errors.New("store down")
