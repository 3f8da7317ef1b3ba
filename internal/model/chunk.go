package model

// ResumeChunk is one bounded-size segment of a resume together with its
// embedding. Chunks are written once at ingestion time and never updated;
// they disappear only when the parent resume is deleted.
type ResumeChunk struct {
	ID        string    `json:"id"`
	ResumeID  string    `json:"resume_id"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"-"`
	Ctime     int64     `json:"ctime"`
}

// ReferenceChunk is a segment of a shared reference document (job
// description, sample questions). Keyed by the parent title instead of a
// document id so retrieval can label results with their source.
type ReferenceChunk struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	DocType   string    `json:"doc_type"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"-"`
	Ctime     int64     `json:"ctime"`
}

// RetrievedChunk is a similarity-search hit. Similarity is 1 - cosine
// distance, in [0, 1] for normalized embeddings.
type RetrievedChunk struct {
	Content    string  `json:"content"`
	Title      string  `json:"title,omitempty"`
	Similarity float64 `json:"similarity"`
}
