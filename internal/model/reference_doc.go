package model

const (
	RefDocTypeJobDescription  = "job_description"
	RefDocTypeSampleQuestions = "sample_questions"
)

type ReferenceDoc struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	DocType string `json:"doc_type"`
	Content string `json:"content"`
	Ctime   int64  `json:"ctime"`
	Mtime   int64  `json:"mtime"`
}
