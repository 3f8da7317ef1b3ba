package model

type Resume struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	FileKey     string `json:"file_key,omitempty"`
	IngestState int    `json:"ingest_state"`
	Ctime       int64  `json:"ctime"`
	Mtime       int64  `json:"mtime"`
}
