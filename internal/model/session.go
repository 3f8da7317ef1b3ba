package model

const (
	MessageRoleInterviewer = "interviewer"
	MessageRoleCandidate   = "candidate"
)

type InterviewSession struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	ResumeID     string `json:"resume_id"`
	Role         string `json:"role"`
	State        int    `json:"state"`
	DurationMins int    `json:"duration_mins"`
	Score        int    `json:"score"`
	Feedback     string `json:"feedback"`
	Ctime        int64  `json:"ctime"`
	Mtime        int64  `json:"mtime"`
}

type InterviewMessage struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Seq       int    `json:"seq"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Emotion   string `json:"emotion,omitempty"`
	Ctime     int64  `json:"ctime"`
}
