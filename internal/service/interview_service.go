package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/wiz-abhi/realprep/internal/ai"
	"github.com/wiz-abhi/realprep/internal/emotion"
	"github.com/wiz-abhi/realprep/internal/model"
	appErr "github.com/wiz-abhi/realprep/internal/pkg/errors"
	"github.com/wiz-abhi/realprep/internal/pkg/ids"
	"github.com/wiz-abhi/realprep/internal/pkg/timeutil"
	"github.com/wiz-abhi/realprep/internal/rag"
	"github.com/wiz-abhi/realprep/internal/repo"
)

// InterviewService drives a mock-interview session: every turn embeds
// the candidate's last answer, retrieves grounding context from the
// resume and reference chunks, and asks the LLM for the next question.
// Retrieval is best-effort only; a failed context build degrades to a
// less personalized prompt and never fails the turn.
type InterviewService struct {
	sessions  *repo.SessionRepo
	messages  *repo.MessageRepo
	resumes   *repo.ResumeRepo
	retriever *rag.Retriever
	manager   *ai.Manager
	emotions  *emotion.Client
}

func NewInterviewService(
	sessions *repo.SessionRepo,
	messages *repo.MessageRepo,
	resumes *repo.ResumeRepo,
	retriever *rag.Retriever,
	manager *ai.Manager,
	emotions *emotion.Client,
) *InterviewService {
	return &InterviewService{
		sessions:  sessions,
		messages:  messages,
		resumes:   resumes,
		retriever: retriever,
		manager:   manager,
		emotions:  emotions,
	}
}

type SessionStartInput struct {
	ResumeID     string
	Role         string
	DurationMins int
}

type TurnResult struct {
	Session  *model.InterviewSession `json:"session"`
	Question string                  `json:"question"`
}

// Start creates a session and produces the opening question.
func (s *InterviewService) Start(ctx context.Context, userID string, in SessionStartInput) (*TurnResult, error) {
	if in.ResumeID == "" || in.Role == "" {
		return nil, appErr.ErrInvalid
	}
	if in.DurationMins <= 0 {
		in.DurationMins = 30
	}
	if _, err := s.resumes.GetByID(ctx, userID, in.ResumeID); err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	session := &model.InterviewSession{
		ID:           ids.New(),
		UserID:       userID,
		ResumeID:     in.ResumeID,
		Role:         in.Role,
		State:        repo.SessionStateActive,
		DurationMins: in.DurationMins,
		Ctime:        now,
		Mtime:        now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	grounding := s.groundingContext(ctx, session.ResumeID, "background and experience relevant to the role of "+in.Role)
	question, err := s.manager.Generate(ctx, buildInterviewerPrompt(session.Role, grounding, nil))
	if err != nil {
		return nil, err
	}
	if err := s.appendMessage(ctx, session.ID, model.MessageRoleInterviewer, question, ""); err != nil {
		return nil, err
	}
	return &TurnResult{Session: session, Question: question}, nil
}

type TurnInput struct {
	SessionID string
	Answer    string
	// Frame is an optional base64 webcam capture taken while the
	// candidate answered.
	Frame string
}

// Turn records the candidate's answer and returns the next question.
func (s *InterviewService) Turn(ctx context.Context, userID string, in TurnInput) (*TurnResult, error) {
	if in.SessionID == "" || strings.TrimSpace(in.Answer) == "" {
		return nil, appErr.ErrInvalid
	}
	session, err := s.sessions.GetByID(ctx, userID, in.SessionID)
	if err != nil {
		return nil, err
	}
	if session.State != repo.SessionStateActive {
		return nil, appErr.ErrSessionEnded
	}
	emotionLabel := s.analyzeFrame(ctx, in.Frame)
	if err := s.appendMessage(ctx, session.ID, model.MessageRoleCandidate, in.Answer, emotionLabel); err != nil {
		return nil, err
	}
	transcript, err := s.messages.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	grounding := s.groundingContext(ctx, session.ResumeID, in.Answer)
	transcript = trimTranscript(transcript, s.manager.MaxInputChars())
	question, err := s.manager.Generate(ctx, buildInterviewerPrompt(session.Role, grounding, transcript))
	if err != nil {
		return nil, err
	}
	if err := s.appendMessage(ctx, session.ID, model.MessageRoleInterviewer, question, ""); err != nil {
		return nil, err
	}
	return &TurnResult{Session: session, Question: question}, nil
}

// Finish scores the transcript and closes the session.
func (s *InterviewService) Finish(ctx context.Context, userID, sessionID string) (*model.InterviewSession, error) {
	session, err := s.sessions.GetByID(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != repo.SessionStateActive {
		return nil, appErr.ErrSessionEnded
	}
	transcript, err := s.messages.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	verdict, err := s.manager.Generate(ctx, buildScoringPrompt(session.Role, trimTranscript(transcript, s.manager.MaxInputChars())))
	if err != nil {
		return nil, err
	}
	score, feedback, err := parseVerdict(verdict)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	if err := s.sessions.Finish(ctx, userID, sessionID, score, feedback, now); err != nil {
		if appErr.IsNotFound(err) {
			// lost a race with another finish call
			return nil, appErr.ErrSessionEnded
		}
		return nil, err
	}
	session.State = repo.SessionStateFinished
	session.Score = score
	session.Feedback = feedback
	session.Mtime = now
	return session, nil
}

func (s *InterviewService) Get(ctx context.Context, userID, sessionID string) (*model.InterviewSession, error) {
	return s.sessions.GetByID(ctx, userID, sessionID)
}

func (s *InterviewService) List(ctx context.Context, userID string, limit uint) ([]model.InterviewSession, error) {
	return s.sessions.ListByUser(ctx, userID, limit)
}

func (s *InterviewService) Messages(ctx context.Context, userID, sessionID string) ([]model.InterviewMessage, error) {
	if _, err := s.sessions.GetByID(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.messages.ListBySession(ctx, sessionID)
}

func (s *InterviewService) groundingContext(ctx context.Context, resumeID, query string) string {
	if s.retriever == nil {
		return ""
	}
	grounding, err := s.retriever.Context(ctx, resumeID, query, 0)
	if err != nil {
		logutil.GetLogger(ctx).Warn("grounding context unavailable, continuing without it",
			zap.String("resume_id", resumeID),
			zap.Error(err),
		)
		return ""
	}
	return grounding
}

func (s *InterviewService) analyzeFrame(ctx context.Context, frame string) string {
	if s.emotions == nil || frame == "" {
		return ""
	}
	scores, err := s.emotions.Analyze(ctx, frame)
	if err != nil {
		logutil.GetLogger(ctx).Warn("emotion analysis failed", zap.Error(err))
		return ""
	}
	return emotion.Dominant(scores)
}

func (s *InterviewService) appendMessage(ctx context.Context, sessionID, role, content, emotionLabel string) error {
	return s.messages.Create(ctx, &model.InterviewMessage{
		ID:        ids.New(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Emotion:   emotionLabel,
		Ctime:     timeutil.NowUnix(),
	})
}

// trimTranscript drops the oldest messages until the transcript's total
// content fits in budget characters, keeping the recent exchange the
// next question actually builds on. Zero budget keeps everything.
func trimTranscript(transcript []model.InterviewMessage, budget int) []model.InterviewMessage {
	if budget <= 0 {
		return transcript
	}
	total := 0
	for i := len(transcript) - 1; i >= 0; i-- {
		total += len(transcript[i].Content)
		if total > budget {
			return transcript[i+1:]
		}
	}
	return transcript
}

var scoreRegex = regexp.MustCompile(`(?i)SCORE:\s*(\d{1,3})`)

func parseVerdict(verdict string) (int, string, error) {
	match := scoreRegex.FindStringSubmatchIndex(verdict)
	if match == nil {
		return 0, "", fmt.Errorf("no score in ai verdict")
	}
	score, err := strconv.Atoi(verdict[match[2]:match[3]])
	if err != nil {
		return 0, "", fmt.Errorf("parse score: %w", err)
	}
	if score > 100 {
		score = 100
	}
	feedback := strings.TrimSpace(verdict[match[1]:])
	return score, feedback, nil
}
