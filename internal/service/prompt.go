package service

import (
	"fmt"
	"strings"

	"github.com/wiz-abhi/realprep/internal/model"
)

func buildInterviewerPrompt(role, context string, transcript []model.InterviewMessage) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `You are a professional interviewer conducting a mock interview for the role of %s.
Ask exactly ONE question at a time. Be specific and grounded in the candidate's background.
- Prefer follow-up questions that dig into the candidate's last answer.
- Do not repeat questions already asked.
- Output ONLY the next question, no preamble.
`, role)
	if strings.TrimSpace(context) != "" {
		sb.WriteString("\nBACKGROUND:\n")
		sb.WriteString(context)
		sb.WriteString("\n")
	}
	if len(transcript) > 0 {
		sb.WriteString("\nTRANSCRIPT SO FAR:\n")
		writeTranscript(&sb, transcript)
	}
	return sb.String()
}

func buildScoringPrompt(role string, transcript []model.InterviewMessage) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `You are a hiring committee member reviewing a mock interview for the role of %s.
Evaluate the candidate's answers and produce:
- The first line exactly in the form "SCORE: <integer 0-100>".
- Then a concise feedback paragraph (strengths, weaknesses, concrete advice).

TRANSCRIPT:
`, role)
	writeTranscript(&sb, transcript)
	return sb.String()
}

func writeTranscript(sb *strings.Builder, transcript []model.InterviewMessage) {
	for _, msg := range transcript {
		label := "Interviewer"
		if msg.Role == model.MessageRoleCandidate {
			label = "Candidate"
		}
		fmt.Fprintf(sb, "%s: %s\n", label, msg.Content)
		if msg.Emotion != "" && msg.Role == model.MessageRoleCandidate {
			fmt.Fprintf(sb, "(observed emotion: %s)\n", msg.Emotion)
		}
	}
}
