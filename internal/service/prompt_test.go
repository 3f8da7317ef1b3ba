package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiz-abhi/realprep/internal/model"
)

func TestBuildInterviewerPromptIncludesSections(t *testing.T) {
	transcript := []model.InterviewMessage{
		{Role: model.MessageRoleInterviewer, Content: "Tell me about yourself."},
		{Role: model.MessageRoleCandidate, Content: "I build Go services.", Emotion: "confident"},
	}
	prompt := buildInterviewerPrompt("Backend Engineer", "Candidate resume:\nGo expert\n", transcript)

	require.Contains(t, prompt, "Backend Engineer")
	require.Contains(t, prompt, "BACKGROUND:")
	require.Contains(t, prompt, "Go expert")
	require.Contains(t, prompt, "TRANSCRIPT SO FAR:")
	require.Contains(t, prompt, "Interviewer: Tell me about yourself.")
	require.Contains(t, prompt, "Candidate: I build Go services.")
	require.Contains(t, prompt, "(observed emotion: confident)")
}

func TestBuildInterviewerPromptOmitsEmptySections(t *testing.T) {
	prompt := buildInterviewerPrompt("Backend Engineer", "  ", nil)
	require.NotContains(t, prompt, "BACKGROUND:")
	require.NotContains(t, prompt, "TRANSCRIPT SO FAR:")
}

func TestBuildScoringPromptFormat(t *testing.T) {
	prompt := buildScoringPrompt("SRE", []model.InterviewMessage{
		{Role: model.MessageRoleCandidate, Content: "answer"},
	})
	require.Contains(t, prompt, `"SCORE: <integer 0-100>"`)
	require.Contains(t, prompt, "Candidate: answer")
}

func TestTrimTranscriptDropsOldestOverBudget(t *testing.T) {
	transcript := []model.InterviewMessage{
		{Seq: 1, Content: "aaaaaaaaaa"},
		{Seq: 2, Content: "bbbbbbbbbb"},
		{Seq: 3, Content: "cccccccccc"},
	}
	trimmed := trimTranscript(transcript, 25)
	require.Len(t, trimmed, 2)
	require.Equal(t, 2, trimmed[0].Seq)
	require.Equal(t, 3, trimmed[1].Seq)
}

func TestTrimTranscriptKeepsAllUnderBudget(t *testing.T) {
	transcript := []model.InterviewMessage{
		{Seq: 1, Content: "short"},
		{Seq: 2, Content: "short"},
	}
	require.Len(t, trimTranscript(transcript, 100), 2)
}

func TestTrimTranscriptZeroBudgetKeepsAll(t *testing.T) {
	transcript := []model.InterviewMessage{
		{Seq: 1, Content: strings.Repeat("x", 1000)},
	}
	require.Len(t, trimTranscript(transcript, 0), 1)
}

func TestParseVerdict(t *testing.T) {
	score, feedback, err := parseVerdict("SCORE: 85\nStrong on systems design, weak on SQL.")
	require.NoError(t, err)
	require.Equal(t, 85, score)
	require.Equal(t, "Strong on systems design, weak on SQL.", feedback)
}

func TestParseVerdictToleratesPreamble(t *testing.T) {
	score, feedback, err := parseVerdict("Here is my evaluation.\nscore: 70\nGood overall.")
	require.NoError(t, err)
	require.Equal(t, 70, score)
	require.Equal(t, "Good overall.", feedback)
}

func TestParseVerdictClampsScore(t *testing.T) {
	score, _, err := parseVerdict("SCORE: 150\nfeedback")
	require.NoError(t, err)
	require.Equal(t, 100, score)
}

func TestParseVerdictMissingScore(t *testing.T) {
	_, _, err := parseVerdict("The candidate did well.")
	require.Error(t, err)
}

func TestFlattenMarkdownStripsFormatting(t *testing.T) {
	flat := flattenMarkdown("# Senior Go Engineer\n\nWe need **strong** `Go` skills.\n\n- one\n- two\n")
	require.Contains(t, flat, "Senior Go Engineer")
	require.Contains(t, flat, "strong")
	require.Contains(t, flat, "one")
	require.NotContains(t, flat, "#")
	require.NotContains(t, flat, "**")
	require.False(t, strings.Contains(flat, "- one"))
}
