package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/wiz-abhi/realprep/internal/pkg/errcode"
	"github.com/wiz-abhi/realprep/internal/pkg/response"
	"github.com/wiz-abhi/realprep/internal/speech"
)

// maxAudioSize bounds uploaded answer recordings.
const maxAudioSize = 16 << 20

type SpeechHandler struct {
	provider speech.Provider
}

func NewSpeechHandler(provider speech.Provider) *SpeechHandler {
	return &SpeechHandler{provider: provider}
}

type synthesizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// Transcribe converts an uploaded answer recording to text. The audio
// arrives as a multipart "audio" field.
func (h *SpeechHandler) Transcribe(c *gin.Context) {
	if h.provider == nil {
		response.Error(c, errcode.ErrSpeechUnavailable, "speech not configured")
		return
	}
	file, err := c.FormFile("audio")
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "audio is required")
		return
	}
	if file.Size > maxAudioSize {
		response.Error(c, errcode.ErrInvalidFile, "audio too large")
		return
	}
	opened, err := file.Open()
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "failed to open audio")
		return
	}
	defer opened.Close()
	audio, err := io.ReadAll(io.LimitReader(opened, maxAudioSize))
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "failed to read audio")
		return
	}
	mimeType := file.Header.Get("Content-Type")
	text, err := h.provider.Transcribe(c.Request.Context(), audio, mimeType)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"text": text})
}

// Synthesize turns interviewer text into spoken audio and streams the
// mp3 back directly.
func (h *SpeechHandler) Synthesize(c *gin.Context) {
	if h.provider == nil {
		response.Error(c, errcode.ErrSpeechUnavailable, "speech not configured")
		return
	}
	var req synthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.Text == "" {
		response.Error(c, errcode.ErrInvalid, "text is required")
		return
	}
	audio, err := h.provider.Synthesize(c.Request.Context(), req.Text, req.Voice)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Data(200, "audio/mpeg", audio)
}
