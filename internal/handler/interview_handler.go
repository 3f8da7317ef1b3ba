package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wiz-abhi/realprep/internal/pkg/errcode"
	"github.com/wiz-abhi/realprep/internal/pkg/response"
	"github.com/wiz-abhi/realprep/internal/service"
)

type InterviewHandler struct {
	interviews *service.InterviewService
}

func NewInterviewHandler(interviews *service.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviews: interviews}
}

type interviewStartRequest struct {
	ResumeID     string `json:"resume_id"`
	Role         string `json:"role"`
	DurationMins int    `json:"duration_mins"`
}

type interviewTurnRequest struct {
	Answer string `json:"answer"`
	// Frame carries an optional base64-encoded webcam capture for
	// emotion analysis.
	Frame string `json:"frame"`
}

func (h *InterviewHandler) Start(c *gin.Context) {
	var req interviewStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	result, err := h.interviews.Start(c.Request.Context(), getUserID(c), service.SessionStartInput{
		ResumeID:     req.ResumeID,
		Role:         req.Role,
		DurationMins: req.DurationMins,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *InterviewHandler) Turn(c *gin.Context) {
	var req interviewTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	result, err := h.interviews.Turn(c.Request.Context(), getUserID(c), service.TurnInput{
		SessionID: c.Param("id"),
		Answer:    req.Answer,
		Frame:     req.Frame,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *InterviewHandler) Finish(c *gin.Context) {
	session, err := h.interviews.Finish(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, session)
}

func (h *InterviewHandler) Get(c *gin.Context) {
	session, err := h.interviews.Get(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, session)
}

func (h *InterviewHandler) List(c *gin.Context) {
	limit, _ := strconv.ParseUint(c.DefaultQuery("limit", "0"), 10, 32)
	sessions, err := h.interviews.List(c.Request.Context(), getUserID(c), uint(limit))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": sessions})
}

func (h *InterviewHandler) Messages(c *gin.Context) {
	messages, err := h.interviews.Messages(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": messages})
}
