package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wiz-abhi/realprep/internal/pkg/errcode"
	"github.com/wiz-abhi/realprep/internal/pkg/response"
	"github.com/wiz-abhi/realprep/internal/service"
)

// ReferenceHandler manages the shared reference documents (job
// descriptions and sample question banks) that ground interview
// questions. Reads require auth; writes are expected to come from an
// operator account.
type ReferenceHandler struct {
	refs *service.ReferenceService
}

func NewReferenceHandler(refs *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{refs: refs}
}

type referenceCreateRequest struct {
	Title   string `json:"title"`
	DocType string `json:"doc_type"`
	Content string `json:"content"`
}

type referenceUpdateRequest struct {
	DocType string `json:"doc_type"`
	Content string `json:"content"`
}

func (h *ReferenceHandler) Create(c *gin.Context) {
	var req referenceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	doc, err := h.refs.Create(c.Request.Context(), service.ReferenceCreateInput{
		Title:   strings.TrimSpace(req.Title),
		DocType: req.DocType,
		Content: req.Content,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, doc)
}

func (h *ReferenceHandler) Update(c *gin.Context) {
	var req referenceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	doc, err := h.refs.Update(c.Request.Context(), c.Param("id"), req.DocType, req.Content)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, doc)
}

func (h *ReferenceHandler) Get(c *gin.Context) {
	doc, err := h.refs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, doc)
}

func (h *ReferenceHandler) List(c *gin.Context) {
	docs, err := h.refs.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": docs})
}

func (h *ReferenceHandler) Delete(c *gin.Context) {
	if err := h.refs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
