package handler

import (
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wiz-abhi/realprep/internal/filestore"
	"github.com/wiz-abhi/realprep/internal/pkg/errcode"
	"github.com/wiz-abhi/realprep/internal/pkg/response"
	"github.com/wiz-abhi/realprep/internal/service"
)

// maxResumeSize bounds multipart resume uploads.
const maxResumeSize = 2 << 20

type ResumeHandler struct {
	resumes *service.ResumeService
	store   filestore.Store
}

func NewResumeHandler(resumes *service.ResumeService, store filestore.Store) *ResumeHandler {
	return &ResumeHandler{resumes: resumes, store: store}
}

type resumeCreateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Create accepts either a JSON body with the resume text inline, or a
// multipart form with a plain-text "file" field. Multipart uploads also
// keep the original file in the file store.
func (h *ResumeHandler) Create(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		h.createFromFile(c)
		return
	}
	var req resumeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	resume, err := h.resumes.Create(c.Request.Context(), getUserID(c), service.ResumeCreateInput{
		Title:   strings.TrimSpace(req.Title),
		Content: req.Content,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, resume)
}

func (h *ResumeHandler) createFromFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "file is required")
		return
	}
	if file.Size > maxResumeSize {
		response.Error(c, errcode.ErrInvalidFile, "file too large")
		return
	}
	opened, err := file.Open()
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "failed to open file")
		return
	}
	defer opened.Close()
	content, err := io.ReadAll(io.LimitReader(opened, maxResumeSize))
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "failed to read file")
		return
	}

	userID := getUserID(c)
	fileKey := ""
	if h.store != nil {
		key := buildFileKey(userID, file.Filename)
		if err := h.store.Save(c.Request.Context(), key, opened, file.Size); err != nil {
			response.Error(c, errcode.ErrUploadFailed, "failed to store file")
			return
		}
		fileKey = key
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		title = file.Filename
	}
	resume, err := h.resumes.Create(c.Request.Context(), userID, service.ResumeCreateInput{
		Title:   title,
		Content: string(content),
		FileKey: fileKey,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, resume)
}

func (h *ResumeHandler) Get(c *gin.Context) {
	resume, err := h.resumes.Get(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, resume)
}

func (h *ResumeHandler) List(c *gin.Context) {
	resumes, err := h.resumes.List(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": resumes})
}

func (h *ResumeHandler) Delete(c *gin.Context) {
	if err := h.resumes.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
