package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wiz-abhi/realprep/internal/filestore"
	"github.com/wiz-abhi/realprep/internal/pkg/ids"
)

// FileHandler serves uploaded files back to the browser. Uploads go
// through the resume endpoints; this only reads.
type FileHandler struct {
	store filestore.Store
}

func NewFileHandler(store filestore.Store) *FileHandler {
	return &FileHandler{store: store}
}

func (h *FileHandler) Get(c *gin.Context) {
	key := c.Param("key")
	if !safeFileKey(key) {
		c.Status(http.StatusBadRequest)
		return
	}
	file, err := h.store.Open(c.Request.Context(), key)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	defer file.Close()
	c.Header("Content-Type", contentTypeForKey(key))
	_, _ = io.Copy(c.Writer, file)
}

// safeFileKey rejects anything that could escape the store's flat
// namespace.
func safeFileKey(key string) bool {
	return key != "" && !strings.ContainsAny(key, `/\`)
}

func contentTypeForKey(key string) string {
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// buildFileKey derives a unique flat storage key that keeps the
// original extension so content-type sniffing works on the way out.
func buildFileKey(userID, filename string) string {
	key := ids.New()
	if userID != "" {
		key = userID + "_" + key
	}
	return key + strings.ToLower(filepath.Ext(filename))
}
