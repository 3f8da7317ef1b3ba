package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/wiz-abhi/realprep/internal/ai"
	"github.com/wiz-abhi/realprep/internal/middleware"
	"github.com/wiz-abhi/realprep/internal/pkg/errcode"
	appErr "github.com/wiz-abhi/realprep/internal/pkg/errors"
	"github.com/wiz-abhi/realprep/internal/pkg/response"
	"github.com/wiz-abhi/realprep/internal/speech"
)

func getUserID(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextUserIDKey)
	userID, _ := value.(string)
	return userID
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("user_id", getUserID(c)),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, errcode.ErrUnauthorized, "unauthorized")
	case errors.Is(err, appErr.ErrForbidden):
		response.Error(c, errcode.ErrForbidden, "forbidden")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, appErr.ErrConflict):
		response.Error(c, errcode.ErrConflict, "conflict")
	case errors.Is(err, appErr.ErrSessionEnded):
		response.Error(c, errcode.ErrSessionEnded, "session already ended")
	case errors.Is(err, ai.ErrUnavailable), errors.Is(err, ai.ErrRateLimited):
		response.Error(c, errcode.ErrAIUnavailable, "ai service unavailable")
	case errors.Is(err, speech.ErrUnavailable):
		response.Error(c, errcode.ErrSpeechUnavailable, "speech service unavailable")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
