package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wiz-abhi/realprep/internal/middleware"
	"github.com/wiz-abhi/realprep/internal/pkg/jwt"
)

type RouterDeps struct {
	Auth       *AuthHandler
	Resumes    *ResumeHandler
	References *ReferenceHandler
	Interviews *InterviewHandler
	Speech     *SpeechHandler
	Files      *FileHandler
	Signer     *jwt.Signer
	// AIWindow rate-limits the AI-backed routes per user and path.
	AIWindow time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)
	api.POST("/auth/logout", deps.Auth.Logout)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.Signer))

	authGroup.POST("/resumes", deps.Resumes.Create)
	authGroup.GET("/resumes", deps.Resumes.List)
	authGroup.GET("/resumes/:id", deps.Resumes.Get)
	authGroup.DELETE("/resumes/:id", deps.Resumes.Delete)

	authGroup.POST("/references", deps.References.Create)
	authGroup.GET("/references", deps.References.List)
	authGroup.GET("/references/:id", deps.References.Get)
	authGroup.PUT("/references/:id", deps.References.Update)
	authGroup.DELETE("/references/:id", deps.References.Delete)

	aiGroup := authGroup.Group("")
	aiGroup.Use(middleware.RateLimit(deps.AIWindow))
	aiGroup.POST("/interviews", deps.Interviews.Start)
	aiGroup.POST("/interviews/:id/turns", deps.Interviews.Turn)
	aiGroup.POST("/interviews/:id/finish", deps.Interviews.Finish)

	authGroup.GET("/interviews", deps.Interviews.List)
	authGroup.GET("/interviews/:id", deps.Interviews.Get)
	authGroup.GET("/interviews/:id/messages", deps.Interviews.Messages)

	if deps.Speech != nil {
		aiGroup.POST("/speech/transcribe", deps.Speech.Transcribe)
		aiGroup.POST("/speech/synthesize", deps.Speech.Synthesize)
	}

	api.GET("/files/:key", deps.Files.Get)
}
