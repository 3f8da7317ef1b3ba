package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/wiz-abhi/realprep/internal/ai"
	"github.com/wiz-abhi/realprep/internal/config"
	"github.com/wiz-abhi/realprep/internal/db"
	"github.com/wiz-abhi/realprep/internal/embedcache"
	"github.com/wiz-abhi/realprep/internal/emotion"
	"github.com/wiz-abhi/realprep/internal/filestore"
	"github.com/wiz-abhi/realprep/internal/handler"
	"github.com/wiz-abhi/realprep/internal/job"
	"github.com/wiz-abhi/realprep/internal/middleware"
	"github.com/wiz-abhi/realprep/internal/pkg/jwt"
	"github.com/wiz-abhi/realprep/internal/rag"
	"github.com/wiz-abhi/realprep/internal/repo"
	"github.com/wiz-abhi/realprep/internal/schedule"
	"github.com/wiz-abhi/realprep/internal/service"
	"github.com/wiz-abhi/realprep/internal/speech"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "realprep",
		Short: "realprep backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run realprep server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			dbConn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(dbConn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, dbConn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, dbConn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("file_store", cfg.FileStore.Type),
	)

	if cfg.AI.EmbedDim != db.VectorDim {
		return fmt.Errorf("ai.embed_dim is %d, schema stores %d-dim vectors", cfg.AI.EmbedDim, db.VectorDim)
	}

	userRepo := repo.NewUserRepo(dbConn)
	resumeRepo := repo.NewResumeRepo(dbConn)
	resumeChunkRepo := repo.NewResumeChunkRepo(dbConn)
	refDocRepo := repo.NewReferenceDocRepo(dbConn)
	refChunkRepo := repo.NewReferenceChunkRepo(dbConn)
	sessionRepo := repo.NewSessionRepo(dbConn)
	messageRepo := repo.NewMessageRepo(dbConn)
	cacheRepo := repo.NewEmbeddingCacheRepo(dbConn)

	manager, err := buildAIManager(cfg.AI, cfg.RAG.EmbedTimeout, cacheRepo)
	if err != nil {
		return fmt.Errorf("init ai: %w", err)
	}

	ingestor := rag.NewIngestor(manager, resumeChunkRepo, refChunkRepo, rag.IngestorConfig{
		ChunkSize:  cfg.RAG.ChunkSize,
		EmbedLimit: cfg.RAG.EmbedLimit,
		EmbedDim:   cfg.AI.EmbedDim,
	})
	retriever := rag.NewRetriever(manager, resumeChunkRepo, refChunkRepo, cfg.RAG.TopK)

	var emotionClient *emotion.Client
	if cfg.Emotion.Endpoint != "" {
		emotionClient = emotion.NewClient(cfg.Emotion.Endpoint, cfg.Emotion.APIKey, time.Duration(cfg.Emotion.Timeout)*time.Second)
	}

	signer := jwt.NewSigner([]byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTLHours))
	authService := service.NewAuthService(userRepo, signer)
	resumeService := service.NewResumeService(resumeRepo, resumeChunkRepo, ingestor)
	referenceService := service.NewReferenceService(refDocRepo, refChunkRepo, ingestor)
	interviewService := service.NewInterviewService(sessionRepo, messageRepo, resumeRepo, retriever, manager, emotionClient)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	var speechHandler *handler.SpeechHandler
	if cfg.Speech.Provider != "" {
		speechProvider, err := speech.New(cfg.Speech.Provider, cfg.Speech.Data)
		if err != nil {
			return fmt.Errorf("init speech provider: %w", err)
		}
		speechHandler = handler.NewSpeechHandler(speechProvider)
	}

	deps := handler.RouterDeps{
		Auth:       handler.NewAuthHandler(authService),
		Resumes:    handler.NewResumeHandler(resumeService, store),
		References: handler.NewReferenceHandler(referenceService),
		Interviews: handler.NewInterviewHandler(interviewService),
		Speech:     speechHandler,
		Files:      handler.NewFileHandler(store),
		Signer:     signer,
		AIWindow:   2 * time.Second,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSAllow),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cronRunner := schedule.NewCron()
	if err := cronRunner.Register(cfg.Jobs.ResumeResyncSpec, job.NewResumeResyncJob(resumeService, cfg.Jobs.ResyncDelaySecond, cfg.Jobs.ResyncBatchLimit)); err != nil {
		return fmt.Errorf("schedule resume resync: %w", err)
	}
	if err := cronRunner.Register(cfg.Jobs.CacheCleanupSpec, job.NewEmbeddingCacheCleanupJob(cacheRepo, cfg.Jobs.CacheMaxAgeDays)); err != nil {
		return fmt.Errorf("schedule cache cleanup: %w", err)
	}
	cronRunner.Start(ctx)
	defer cronRunner.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}

// buildAIManager assembles the generator and embedder chains: each
// configured provider, combined in config order with fallback, wrapped
// with retry, and for embeddings with the in-memory and DB cache tiers.
func buildAIManager(cfg config.AIConfig, embedTimeout int, cacheRepo *repo.EmbeddingCacheRepo) (*ai.Manager, error) {
	generators := make([]ai.GeneratorEntry, 0, len(cfg.Chat))
	for _, pc := range cfg.Chat {
		provider, err := ai.NewChatProvider(pc.Provider, pc.Data)
		if err != nil {
			return nil, fmt.Errorf("chat provider %s: %w", pc.Provider, err)
		}
		generators = append(generators, ai.GeneratorEntry{
			Name:      pc.Provider + "/" + pc.Model,
			Generator: ai.NewGenerator(provider, pc.Model),
		})
	}
	embedders := make([]ai.EmbedderEntry, 0, len(cfg.Embed))
	for _, pc := range cfg.Embed {
		provider, err := ai.NewEmbedProvider(pc.Provider, pc.Data)
		if err != nil {
			return nil, fmt.Errorf("embed provider %s: %w", pc.Provider, err)
		}
		embedders = append(embedders, ai.EmbedderEntry{
			Name:     pc.Model,
			Embedder: ai.NewEmbedder(provider, pc.Model),
		})
	}

	generator := ai.WrapRetryToGenerator(ai.NewFallbackGenerator(generators), 3, time.Second)
	embedder := ai.WrapRetryToEmbedder(ai.NewFallbackEmbedder(embedders), 3, time.Second)
	embedder = embedcache.Wrap(embedder, cacheRepo, cfg.CacheSize, time.Duration(cfg.CacheTTLMins)*time.Minute)

	return ai.NewManager(generator, embedder, ai.ManagerConfig{
		Timeout:       cfg.Timeout,
		EmbedTimeout:  embedTimeout,
		MaxInputChars: cfg.MaxInputChars,
	}), nil
}
