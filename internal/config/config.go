package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port        int              `json:"port"`
	JWTSecret   string           `json:"jwt_secret"`
	JWTTTLHours int              `json:"jwt_ttl_hours"`
	LogConfig   logger.LogConfig `json:"log_config"`
	Database    DatabaseConfig   `json:"database"`
	AI          AIConfig         `json:"ai"`
	Speech      SpeechConfig     `json:"speech"`
	Emotion     EmotionConfig    `json:"emotion"`
	RAG         RAGConfig        `json:"rag"`
	FileStore   FileStoreConfig  `json:"file_store"`
	Jobs        JobsConfig       `json:"jobs"`
	CORSAllow   []string         `json:"cors_allow"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type AIProviderConfig struct {
	Provider string      `json:"provider"`
	Model    string      `json:"model"`
	Data     interface{} `json:"data"`
}

type AIConfig struct {
	Chat          []AIProviderConfig `json:"chat"`
	Embed         []AIProviderConfig `json:"embed"`
	EmbedDim      int                `json:"embed_dim"`
	Timeout       int                `json:"timeout"`
	MaxInputChars int                `json:"max_input_chars"`
	CacheSize     int                `json:"cache_size"`
	CacheTTLMins  int                `json:"cache_ttl_mins"`
}

type SpeechConfig struct {
	Provider string      `json:"provider"`
	Data     interface{} `json:"data"`
}

type EmotionConfig struct {
	Endpoint string `json:"endpoint"`
	APIKey   string `json:"api_key"`
	Timeout  int    `json:"timeout"`
}

type RAGConfig struct {
	ChunkSize    int `json:"chunk_size"`
	TopK         int `json:"top_k"`
	EmbedLimit   int `json:"embed_limit"`
	EmbedTimeout int `json:"embed_timeout"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type JobsConfig struct {
	ResumeResyncSpec  string `json:"resume_resync_spec"`
	CacheCleanupSpec  string `json:"cache_cleanup_spec"`
	CacheMaxAgeDays   int    `json:"cache_max_age_days"`
	ResyncBatchLimit  int    `json:"resync_batch_limit"`
	ResyncDelaySecond int64  `json:"resync_delay_second"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 72
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if len(cfg.AI.Chat) == 0 {
		return nil, fmt.Errorf("ai.chat provider is required")
	}
	if len(cfg.AI.Embed) == 0 {
		return nil, fmt.Errorf("ai.embed provider is required")
	}
	if cfg.AI.EmbedDim == 0 {
		cfg.AI.EmbedDim = 768
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 60
	}
	if cfg.AI.MaxInputChars == 0 {
		cfg.AI.MaxInputChars = 100000
	}
	if cfg.AI.CacheSize == 0 {
		cfg.AI.CacheSize = 10000
	}
	if cfg.AI.CacheTTLMins == 0 {
		cfg.AI.CacheTTLMins = 120
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = 500
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = 4
	}
	if cfg.RAG.EmbedLimit == 0 {
		cfg.RAG.EmbedLimit = 4
	}
	if cfg.RAG.EmbedTimeout == 0 {
		cfg.RAG.EmbedTimeout = 30
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
		cfg.FileStore.Data = map[string]interface{}{"dir": "./data/files"}
	}
	if cfg.Jobs.ResumeResyncSpec == "" {
		cfg.Jobs.ResumeResyncSpec = "*/5 * * * *"
	}
	if cfg.Jobs.CacheCleanupSpec == "" {
		cfg.Jobs.CacheCleanupSpec = "30 4 * * *"
	}
	if cfg.Jobs.CacheMaxAgeDays == 0 {
		cfg.Jobs.CacheMaxAgeDays = 30
	}
	if cfg.Jobs.ResyncBatchLimit == 0 {
		cfg.Jobs.ResyncBatchLimit = 16
	}
	if cfg.Jobs.ResyncDelaySecond == 0 {
		cfg.Jobs.ResyncDelaySecond = 60
	}
	return &cfg, nil
}
