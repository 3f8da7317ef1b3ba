package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/wiz-abhi/realprep/internal/config"
)

// Store keeps the original uploaded resume files. Keys are flat, no
// directory structure.
type Store interface {
	Save(ctx context.Context, key string, r io.ReadSeekCloser, size int64) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

func New(cfg config.FileStoreConfig) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "local":
		return newLocalStore(cfg.Data)
	case "s3":
		return newS3Store(cfg.Data)
	case "":
		return nil, fmt.Errorf("file_store.type is required")
	default:
		return nil, fmt.Errorf("unsupported file store type: %s", cfg.Type)
	}
}

func validKey(key string) bool {
	return key != "" && !strings.ContainsAny(key, `/\`)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("store config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode store config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode store config: %w", err)
	}
	return nil
}
