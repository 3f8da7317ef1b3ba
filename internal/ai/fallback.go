package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type GeneratorEntry struct {
	Name      string
	Generator IGenerator
}

type EmbedderEntry struct {
	Name     string
	Embedder IEmbedder
}

// NewFallbackGenerator chains generators in config order: each call
// walks the chain until one succeeds. The last failure is returned when
// every entry fails.
func NewFallbackGenerator(chain []GeneratorEntry) IGenerator {
	if len(chain) == 0 {
		return nil
	}
	return &fallbackGenerator{chain: chain}
}

type fallbackGenerator struct {
	chain []GeneratorEntry
}

func (g *fallbackGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	failed := 0
	for _, entry := range g.chain {
		if entry.Generator == nil {
			continue
		}
		out, err := entry.Generator.Generate(ctx, prompt)
		if err == nil {
			if failed > 0 {
				logutil.GetLogger(ctx).Info("generate recovered via fallback",
					zap.String("model", entry.Name),
					zap.Int("failed_before", failed),
				)
			}
			return out, nil
		}
		failed++
		lastErr = fmt.Errorf("%s: %w", entry.Name, err)
		logutil.GetLogger(ctx).Warn("generate failed, trying next model",
			zap.String("model", entry.Name),
			zap.Error(err),
		)
	}
	if lastErr == nil {
		return "", fmt.Errorf("generator not configured")
	}
	return "", lastErr
}

// NewFallbackEmbedder is the embedding counterpart of
// NewFallbackGenerator.
func NewFallbackEmbedder(chain []EmbedderEntry) IEmbedder {
	if len(chain) == 0 {
		return nil
	}
	return &fallbackEmbedder{chain: chain}
}

type fallbackEmbedder struct {
	chain []EmbedderEntry
}

func (e *fallbackEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	var lastErr error
	failed := 0
	for _, entry := range e.chain {
		if entry.Embedder == nil {
			continue
		}
		out, err := entry.Embedder.Embed(ctx, text, taskType)
		if err == nil {
			if failed > 0 {
				logutil.GetLogger(ctx).Info("embed recovered via fallback",
					zap.String("model", entry.Name),
					zap.Int("failed_before", failed),
				)
			}
			return out, nil
		}
		failed++
		lastErr = fmt.Errorf("%s: %w", entry.Name, err)
		logutil.GetLogger(ctx).Warn("embed failed, trying next model",
			zap.String("model", entry.Name),
			zap.Error(err),
		)
	}
	if lastErr == nil {
		return nil, fmt.Errorf("embedder not configured")
	}
	return nil, lastErr
}

// ModelName joins the chain's model names. Cache keys derived from it
// change whenever the chain composition changes, which is intended:
// embeddings from different chains are not interchangeable.
func (e *fallbackEmbedder) ModelName() string {
	names := make([]string, 0, len(e.chain))
	for _, entry := range e.chain {
		if entry.Name != "" {
			names = append(names, entry.Name)
		}
	}
	return strings.Join(names, "|")
}
