package extraction

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// NewDocumentExtractor creates a document extractor based on
// configuration. The heuristic pipeline is the default; "anthropic" and
// "openai" select the LLM alternative, "disabled" returns a no-op.
func NewDocumentExtractor(cfg Config, logger *zap.Logger) (DocumentExtractor, error) {
	switch cfg.Provider {
	case "", "heuristic":
		return NewPipeline(cfg, logger)
	case "disabled":
		return &NoOpExtractor{}, nil
	case "anthropic", "openai":
		providerCfg, ok := cfg.Providers[cfg.Provider]
		if !ok {
			return nil, fmt.Errorf("provider %q not configured", cfg.Provider)
		}
		if cfg.Provider == "anthropic" {
			return newAnthropicExtractor(providerCfg)
		}
		return newOpenAIExtractor(providerCfg)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// NoOpExtractor is a no-op implementation of DocumentExtractor.
type NoOpExtractor struct{}

// Extract returns an empty result.
func (n *NoOpExtractor) Extract(ctx context.Context, filing10K, filingDEF14A string) (Result, error) {
	return EmptyResult(), nil
}

// Ensure NoOpExtractor implements DocumentExtractor.
var _ DocumentExtractor = (*NoOpExtractor)(nil)
