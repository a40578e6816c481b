package extraction

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestNewDocumentExtractor(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "default is heuristic",
			cfg:  DefaultConfig(),
		},
		{
			name: "explicit heuristic",
			cfg:  Config{Provider: "heuristic", MaxSectionChars: DefaultMaxSectionChars},
		},
		{
			name: "disabled",
			cfg:  Config{Provider: "disabled"},
		},
		{
			name: "anthropic with config",
			cfg: Config{
				Provider: "anthropic",
				Providers: map[string]ProviderConfig{
					"anthropic": {APIKey: "sk-ant-test"},
				},
			},
		},
		{
			name:    "anthropic without config",
			cfg:     Config{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name: "openai with config",
			cfg: Config{
				Provider: "openai",
				Providers: map[string]ProviderConfig{
					"openai": {APIKey: "sk-test"},
				},
			},
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "gemini"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor, err := NewDocumentExtractor(tt.cfg, zap.NewNop())
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewDocumentExtractor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && extractor == nil {
				t.Error("NewDocumentExtractor() returned nil extractor")
			}
		})
	}
}

func TestNoOpExtractor(t *testing.T) {
	extractor := &NoOpExtractor{}
	result, err := extractor.Extract(context.Background(), "10-K", "DEF 14A")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(result.Subsidiaries) != 0 || len(result.Directors) != 0 || len(result.Owners) != 0 {
		t.Errorf("Extract() = %+v, want empty result", result)
	}
	if result.Subsidiaries == nil || result.Directors == nil || result.Owners == nil {
		t.Error("Extract() returned nil slices")
	}
}
