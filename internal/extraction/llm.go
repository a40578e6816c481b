package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Default configuration values.
const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	defaultAnthropicModel   = "claude-3-5-sonnet-20241022"
	defaultOpenAIBaseURL    = "https://api.openai.com"
	defaultOpenAIModel      = "gpt-4o-mini"
	defaultMaxTokens        = 2048
	defaultTimeout          = 60 * time.Second
	defaultMaxRetries       = 3
	defaultBaseBackoff      = 1 * time.Second

	// Filing text sent to the API is truncated to this many characters
	// per document to keep prompts within context limits.
	maxPromptDocChars = 12000
)

// Rate limiter defaults: 50 requests per minute for both APIs.
const (
	defaultRateLimit = 50.0 / 60.0 // ~0.83 requests per second
	defaultBurst     = 5           // Allow bursts of up to 5 requests
)

// extractPrompt is the system prompt for LLM-based entity extraction.
const extractPrompt = `You are an expert at reading SEC filings (10-K exhibits and DEF 14A proxy statements).

Extract corporate-entity data from the two documents provided. Respond with a JSON object containing exactly these fields:
- "subsidiaries": array of {"name": string, "jurisdiction": string} from the Exhibit 21 subsidiary schedule
- "directors": array of {"name": string, "role": string} for directors and executive officers
- "owners": array of {"name": string, "ownership": number} where ownership is the percentage of shares held

Use empty arrays for sections with no data. Do not invent entities. Respond ONLY with the JSON object, no additional text.`

// anthropicExtractor implements DocumentExtractor using Anthropic's Claude API.
type anthropicExtractor struct {
	model      string
	apiKey     string `json:"-"` // Never serialize API keys
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	maxTokens  int
}

// newAnthropicExtractor creates a new Anthropic document extractor.
func newAnthropicExtractor(cfg ProviderConfig) (DocumentExtractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}

	timeout := defaultTimeout
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	return &anthropicExtractor{
		model:   model,
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter:    rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
		maxRetries: defaultMaxRetries,
		maxTokens:  maxTokens,
	}, nil
}

// anthropicRequest represents the request format for Claude API.
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
}

// anthropicMessage represents a message in the Claude conversation.
type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse represents the response from Claude API.
type anthropicResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
}

// anthropicError represents an error response from Claude API.
type anthropicError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Extract pulls entity records from both filings using Claude.
func (a *anthropicExtractor) Extract(ctx context.Context, filing10K, filingDEF14A string) (Result, error) {
	// Wait for rate limiter
	if err := a.limiter.Wait(ctx); err != nil {
		return EmptyResult(), fmt.Errorf("rate limiter error: %w", err)
	}

	req := anthropicRequest{
		Model:       a.model,
		MaxTokens:   a.maxTokens,
		Temperature: 0.1, // Low temperature for consistent extraction
		System:      extractPrompt,
		Messages: []anthropicMessage{
			{
				Role:    "user",
				Content: buildExtractionInput(filing10K, filingDEF14A),
			},
		},
	}

	// Make request with retries
	var lastErr error
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff
			backoff := defaultBaseBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return EmptyResult(), ctx.Err()
			}
		}

		result, err := a.doRequest(ctx, req)
		if err == nil {
			return result, nil
		}

		lastErr = err
		// Check if error is retryable
		if !isRetryableError(err) {
			return EmptyResult(), err
		}
	}

	return EmptyResult(), fmt.Errorf("max retries exceeded: %w", lastErr)
}

// doRequest performs the actual HTTP request to the Claude API.
func (a *anthropicExtractor) doRequest(ctx context.Context, req anthropicRequest) (Result, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return EmptyResult(), fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/v1/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return EmptyResult(), fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", a.apiKey)
	httpReq.Header.Set("Anthropic-Version", "2023-06-01")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return EmptyResult(), &retryableError{err: fmt.Errorf("API request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return EmptyResult(), fmt.Errorf("failed to read response: %w", err)
	}

	// Handle rate limiting
	if resp.StatusCode == http.StatusTooManyRequests {
		return EmptyResult(), &retryableError{err: fmt.Errorf("rate limited (429)")}
	}

	// Handle server errors (retryable)
	if resp.StatusCode >= 500 {
		return EmptyResult(), &retryableError{err: fmt.Errorf("server error (%d): %s", resp.StatusCode, string(body))}
	}

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicError
		if err := json.Unmarshal(body, &errResp); err == nil {
			return EmptyResult(), fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return EmptyResult(), fmt.Errorf("API error (%d): %s", resp.StatusCode, string(body))
	}

	var claudeResp anthropicResponse
	if err := json.Unmarshal(body, &claudeResp); err != nil {
		return EmptyResult(), fmt.Errorf("failed to parse response: %w", err)
	}

	if len(claudeResp.Content) == 0 {
		return EmptyResult(), fmt.Errorf("empty response from API")
	}

	return parseResultJSON(claudeResp.Content[0].Text)
}

// openAIExtractor implements DocumentExtractor using OpenAI's API.
type openAIExtractor struct {
	model      string
	apiKey     string `json:"-"` // Never serialize API keys
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	maxTokens  int
}

// newOpenAIExtractor creates a new OpenAI document extractor.
func newOpenAIExtractor(cfg ProviderConfig) (DocumentExtractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	timeout := defaultTimeout
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	return &openAIExtractor{
		model:   model,
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter:    rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
		maxRetries: defaultMaxRetries,
		maxTokens:  maxTokens,
	}, nil
}

// openAIRequest represents the request format for OpenAI Chat API.
type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature"`
}

// openAIMessage represents a message in the OpenAI conversation.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIResponse represents the response from OpenAI Chat API.
type openAIResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// openAIError represents an error response from OpenAI API.
type openAIError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Param   string `json:"param"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Extract pulls entity records from both filings using GPT.
func (o *openAIExtractor) Extract(ctx context.Context, filing10K, filingDEF14A string) (Result, error) {
	// Wait for rate limiter
	if err := o.limiter.Wait(ctx); err != nil {
		return EmptyResult(), fmt.Errorf("rate limiter error: %w", err)
	}

	req := openAIRequest{
		Model:       o.model,
		MaxTokens:   o.maxTokens,
		Temperature: 0.1, // Low temperature for consistent extraction
		Messages: []openAIMessage{
			{
				Role:    "system",
				Content: extractPrompt,
			},
			{
				Role:    "user",
				Content: buildExtractionInput(filing10K, filingDEF14A),
			},
		},
	}

	// Make request with retries
	var lastErr error
	for attempt := 0; attempt <= o.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff
			backoff := defaultBaseBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return EmptyResult(), ctx.Err()
			}
		}

		result, err := o.doRequest(ctx, req)
		if err == nil {
			return result, nil
		}

		lastErr = err
		// Check if error is retryable
		if !isRetryableError(err) {
			return EmptyResult(), err
		}
	}

	return EmptyResult(), fmt.Errorf("max retries exceeded: %w", lastErr)
}

// doRequest performs the actual HTTP request to the OpenAI API.
func (o *openAIExtractor) doRequest(ctx context.Context, req openAIRequest) (Result, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return EmptyResult(), fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return EmptyResult(), fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return EmptyResult(), &retryableError{err: fmt.Errorf("API request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return EmptyResult(), fmt.Errorf("failed to read response: %w", err)
	}

	// Handle rate limiting
	if resp.StatusCode == http.StatusTooManyRequests {
		return EmptyResult(), &retryableError{err: fmt.Errorf("rate limited (429)")}
	}

	// Handle server errors (retryable)
	if resp.StatusCode >= 500 {
		return EmptyResult(), &retryableError{err: fmt.Errorf("server error (%d): %s", resp.StatusCode, string(body))}
	}

	if resp.StatusCode != http.StatusOK {
		var errResp openAIError
		if err := json.Unmarshal(body, &errResp); err == nil {
			return EmptyResult(), fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return EmptyResult(), fmt.Errorf("API error (%d): %s", resp.StatusCode, string(body))
	}

	var openAIResp openAIResponse
	if err := json.Unmarshal(body, &openAIResp); err != nil {
		return EmptyResult(), fmt.Errorf("failed to parse response: %w", err)
	}

	if len(openAIResp.Choices) == 0 {
		return EmptyResult(), fmt.Errorf("empty response from API")
	}

	return parseResultJSON(openAIResp.Choices[0].Message.Content)
}

// buildExtractionInput assembles the user message from the two filing
// texts, truncating each to keep the prompt within context limits.
func buildExtractionInput(filing10K, filingDEF14A string) string {
	return fmt.Sprintf("10-K document:\n%s\n\nDEF 14A document:\n%s",
		truncate(filing10K, maxPromptDocChars),
		truncate(filingDEF14A, maxPromptDocChars))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// parseResultJSON parses the LLM response into a Result, normalizing
// record types and applying the same noise filters as the heuristic
// extractors.
func parseResultJSON(content string) (Result, error) {
	// Clean up the response - sometimes LLMs wrap JSON in markdown code blocks
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var raw Result
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return EmptyResult(), fmt.Errorf("failed to parse extraction JSON: %w", err)
	}

	result := EmptyResult()
	seenSubs := make(map[string]struct{})
	for _, s := range raw.Subsidiaries {
		name := normalizeName(s.Name)
		if len(name) <= 2 {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seenSubs[key]; dup {
			continue
		}
		seenSubs[key] = struct{}{}
		result.Subsidiaries = append(result.Subsidiaries, Subsidiary{
			Name:         name,
			Jurisdiction: strings.TrimSpace(s.Jurisdiction),
			Type:         TypeSubsidiary,
		})
	}

	seenDirs := make(map[string]struct{})
	for _, d := range raw.Directors {
		name := normalizeName(d.Name)
		if len(strings.Fields(name)) < 2 {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seenDirs[key]; dup {
			continue
		}
		seenDirs[key] = struct{}{}
		result.Directors = append(result.Directors, Director{
			Name: name,
			Role: strings.TrimSpace(d.Role),
			Type: TypeDirector,
		})
	}

	seenOwners := make(map[string]struct{})
	for _, o := range raw.Owners {
		name := strings.TrimRight(normalizeName(o.Name), ".,")
		if len(name) <= 3 {
			continue
		}
		if o.Ownership <= minOwnershipPct || o.Ownership >= maxOwnershipPct {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seenOwners[key]; dup {
			continue
		}
		seenOwners[key] = struct{}{}
		result.Owners = append(result.Owners, BeneficialOwner{
			Name:      name,
			Ownership: o.Ownership,
			Type:      TypeOwner,
		})
	}

	return result, nil
}

// retryableError wraps an error to indicate it can be retried.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return e.err.Error()
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// isRetryableError checks if an error should be retried.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	// Check if it's a retryableError type
	if _, isRetryable := err.(*retryableError); isRetryable {
		return true
	}
	// Also check unwrapped error
	for e := err; e != nil; {
		if _, ok := e.(*retryableError); ok {
			return true
		}
		if unwrapper, ok := e.(interface{ Unwrap() error }); ok {
			e = unwrapper.Unwrap()
		} else {
			break
		}
	}
	return false
}

// Ensure interfaces are implemented.
var _ DocumentExtractor = (*anthropicExtractor)(nil)
var _ DocumentExtractor = (*openAIExtractor)(nil)
