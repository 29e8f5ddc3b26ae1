package perception

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aimemo/internal/config"
	"aimemo/internal/logging"

	"google.golang.org/genai"
)

// =============================================================================
// GOOGLE GENAI CLIENT
// =============================================================================

// GenAIClient implements Generator using Google's Gemini API.
// It is built once per process and is safe to share; nothing on it changes after construction.
type GenAIClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	safety  []*genai.SafetySetting
}

// NewGenAIClient creates a Gemini client from the LLM config section.
func NewGenAIClient(ctx context.Context, cfg config.LLMConfig) (*GenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = config.DefaultConfig().LLM.Model
	}

	threshold := cfg.DangerousContentThreshold
	if threshold == "" {
		threshold = string(genai.HarmBlockThresholdBlockOnlyHigh)
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIClient{
		client:  client,
		model:   model,
		timeout: cfg.GetTimeout(),
		safety: []*genai.SafetySetting{
			{
				Category:  genai.HarmCategoryDangerousContent,
				Threshold: genai.HarmBlockThreshold(threshold),
			},
		},
	}, nil
}

// Model returns the model name requests are sent to.
func (c *GenAIClient) Model() string {
	return c.model
}

// Generate sends prompt as a single user turn and converts the reply.
func (c *GenAIClient) Generate(ctx context.Context, prompt string) (*Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	timer := logging.StartTimer(logging.CategoryAPI, "GenerateContent")
	defer timer.Stop()
	logging.APIDebug("[Gemini] GenerateContent: model=%s prompt_len=%d", c.model, len(prompt))

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SafetySettings: c.safety,
	})
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}

	resp := convertResponse(result)
	if resp.Model == "" {
		resp.Model = c.model
	}
	return resp, nil
}

func convertResponse(result *genai.GenerateContentResponse) *Response {
	resp := &Response{}
	if result == nil {
		return resp
	}
	resp.Model = result.ModelVersion

	if fb := result.PromptFeedback; fb != nil {
		resp.BlockReason = string(fb.BlockReason)
		resp.BlockMessage = fb.BlockReasonMessage
	}

	for i, cand := range result.Candidates {
		if cand == nil {
			continue
		}
		if i == 0 {
			resp.FinishReason = string(cand.FinishReason)
		}
		resp.Candidates = append(resp.Candidates, candidateText(cand))
	}
	return resp
}

// candidateText joins the non-thought text parts of a candidate.
func candidateText(cand *genai.Candidate) string {
	if cand.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}
