package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const openAIEndpoint = "https://api.openai.com/v1/chat/completions"

const openAISystemPrompt = `You are an AI assistant for an ERP system.
Provide insights and recommendations for business operations including
financial analysis, supply chain optimization, HR analytics, sales
insights and inventory management. Be specific, actionable and
data-driven in your responses.`

// OpenAI calls the chat completions API.
type OpenAI struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewOpenAI(apiKey string, client *http.Client) *OpenAI {
	return &OpenAI{apiKey: apiKey, endpoint: openAIEndpoint, client: client}
}

func (p *OpenAI) Name() string { return "openai" }

func (p *OpenAI) Generate(ctx context.Context, prompt string, promptContext map[string]any) (*Result, error) {
	if strings.TrimSpace(p.apiKey) == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(map[string]any{
		"model": "gpt-4",
		"messages": []map[string]string{
			{"role": "system", "content": openAISystemPrompt},
			{"role": "user", "content": fmt.Sprintf("Context: %s\n\nQuestion: %s", encodeContext(promptContext), prompt)},
		},
		"max_tokens":  1000,
		"temperature": 0.7,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Provider: p.Name(), StatusCode: resp.StatusCode}
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Choices) == 0 {
		return nil, &UpstreamError{Provider: p.Name(), StatusCode: resp.StatusCode}
	}

	return &Result{
		Response: out.Choices[0].Message.Content,
		Service:  p.Name(),
		Model:    "gpt-4",
	}, nil
}

func encodeContext(promptContext map[string]any) string {
	if len(promptContext) == 0 {
		return "{}"
	}
	encoded, err := json.Marshal(promptContext)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}
