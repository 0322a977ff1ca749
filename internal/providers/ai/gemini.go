package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro:generateContent"

const geminiSystemPrompt = `You are an AI business analyst for ERP
systems. Provide data-driven insights and recommendations for business
process optimization, financial planning, supply chain management, HR
analytics and sales strategies.`

// Gemini calls the generateContent API. The key travels as a query
// parameter, which is how this API authenticates.
type Gemini struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewGemini(apiKey string, client *http.Client) *Gemini {
	return &Gemini{apiKey: apiKey, endpoint: geminiEndpoint, client: client}
}

func (p *Gemini) Name() string { return "gemini" }

func (p *Gemini) Generate(ctx context.Context, prompt string, promptContext map[string]any) (*Result, error) {
	if strings.TrimSpace(p.apiKey) == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(map[string]any{
		"contents": []map[string]any{{
			"parts": []map[string]string{{
				"text": fmt.Sprintf("System: %s\n\nContext: %s\n\nUser: %s", geminiSystemPrompt, encodeContext(promptContext), prompt),
			}},
		}},
		"generationConfig": map[string]any{
			"temperature":     0.7,
			"maxOutputTokens": 1000,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"?key="+p.apiKey, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
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
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, &UpstreamError{Provider: p.Name(), StatusCode: resp.StatusCode}
	}

	return &Result{
		Response: out.Candidates[0].Content.Parts[0].Text,
		Service:  p.Name(),
		Model:    "gemini-pro",
	}, nil
}
