package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"pixa-backend/internal/config"
	"time"
)

type GeminiClient interface {
	GenerateImage(ctx context.Context, req *GenerateImageRequest) (*GenerateImageResponse, error)
}

type geminiClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	apiKey     string
	model      string
}

type GenerateImageRequest struct {
	Prompt string
	// Optional source image for edit-style features, base64-encoded.
	ImageData string
	MimeType  string
}

type GenerateImageResponse struct {
	// Base64-encoded generated image.
	ImageData string
	MimeType  string
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerateResult struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func NewGeminiClient(geminiCfg *config.Gemini) GeminiClient {
	return &geminiClientImpl{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseApiURL: geminiCfg.BaseApiURL,
		apiKey:     geminiCfg.APIKey,
		model:      geminiCfg.Model,
	}
}

func (c *geminiClientImpl) GenerateImage(ctx context.Context, genReq *GenerateImageRequest) (*GenerateImageResponse, error) {
	parts := []geminiPart{{Text: genReq.Prompt}}
	if genReq.ImageData != "" {
		parts = append(parts, geminiPart{
			InlineData: &geminiInlineData{
				MimeType: genReq.MimeType,
				Data:     genReq.ImageData,
			},
		})
	}

	payload := map[string]interface{}{
		"contents": []geminiContent{{Parts: parts}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseApiURL, c.model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gemini error %d: %s", resp.StatusCode, string(b))
	}

	var result geminiGenerateResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}

	for _, cand := range result.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return &GenerateImageResponse{
					ImageData: part.InlineData.Data,
					MimeType:  part.InlineData.MimeType,
				}, nil
			}
		}
	}

	return nil, fmt.Errorf("gemini response contained no image")
}
