package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultOpenAIURL = "https://api.openai.com"

// OpenAIClient calls the OpenAI image generation endpoint.
type OpenAIClient struct {
	APIKey  string
	Model   string
	Size    string
	BaseURL string
	client  *http.Client
}

func NewOpenAIClient(apiKey, model string, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{
		APIKey:  apiKey,
		Model:   model,
		Size:    "1024x1024",
		BaseURL: defaultOpenAIURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type openAIImageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type openAIImageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *OpenAIClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	payload, err := json.Marshal(openAIImageRequest{
		Model:          c.Model,
		Prompt:         prompt,
		N:              1,
		Size:           c.Size,
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/v1/images/generations"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, wrapTransport("openai", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapTransport("openai", err)
	}

	var out openAIImageResponse
	if err := json.Unmarshal(body, &out); err != nil && resp.StatusCode == http.StatusOK {
		return nil, fmt.Errorf("failed to parse openai response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return nil, fmt.Errorf("openai API returned status %d: %s", resp.StatusCode, msg)
	}

	if len(out.Data) == 0 || out.Data[0].B64JSON == "" {
		return nil, errors.New("openai returned no image")
	}
	img, err := base64.StdEncoding.DecodeString(out.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode generated image: %w", err)
	}
	return img, nil
}
