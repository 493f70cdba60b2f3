package triage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-1.5-flash"
	defaultLLMTimeout    = 120 * time.Second
)

// RateLimitError marks a quota-exhausted response from the generative
// service. It is the only failure the summarizer retries; everything else
// is treated as non-transient.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("Gemini API rate limit exceeded: %s", e.Message)
}

// GeminiClient handles communication with the Gemini generateContent API.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// GeminiOption allows configuring the client
type GeminiOption func(*GeminiClient)

// WithGeminiHTTPClient sets a custom HTTP client
func WithGeminiHTTPClient(client *http.Client) GeminiOption {
	return func(c *GeminiClient) {
		c.httpClient = client
	}
}

// WithGeminiModel sets a custom model
func WithGeminiModel(model string) GeminiOption {
	return func(c *GeminiClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithGeminiBaseURL sets a custom base URL (for testing)
func WithGeminiBaseURL(url string) GeminiOption {
	return func(c *GeminiClient) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// NewGeminiClient creates a new Gemini API client. The key falls back to
// the GEMINI_API_KEY environment variable when the argument is empty.
func NewGeminiClient(apiKey string, opts ...GeminiOption) (*GeminiClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client := &GeminiClient{
		apiKey:     apiKey,
		model:      defaultGeminiModel,
		baseURL:    defaultGeminiBaseURL,
		httpClient: &http.Client{Timeout: defaultLLMTimeout},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Model returns the model identifier this client calls.
func (c *GeminiClient) Model() string { return c.model }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type generateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Generate sends the prompt to Gemini and returns the response text.
// Quota exhaustion (HTTP 429 or a RESOURCE_EXHAUSTED status in the error
// body) comes back as *RateLimitError so callers can branch on it.
func (c *GeminiClient) Generate(prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := parseAPIError(respBody)
		if resp.StatusCode == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED" {
			return "", &RateLimitError{Message: apiErr.Message}
		}
		return "", fmt.Errorf("Gemini API error (status %d): %s", resp.StatusCode, apiErr.Message)
	}

	var gr generateResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		preview := string(respBody)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		return "", fmt.Errorf("unexpected response (not JSON): %s", preview)
	}
	if gr.Error != nil {
		if gr.Error.Status == "RESOURCE_EXHAUSTED" {
			return "", &RateLimitError{Message: gr.Error.Message}
		}
		return "", fmt.Errorf("Gemini API error: %s", gr.Error.Message)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var text strings.Builder
	for _, part := range gr.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return text.String(), nil
}

// parseAPIError extracts the structured error from a non-200 body, falling
// back to the raw body as the message.
func parseAPIError(body []byte) apiError {
	var parsed struct {
		Error apiError `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
		return parsed.Error
	}
	return apiError{Message: string(body)}
}
