// Package gemini wraps the Gemini generateContent REST API for recipe
// suggestions. The client returns the cleaned text payload; decoding it
// into suggestion structs is the caller's job, so transport and parse
// failures can be handled in one place.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}

func NewClient(apiKey string, logger *zap.Logger) *Client {
	baseURL := os.Getenv("GEMINI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}
	timeout := 30 * time.Second
	if timeoutStr := os.Getenv("GEMINI_TIMEOUT"); timeoutStr != "" {
		if parsed, err := time.ParseDuration(timeoutStr); err == nil {
			timeout = parsed
		}
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("gemini"),
	}
}

// Suggest asks the model for exactly 3 recipes based on the pantry
// contents and returns the raw JSON text with any markdown code fences
// stripped.
func (c *Client) Suggest(ctx context.Context, ingredients []string, demoMode bool, preferences map[string]any) (string, error) {
	raw, err := c.prompt(ctx, buildPrompt(ingredients, demoMode, preferences))
	if err != nil {
		return "", err
	}
	return StripFences(raw), nil
}

func buildPrompt(ingredients []string, demoMode bool, preferences map[string]any) string {
	demoNote := ""
	if demoMode {
		demoNote = "(Note: These are default staples because my pantry is empty)"
	}
	prefs := "None"
	if len(preferences) > 0 {
		if encoded, err := json.Marshal(preferences); err == nil {
			prefs = string(encoded)
		}
	}

	return fmt.Sprintf(`Act as a professional AI Chef.
I have these ingredients in my pantry: %s.
%s
My dietary preferences: %s.

Based on this, suggest 3 creative and delicious recipes I can make.
Detailed format required.

Return ONLY a valid JSON array of objects with this structure:
[
  {
    "title": "Recipe Title",
    "description": "Short appetizing description",
    "matchType": "Exact" or "Partial",
    "ingredients": [
        { "name": "Ingredient Name", "quantity": "Quantity (e.g. 2 cups)" }
    ],
    "steps": [
        "Step 1 instruction...",
        "Step 2 instruction..."
    ],
    "nutrition": { "calories": 500, "protein": 20, "carbs": 50 },
    "cookTime": "30 mins"
  }
]
Do not include markdown formatting like `+"```json"+`. Just the raw JSON.`,
		strings.Join(ingredients, ", "), demoNote, prefs)
}

func (c *Client) prompt(ctx context.Context, text string) (string, error) {
	requestBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: text}}}},
	}
	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling generation API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("generation API error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return "", fmt.Errorf("generation API status %d", resp.StatusCode)
	}

	var response generateResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	return response.Candidates[0].Content.Parts[0].Text, nil
}

// StripFences removes markdown code-fence wrapping that the model adds
// despite being told not to.
func StripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
