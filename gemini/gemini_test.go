package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(url string) *Client {
	return &Client{
		apiKey:  "test-key",
		baseURL: url,
		model:   "test-model",
		client:  &http.Client{Timeout: 5 * time.Second},
		logger:  zap.NewNop(),
	}
}

func generationResponse(text string) generateResponse {
	return generateResponse{
		Candidates: []candidate{{Content: content{Parts: []part{{Text: text}}}}},
	}
}

func TestSuggestStripsCodeFences(t *testing.T) {
	fenced := "```json\n[{\"title\":\"Omelette\"}]\n```"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "test-model:generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		prompt := req.Contents[0].Parts[0].Text
		assert.Contains(t, prompt, "Eggs, Milk")
		assert.Contains(t, prompt, "suggest 3 creative and delicious recipes")

		json.NewEncoder(w).Encode(generationResponse(fenced))
	}))
	defer server.Close()

	client := testClient(server.URL)
	text, err := client.Suggest(context.Background(), []string{"Eggs", "Milk"}, false, nil)
	require.NoError(t, err)
	assert.Equal(t, `[{"title":"Omelette"}]`, text)
}

func TestSuggestIncludesDemoNoteAndPreferences(t *testing.T) {
	var prompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		json.NewDecoder(r.Body).Decode(&req)
		prompt = req.Contents[0].Parts[0].Text
		json.NewEncoder(w).Encode(generationResponse("[]"))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Suggest(context.Background(), []string{"Flour"}, true, map[string]any{"diet": "vegan"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "default staples because my pantry is empty")
	assert.Contains(t, prompt, `"diet":"vegan"`)
}

func TestSuggestErrorsOnAPIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Suggest(context.Background(), []string{"Eggs"}, false, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSuggestErrorsOnEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{})
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Suggest(context.Background(), []string{"Eggs"}, false, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestStripFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n[1,2]\n```", "[1,2]"},
		{"```\n[1,2]\n```", "[1,2]"},
		{"  [1,2]  ", "[1,2]"},
		{"no fences here", "no fences here"},
		{"```json```", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StripFences(tc.in), "input %q", tc.in)
	}
}

func TestBuildPromptJoinsIngredients(t *testing.T) {
	prompt := buildPrompt([]string{"Eggs", "Milk", "Flour"}, false, nil)
	assert.Contains(t, prompt, "Eggs, Milk, Flour")
	assert.Contains(t, prompt, "My dietary preferences: None.")
	assert.False(t, strings.Contains(prompt, "default staples"))
}
