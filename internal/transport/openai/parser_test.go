package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// chatCompletionResponse mirrors the chat completion response shape.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func chatServer(t *testing.T, content string, capture *json.RawMessage) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if capture != nil {
			var body json.RawMessage
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode request: %v", err)
			}
			*capture = body
		}

		var resp chatCompletionResponse
		resp.Choices = append(resp.Choices, struct {
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		}{})
		resp.Choices[0].Message.Role = "assistant"
		resp.Choices[0].Message.Content = content
		resp.Choices[0].FinishReason = "stop"
		resp.Usage.PromptTokens = 100
		resp.Usage.CompletionTokens = 30
		resp.Usage.TotalTokens = 130

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestParser_Parse(t *testing.T) {
	content := `{
		"filters": {
			"min_age": 25, "max_age": 32,
			"min_height": null, "max_height": null,
			"min_income": null, "max_income": null,
			"genders": ["female"], "religions": null,
			"locations": ["IN_DEL"], "marital_statuses": null,
			"family_types": null, "food_habits": null,
			"smoking": null, "drinking": null,
			"religiosity": null, "fitness": null, "intent": null
		},
		"education_query": "IIT graduate",
		"profession_query": "",
		"vibe_report_query": "travel photography"
	}`

	var sent json.RawMessage
	server := chatServer(t, content, &sent)
	defer server.Close()

	parser := NewParser(&ParserConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	parsed, err := parser.Parse(context.Background(), "IIT graduate girl from Delhi, 25-32, loves travel")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if parsed.OriginalQuery != "IIT graduate girl from Delhi, 25-32, loves travel" {
		t.Errorf("unexpected original query: %q", parsed.OriginalQuery)
	}
	if parsed.EducationQuery != "IIT graduate" {
		t.Errorf("education_query = %q, expected 'IIT graduate'", parsed.EducationQuery)
	}
	if parsed.VibeReportQuery != "travel photography" {
		t.Errorf("vibe_report_query = %q", parsed.VibeReportQuery)
	}

	// Null filter values must be stripped, non-null kept.
	if len(parsed.Filters) != 4 {
		t.Fatalf("expected 4 surviving filters, got %d: %v", len(parsed.Filters), parsed.Filters)
	}
	for _, key := range []string{"min_age", "max_age", "genders", "locations"} {
		if _, ok := parsed.Filters[key]; !ok {
			t.Errorf("filter %q missing from parsed result", key)
		}
	}

	// Request must pin the strict JSON schema response format.
	var req struct {
		Model          string `json:"model"`
		ResponseFormat struct {
			Type       string `json:"type"`
			JSONSchema struct {
				Name   string `json:"name"`
				Strict bool   `json:"strict"`
			} `json:"json_schema"`
		} `json:"response_format"`
	}
	if err := json.Unmarshal(sent, &req); err != nil {
		t.Fatalf("decode captured request: %v", err)
	}
	if req.ResponseFormat.Type != "json_schema" {
		t.Errorf("response_format.type = %q, expected json_schema", req.ResponseFormat.Type)
	}
	if req.ResponseFormat.JSONSchema.Name != "parsed_query" {
		t.Errorf("schema name = %q, expected parsed_query", req.ResponseFormat.JSONSchema.Name)
	}
	if !req.ResponseFormat.JSONSchema.Strict {
		t.Error("schema strict flag not set")
	}
}

func TestParser_ParseBlankQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("API should not be called for blank query")
	}))
	defer server.Close()

	parser := NewParser(&ParserConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	parsed, err := parser.Parse(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(parsed.Filters) != 0 {
		t.Errorf("expected empty filters, got %v", parsed.Filters)
	}
	if parsed.HasSemanticQuery() {
		t.Error("expected no semantic queries for blank input")
	}
}

func TestParser_ParseBadJSON(t *testing.T) {
	server := chatServer(t, `{"filters": not json`, nil)
	defer server.Close()

	parser := NewParser(&ParserConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	_, err := parser.Parse(context.Background(), "some query")
	if err == nil {
		t.Fatal("expected error for malformed model output")
	}
}
