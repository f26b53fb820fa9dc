package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"schema-ai-service/internal/config"
	"schema-ai-service/internal/domain"
	"schema-ai-service/internal/domain/model"

	"github.com/rs/zerolog"
)

func testAIConfig(base string) config.AIConfig {
	return config.AIConfig{
		OpenAIKey:    "sk-test",
		OpenAIURL:    base,
		DefaultModel: "gpt-4o-mini",
		Timeout:      5 * time.Second,
		MaxTokens:    7500,
		MaxChars:     30000,
	}
}

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	err := json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func testContentRecord() *model.Content {
	return &model.Content{
		ID:          1,
		Kind:        model.ContentKindPost,
		Title:       "Park Hyatt review",
		Body:        "<p>A stay at the Park Hyatt.</p>",
		PublishedAt: time.Now(),
		ModifiedAt:  time.Now(),
	}
}

func TestOpenAIClassifierStrictSuccess(t *testing.T) {
	var formats []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("auth header: %q", got)
		}
		var payload struct {
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatal(err)
		}
		formats = append(formats, payload.ResponseFormat.Type)
		chatReply(t, w, `{"type": "Review", "justification": "j", "summary": "s", "details": {"reviewed_type": "Hotel"}}`)
	}))
	defer srv.Close()

	logger := zerolog.Nop()
	c, err := NewOpenAIClassifier(testAIConfig(srv.URL), &logger)
	if err != nil {
		t.Fatal(err)
	}

	cls, err := c.Analyze(context.Background(), testContentRecord(), "", "")
	if err != nil {
		t.Fatal(err)
	}
	if cls.Type != model.TypeReview || cls.Details.ReviewedType != model.ReviewedHotel {
		t.Fatalf("classification: %+v", cls)
	}
	if len(formats) != 1 || formats[0] != "json_schema" {
		t.Fatalf("expected one strict call, got %v", formats)
	}
}

func TestOpenAIClassifierRelaxedFallback(t *testing.T) {
	var formats []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatal(err)
		}
		formats = append(formats, payload.ResponseFormat.Type)
		if payload.ResponseFormat.Type == "json_schema" {
			http.Error(w, "response_format not supported", http.StatusBadRequest)
			return
		}
		chatReply(t, w, `{"type": "BlogPosting", "justification": "j", "summary": "s"}`)
	}))
	defer srv.Close()

	logger := zerolog.Nop()
	c, err := NewOpenAIClassifier(testAIConfig(srv.URL), &logger)
	if err != nil {
		t.Fatal(err)
	}

	cls, err := c.Analyze(context.Background(), testContentRecord(), "", "")
	if err != nil {
		t.Fatal(err)
	}
	if cls.Type != model.TypeBlogPosting {
		t.Fatalf("classification: %+v", cls)
	}
	if len(formats) != 2 || formats[0] != "json_schema" || formats[1] != "json_object" {
		t.Fatalf("expected strict then relaxed, got %v", formats)
	}
}

func TestOpenAIClassifierBothModesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	logger := zerolog.Nop()
	c, err := NewOpenAIClassifier(testAIConfig(srv.URL), &logger)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Analyze(context.Background(), testContentRecord(), "", ""); err == nil {
		t.Fatal("expected error when both modes fail")
	}
}

func TestNewOpenAIClassifierRequiresKey(t *testing.T) {
	logger := zerolog.Nop()
	cfg := testAIConfig("http://unused")
	cfg.OpenAIKey = ""
	if _, err := NewOpenAIClassifier(cfg, &logger); err != domain.ErrMissingCredentials {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}
