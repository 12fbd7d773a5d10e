package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finsight/analyzer/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewClient(&config.Config{
		GenAIURL:    server.URL,
		GenAIModel:  "test-model",
		GenAIAPIKey: "test-key",
	}, log)
}

func candidateResponse(text string) string {
	body, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	})
	return string(body)
}

func TestCategorizeTransaction(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		w.Write([]byte(candidateResponse(`{"category": "Groceries"}`)))
	})

	category, err := client.CategorizeTransaction(context.Background(), "UPI-BIGBASKET", 450)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", category)
}

func TestCategorizeTransactionStripsCodeFence(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(candidateResponse("```json\n{\"category\": \"Dining\"}\n```")))
	})

	category, err := client.CategorizeTransaction(context.Background(), "SWIGGY ORDER", 320)
	require.NoError(t, err)
	assert.Equal(t, "Dining", category)
}

func TestAnalyzeCreditReportRejectsInvalidExtraction(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// score outside the valid range must be rejected at the boundary
		w.Write([]byte(candidateResponse(`{"creditScore": 12}`)))
	})

	_, err := client.AnalyzeCreditReport(context.Background(), []byte("%PDF-"))
	assert.ErrorContains(t, err, "invalid")
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"service error status", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model overloaded", http.StatusServiceUnavailable)
		}},
		{"no candidates", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates": []}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.CategorizeTransaction(context.Background(), "X", 1)
			assert.Error(t, err)
		})
	}
}
