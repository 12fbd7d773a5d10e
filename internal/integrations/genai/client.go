// Package genai integrates with the hosted generative-AI document
// extraction service. All document intelligence lives behind this client:
// it ships a base64-encoded document plus a prompt describing the target
// JSON schema, and hands the returned JSON to the schema package.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/finsight/analyzer/internal/config"
	"github.com/finsight/analyzer/internal/models"
	"github.com/finsight/analyzer/internal/schema"
	"github.com/sirupsen/logrus"
)

// Client calls the generative model's generateContent endpoint
type Client struct {
	url    string
	model  string
	apiKey string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new extraction client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url:    cfg.GenAIURL,
		model:  cfg.GenAIModel,
		apiKey: cfg.GenAIAPIKey,
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		log: log,
	}
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content `json:"contents"`
	GenerationConfig struct {
		ResponseMimeType string `json:"response_mime_type"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate sends one prompt (optionally with an attached document) and
// returns the model's raw text output.
func (c *Client) generate(ctx context.Context, prompt string, document []byte, mimeType string) (string, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	req.GenerationConfig.ResponseMimeType = "application/json"
	if document != nil {
		req.Contents[0].Parts = append(req.Contents[0].Parts, part{
			InlineData: &inlineData{
				MimeType: mimeType,
				Data:     base64.StdEncoding.EncodeToString(document),
			},
		})
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.url, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("extraction service returned status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("extraction service returned no candidates")
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	// Some model versions fence JSON output despite the response MIME type.
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text), nil
}

// AnalyzeCreditReport extracts a structured CIBIL report from a PDF.
func (c *Client) AnalyzeCreditReport(ctx context.Context, pdf []byte) (*models.CreditReport, error) {
	text, err := c.generate(ctx, creditReportPrompt, pdf, "application/pdf")
	if err != nil {
		return nil, err
	}

	report, err := schema.ParseCreditReport([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("credit report extraction produced invalid output: %w", err)
	}

	c.log.Infof("Extracted credit report: score=%d accounts=%d", report.CreditScore, len(report.Accounts))
	return report, nil
}

// AnalyzeStatement extracts transactions and totals from a bank statement PDF.
func (c *Client) AnalyzeStatement(ctx context.Context, pdf []byte) (*models.StatementAnalysis, error) {
	text, err := c.generate(ctx, statementPrompt, pdf, "application/pdf")
	if err != nil {
		return nil, err
	}

	analysis, err := schema.ParseStatement([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("statement extraction produced invalid output: %w", err)
	}

	c.log.Infof("Extracted bank statement: transactions=%d", len(analysis.Transactions))
	return analysis, nil
}

// CategorizeTransaction asks the model for a single spending category.
func (c *Client) CategorizeTransaction(ctx context.Context, description string, amount float64) (string, error) {
	prompt := fmt.Sprintf(categorizePrompt, description, amount)
	text, err := c.generate(ctx, prompt, nil, "")
	if err != nil {
		return "", err
	}

	var result struct {
		Category string `json:"category"`
	}
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return "", fmt.Errorf("failed to decode category response: %w", err)
	}
	if result.Category == "" {
		return "", fmt.Errorf("categorization returned an empty category")
	}
	return result.Category, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
