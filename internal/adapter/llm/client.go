package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eva-framework/internal/domain/screening"
	uc "eva-framework/internal/usecase/screening"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	maxTokens      = 300
)

const systemPrompt = `あなたは住宅ローンの事前相談を手伝うアシスタントです。
- 承認・否決・審査通過の可否を示す表現は使わないこと。
- 金額・比率・年数などの数値を断定しないこと。
- 相談時に確認したい論点だけを、短い箇条書きで最大4行返すこと。`

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type chatRequest struct {
	Model     string    `json:"model"`
	Messages  []message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Client produces discussion points through an OpenAI-compatible chat
// completion endpoint. Without an API key, or on any failure, it returns the
// fixed fallback points.
type Client struct {
	apiKey     string
	endpoint   string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		endpoint:   base + "/chat/completions",
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) Enabled() bool { return c.apiKey != "" }

func (c *Client) ProduceDiscussionPoints(ctx context.Context, in screening.ApplicantInput) uc.DiscussionPoints {
	if !c.Enabled() {
		return Fallback()
	}
	text, err := c.complete(ctx, userPrompt(in))
	if err != nil {
		c.logger.WarnContext(ctx, "discussion points: llm call failed, using fallback", "error", err)
		return Fallback()
	}
	items := ParsePoints(text)
	if len(items) == 0 {
		c.logger.WarnContext(ctx, "discussion points: no usable lines, using fallback")
		return Fallback()
	}
	return uc.DiscussionPoints{Items: items, Source: uc.SourceLLM}
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("llm api error (status %d): %s", resp.StatusCode, string(msg))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode llm response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("no choices in llm response")
	}
	return out.Choices[0].Message.Content, nil
}

// userPrompt describes the applicant in words only, so the model has nothing
// numeric to repeat back.
func userPrompt(in screening.ApplicantInput) string {
	var b strings.Builder
	b.WriteString("住宅ローンの事前相談に来た方について、相談時に確認すべき論点を挙げてください。\n")
	if in.Age != nil {
		b.WriteString("- 年齢: 入力あり\n")
	}
	if in.Job != "" {
		fmt.Fprintf(&b, "- 職業: %s\n", in.Job)
	}
	if in.Family != "" {
		fmt.Fprintf(&b, "- 家族構成: %s\n", in.Family)
	}
	fmt.Fprintf(&b, "- 他の借入: %s\n", presence(in.OtherDebtMan))
	fmt.Fprintf(&b, "- 自己資金: %s\n", presence(in.AssetsMan))
	return b.String()
}

func presence(v float64) string {
	if v > 0 {
		return "あり"
	}
	return "なし"
}
