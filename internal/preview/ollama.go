package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pribylovaa/lapa-nations/internal/config"
	"github.com/pribylovaa/lapa-nations/internal/models"
)

// ErrNotCompleted — модель не завершила генерацию.
var ErrNotCompleted = errors.New("llm response not completed")

const decisionPrompt = `You decide whether an unfurled link preview is more helpful to the user than the raw link.

URL: %s
Title: %s
Description: %s
ImageUrl: %s

Answer with one short sentence that starts with either "Helpful" or "Not helpful".`

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Stop        []string `json:"stop"`
	Temperature float64  `json:"temperature"`
	TopP        float64  `json:"top_p"`
	NumPredict  int      `json:"num_predict"`
	NumCtx      int      `json:"num_ctx"`
}

type generateResponse struct {
	Model      string `json:"model"`
	Response   string `json:"response"`
	DoneReason string `json:"done_reason"`
	Done       bool   `json:"done"`
}

// Ollama запрашивает вердикт у модели через /api/generate.
type Ollama struct {
	client   *http.Client
	endpoint string
	cfg      config.LLMConfig
}

// NewOllama создаёт клиента. client == nil — http.Client с cfg.Timeout.
func NewOllama(cfg config.LLMConfig, client *http.Client) *Ollama {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Ollama{
		client:   client,
		endpoint: strings.TrimRight(cfg.URL, "/") + "/api/generate",
		cfg:      cfg,
	}
}

// Decide возвращает текстовый вердикт модели.
func (o *Ollama) Decide(ctx context.Context, rawURL string, md models.Metadata) (string, error) {
	const op = "preview/ollama/Decide"

	payload := generateRequest{
		Model:  o.cfg.Model,
		Prompt: fmt.Sprintf(decisionPrompt, rawURL, md.Title, md.Description, md.ImageURL),
		Stream: false,
		Options: generateOptions{
			Stop:        []string{"\n\n"},
			Temperature: o.cfg.Temperature,
			TopP:        0.5,
			NumPredict:  o.cfg.NumPredict,
			NumCtx:      2048,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%s: marshal: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%s: unmarshal: %w", op, err)
	}

	if !out.Done {
		return "", fmt.Errorf("%s: %w", op, ErrNotCompleted)
	}

	return strings.TrimSpace(out.Response), nil
}
