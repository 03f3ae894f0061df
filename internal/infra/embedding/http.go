// Package embedding adapts an external text embedding service to the
// engine's intent vector port.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"stroll/config"
	"stroll/internal/domain/service"

	"github.com/pkg/errors"
)

const defaultCallTimeout = 2 * time.Second

// HTTPProvider turns free-form interest text into an embedding vector
// through an HTTP embedding endpoint.
type HTTPProvider struct {
	baseURL     string
	model       string
	callTimeout time.Duration
	client      *http.Client
}

// NewHTTPProvider creates the embedding provider.
func NewHTTPProvider(cfg *config.Config) service.EmbeddingProvider {
	provider := &HTTPProvider{
		callTimeout: defaultCallTimeout,
		client:      &http.Client{},
	}
	if cfg.Embedding != nil {
		provider.baseURL = strings.TrimRight(cfg.Embedding.BaseURL, "/")
		provider.model = cfg.Embedding.Model
		if cfg.Embedding.CallTimeout > 0 {
			provider.callTimeout = cfg.Embedding.CallTimeout
		}
	}

	return provider
}

type embedRequest struct {
	Model string `json:"model,omitempty"`
	Input string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed returns the embedding vector for the given text.
func (p *HTTPProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	if p.baseURL == "" {
		return nil, errors.New("embedding provider base URL not configured")
	}

	payload, err := json.Marshal(embedRequest{Model: p.model, Input: text})
	if err != nil {
		return nil, errors.Wrap(err, "marshal embedding request")
	}

	callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, p.baseURL+"/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "create embedding request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "embedding request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return nil, errors.Errorf("embedding request returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "decode embedding response")
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, errors.New("embedding response carried no vector")
	}

	return parsed.Data[0].Embedding, nil
}
