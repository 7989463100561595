package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// EmbedText returns the embedding vector for one text chunk. Each call is
// independent; the orchestrator decides on retries.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("embedding input is empty")
	}
	return c.embed(ctx, map[string]interface{}{
		"model": c.cfg.EmbeddingModel,
		"input": text,
	})
}

// EmbedImage embeds base64-encoded raw image bytes through the multimodal
// embedding model. Used as the fallback for images with no recognizable
// text.
func (c *Client) EmbedImage(ctx context.Context, base64Data string) ([]float32, error) {
	if base64Data == "" {
		return nil, fmt.Errorf("embedding image input is empty")
	}
	model := c.cfg.ImageEmbeddingModel
	if model == "" {
		model = c.cfg.EmbeddingModel
	}
	return c.embed(ctx, map[string]interface{}{
		"model": model,
		"input": []map[string]string{{"image": base64Data}},
	})
}

func (c *Client) embed(ctx context.Context, reqBody map[string]interface{}) ([]float32, error) {
	raw, err := c.post(ctx, "/embeddings", reqBody)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse embedding json failed: %w", err)
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding in response")
	}
	return parsed.Data[0].Embedding, nil
}
