package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// UpsertBatchSize bounds a single upsert call; the store rejects larger
// payloads. Batches are independent: a failure in one does not undo the
// batches already written.
const UpsertBatchSize = 100

// Metadata travels with every vector so matches can be traced back to
// their source chunk without another lookup.
type Metadata struct {
	EventID     string `json:"event_id"`
	StoragePath string `json:"storage_path"`
	ChunkIndex  int    `json:"chunk_index"`
	Text        string `json:"text"`
}

// Record is one embedding plus metadata. IDs are deterministic
// (storagePath#chunkIndex) so re-ingestion overwrites in place.
type Record struct {
	ID       string    `json:"id"`
	Values   []float32 `json:"values"`
	Metadata Metadata  `json:"metadata"`
}

// Match is a query hit, scored by similarity.
type Match struct {
	ID       string    `json:"id"`
	Score    float32   `json:"score"`
	Metadata Metadata  `json:"metadata"`
	Values   []float32 `json:"values,omitempty"`
}

// Client is a namespace-scoped vector index client. The namespace is the
// per-event tenant boundary.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Upsert writes records into the namespace in batches of at most
// UpsertBatchSize, issued sequentially.
func (c *Client) Upsert(ctx context.Context, namespace string, records []Record) error {
	for i := 0; i < len(records); i += UpsertBatchSize {
		end := i + UpsertBatchSize
		if end > len(records) {
			end = len(records)
		}
		body := map[string]interface{}{
			"namespace": namespace,
			"vectors":   records[i:end],
		}
		if _, err := c.post(ctx, "/vectors/upsert", body); err != nil {
			return fmt.Errorf("upsert batch at %d failed: %w", i, err)
		}
	}
	return nil
}

// Query returns up to topK matches ordered descending by score, with
// metadata included.
func (c *Client) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]Match, error) {
	body := map[string]interface{}{
		"namespace":       namespace,
		"vector":          vector,
		"topK":            topK,
		"includeMetadata": true,
	}
	raw, err := c.post(ctx, "/query", body)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	var parsed struct {
		Matches []Match `json:"matches"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse query response failed: %w", err)
	}
	return parsed.Matches, nil
}

// DeleteNamespace removes every vector under the namespace in one logical
// operation.
func (c *Client) DeleteNamespace(ctx context.Context, namespace string) error {
	body := map[string]interface{}{
		"namespace": namespace,
		"deleteAll": true,
	}
	if _, err := c.post(ctx, "/vectors/delete", body); err != nil {
		return fmt.Errorf("delete namespace failed: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body map[string]interface{}) ([]byte, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("response status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
