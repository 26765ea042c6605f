package embedder

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sashabaranov/go-openai"

	"github.com/corvine/flatindex/pkg/model"
)

// DefaultMaxInFlight is the concurrency cap applied when Configuration
// does not override it.
const DefaultMaxInFlight = 10

// DefaultCacheSize bounds the per-client result cache. Entries are
// evicted LRU once the bound is reached; a miss simply costs one extra
// network call.
const DefaultCacheSize = 4096

// Client is a single process-wide embedding client bound to one
// (apiBaseUrl, apiKey, maxInFlight) triple.
type Client struct {
	oai   *openai.Client
	sem   chan struct{}
	cache *lru.Cache[[32]byte, []float32]
}

// New constructs a Client talking to apiBaseUrl with apiKey. maxInFlight
// <= 0 uses DefaultMaxInFlight.
func New(apiBaseURL, apiKey string, maxInFlight int) *Client {
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}
	cfg := openai.DefaultConfig(apiKey)
	if apiBaseURL != "" {
		cfg.BaseURL = apiBaseURL
	}
	cache, _ := lru.New[[32]byte, []float32](DefaultCacheSize)
	return &Client{
		oai:   openai.NewClientWithConfig(cfg),
		sem:   make(chan struct{}, maxInFlight),
		cache: cache,
	}
}

// taskPrefix implements the model-specific prompt-prefix convention
// this describes for models whose family supports task-
// conditioned prompts (e.g. embeddinggemma's "search_document: " /
// "search_query: "). Models that ignore the prefix still receive valid
// input; the task is preserved on the fragment regardless.
func taskPrefix(task model.Task) string {
	switch task {
	case model.RetrievalDocument:
		return "search_document: "
	case model.RetrievalQuery:
		return "search_query: "
	default:
		return ""
	}
}

func cacheKey(text, modelName string, task model.Task) [32]byte {
	return sha256.Sum256([]byte(modelName + "\x00" + string(task) + "\x00" + text))
}

// Embed generates a single embedding for text under model/task.
func (c *Client) Embed(ctx context.Context, text, modelName string, task model.Task) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text}, modelName, task)
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch generates embeddings for texts under model/task, preserving
// input order. Cache hits short-circuit the network call per-text;
// misses are grouped into a single request, bounded by the client's
// maxInFlight semaphore.
func (c *Client) EmbedBatch(ctx context.Context, texts []string, modelName string, task model.Task) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: empty batch", model.ErrInvalidArgument)
	}
	results := make([][]float32, len(texts))
	keys := make([][32]byte, len(texts))
	var misses []int
	var missInputs []string

	for i, text := range texts {
		key := cacheKey(text, modelName, task)
		keys[i] = key
		if v, ok := c.cache.Get(key); ok {
			results[i] = v
			continue
		}
		misses = append(misses, i)
		missInputs = append(missInputs, taskPrefix(task)+text)
	}
	if len(misses) == 0 {
		return results, nil
	}

	select {
	case c.sem <- struct{}{}:
		defer func() { <-c.sem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	resp, err := c.oai.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(modelName),
		Input: missInputs,
	})
	if err != nil {
		return nil, classifyError(err)
	}
	if len(resp.Data) != len(misses) {
		return nil, fmt.Errorf("%w: embedding response returned %d vectors for %d inputs", model.ErrEmbeddingBackend, len(resp.Data), len(misses))
	}
	for j, idx := range misses {
		vec := toFloat32(resp.Data[j].Embedding)
		results[idx] = vec
		c.cache.Add(keys[idx], vec)
	}
	return results, nil
}

func toFloat32(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}

// classifyError distinguishes an input-too-long response from other
// backend failures so callers can split and retry.
func classifyError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "maximum context length") || strings.Contains(msg, "too long") || strings.Contains(msg, "token limit") {
		return fmt.Errorf("%w: %v", model.ErrInputTooLong, err)
	}
	return fmt.Errorf("%w: %v", model.ErrEmbeddingBackend, err)
}

var errNoAPIKey = errors.New("embedder: apiKey is required")

var (
	singletonMu sync.Mutex
	singletons  = map[string]*Client{}
)

func singletonKey(apiBaseURL, apiKey string, maxInFlight int) string {
	return fmt.Sprintf("%s\x00%s\x00%d", apiBaseURL, apiKey, maxInFlight)
}

// Shared returns the process-wide Client for (apiBaseUrl, apiKey,
// maxInFlight), constructing it on first use. Thread-safe first-call
// publication satisfies the "lazy global" design note.
func Shared(apiBaseURL, apiKey string, maxInFlight int) (*Client, error) {
	if apiKey == "" {
		return nil, errNoAPIKey
	}
	key := singletonKey(apiBaseURL, apiKey, maxInFlight)

	singletonMu.Lock()
	defer singletonMu.Unlock()
	if c, ok := singletons[key]; ok {
		return c, nil
	}
	c := New(apiBaseURL, apiKey, maxInFlight)
	singletons[key] = c
	return c, nil
}
