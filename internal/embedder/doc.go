// Package embedder provides task-aware single and batched embedding calls
// against an OpenAI-compatible endpoint. Initialization is lazy: a
// process-wide singleton client is keyed by (apiBaseUrl, apiKey,
// maxInFlight) and published once on first use ("lazy
// global"). Concurrency is bounded by maxInFlight (default 10) via a
// semaphore channel, the same shape as the
// internal/indexer.indexFiles worker pool. An LRU result cache, grounded
// on an embedder.Cache shape, lets repeated fragments across
// incremental updates skip the network call entirely.
//
// Wiring is grounded on perbu-minirag's pkg/embedder/openai.go: a
// github.com/sashabaranov/go-openai client constructed with a custom
// BaseURL via openai.DefaultConfig + ClientConfig.BaseURL.
package embedder
