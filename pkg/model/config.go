package model

// Configuration is the persisted, externally loaded config consumed by the
// core. It is serialized as JSON at ~/.<appdir>/config.json; see
// internal/config for the loader that applies environment overrides and
// the semver version gate.
type Configuration struct {
	Version             string   `json:"version,omitempty"`
	Folders             []string `json:"folders"`
	GitRepos            []string `json:"gitRepos"`
	WhitelistExtensions []string `json:"whitelistExtensions"`
	BlacklistExtensions []string `json:"blacklistExtensions"`
	BlacklistFilenames  []string `json:"blacklistFilenames"`
	EmbeddingModel      string   `json:"embeddingModel"`
	APIBaseURL          string   `json:"apiBaseUrl"`
	APIKey              string   `json:"apiKey"`

	// MaxInFlight bounds concurrent outgoing embedding calls; zero means
	// the embedder's default (10) applies.
	MaxInFlight int `json:"maxInFlight,omitempty"`

	// TaskAware selects dual RetrievalDocument/RetrievalQuery indexing
	// for models that expose a task dimension; false builds and queries
	// with the single symmetric SemanticSimilarity task. Every query
	// adapter derives its query-side task from this same flag via
	// QueryTask, so a build and its queries never disagree on which
	// task's fragments are being searched.
	TaskAware bool `json:"taskAware,omitempty"`
}
