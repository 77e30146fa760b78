// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-atlas/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the OpenAlex fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Email is sent as the mailto parameter for polite pool access.
	Email string `json:"email" yaml:"email"`

	// PageSize is the per-page parameter for cursor pagination (default 50).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxAttempts is the retry budget for a single request (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// RateLimitCooldown is the wait after an HTTP 429 (default 60s).
	// A 429 does not consume a retry attempt.
	RateLimitCooldown time.Duration `json:"rate_limit_cooldown" yaml:"rate_limit_cooldown"`

	// RetryDelay is the wait after other failed requests (default 2s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay"`

	// PagePause is the politeness pause between result pages (default 300ms).
	PagePause time.Duration `json:"page_pause" yaml:"page_pause"`

	// InstitutionPause is the pause between per-institution fallback
	// queries (default 500ms).
	InstitutionPause time.Duration `json:"institution_pause" yaml:"institution_pause"`
}

// WithDefaults fills zero-valued fields with stage defaults.
func (c FetchConfig) WithDefaults() FetchConfig {
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "research-atlas/0.1"
	}
	if c.PageSize <= 0 {
		c.PageSize = 50
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.RateLimitCooldown <= 0 {
		c.RateLimitCooldown = 60 * time.Second
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 2 * time.Second
	}
	if c.PagePause <= 0 {
		c.PagePause = 300 * time.Millisecond
	}
	if c.InstitutionPause <= 0 {
		c.InstitutionPause = 500 * time.Millisecond
	}
	return c
}

// StoreConfig holds settings for the SQLite publication store.
type StoreConfig struct {
	// DatabasePath is the SQLite database file (default "data/atlas.db").
	DatabasePath string `json:"database_path" yaml:"database_path"`

	// BatchSize is the number of publications saved per transaction
	// commit (default 50).
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// TopicConfig holds settings for the topic discovery stage.
type TopicConfig struct {
	// MinPublications is the minimum number of qualifying publications
	// required before modeling runs at all (default 10).
	MinPublications int `json:"min_publications" yaml:"min_publications"`

	// MinAbstractLen is the minimum abstract length, in characters, for
	// a publication to enter the corpus (default 100).
	MinAbstractLen int `json:"min_abstract_len" yaml:"min_abstract_len"`

	// MinDocTokens is the minimum normalized token count per document
	// (default 10).
	MinDocTokens int `json:"min_doc_tokens" yaml:"min_doc_tokens"`

	// MaxFeatures caps the TF-IDF vocabulary size (default 500).
	MaxFeatures int `json:"max_features" yaml:"max_features"`

	// MinDocFreq is the minimum number of documents a term must appear
	// in (default 2).
	MinDocFreq int `json:"min_doc_freq" yaml:"min_doc_freq"`

	// MaxDocFreqRatio excludes terms appearing in more than this
	// fraction of documents (default 0.7).
	MaxDocFreqRatio float64 `json:"max_doc_freq_ratio" yaml:"max_doc_freq_ratio"`

	// MinTopics and MaxTopics clamp the dynamic topic count (defaults 5
	// and 12). The count is survivors/DocsPerTopic before clamping.
	MinTopics    int `json:"min_topics" yaml:"min_topics"`
	MaxTopics    int `json:"max_topics" yaml:"max_topics"`
	DocsPerTopic int `json:"docs_per_topic" yaml:"docs_per_topic"`

	// AssignmentThreshold is the minimum document-topic weight that is
	// persisted as an assignment (default 0.1).
	AssignmentThreshold float64 `json:"assignment_threshold" yaml:"assignment_threshold"`

	// MaxIterations bounds the factorization update loop (default 200).
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`
}

// WithDefaults fills zero-valued fields with stage defaults.
func (c TopicConfig) WithDefaults() TopicConfig {
	if c.MinPublications <= 0 {
		c.MinPublications = 10
	}
	if c.MinAbstractLen <= 0 {
		c.MinAbstractLen = 100
	}
	if c.MinDocTokens <= 0 {
		c.MinDocTokens = 10
	}
	if c.MaxFeatures <= 0 {
		c.MaxFeatures = 500
	}
	if c.MinDocFreq <= 0 {
		c.MinDocFreq = 2
	}
	if c.MaxDocFreqRatio <= 0 {
		c.MaxDocFreqRatio = 0.7
	}
	if c.MinTopics <= 0 {
		c.MinTopics = 5
	}
	if c.MaxTopics <= 0 {
		c.MaxTopics = 12
	}
	if c.DocsPerTopic <= 0 {
		c.DocsPerTopic = 15
	}
	if c.AssignmentThreshold <= 0 {
		c.AssignmentThreshold = 0.1
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = 200
	}
	return c
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Fetch  FetchConfig `json:"fetch" yaml:"fetch"`
	Store  StoreConfig `json:"store" yaml:"store"`
	Topics TopicConfig `json:"topics" yaml:"topics"`
}
