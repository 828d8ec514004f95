package server

import (
	"github.com/contentiq/contentiq/models"
	"github.com/contentiq/contentiq/pkg/analytics"
)

// analyzeData is the combined payload of the full-analysis endpoint. The AI
// sections are nil when no completion client is configured.
type analyzeData struct {
	Content   *models.ExtractedContent `json:"content"`
	Summary   *models.SummaryData      `json:"summary,omitempty"`
	Sentiment *models.SentimentData    `json:"sentiment,omitempty"`
	SEO       *models.SEOMetadata      `json:"seo"`
	Keywords  *models.KeywordData      `json:"keywords,omitempty"`
	Quality   analytics.QualityScore   `json:"quality"`

	TotalProcessingTimeMs int64 `json:"total_processing_time_ms"`
}

// compareData is the payload of the two-page comparison endpoint.
type compareData struct {
	URL1            string         `json:"url1"`
	URL2            string         `json:"url2"`
	SimilarityScore float64        `json:"similarity_score"`
	SharedKeywords  []string       `json:"shared_keywords"`
	UniqueToURL1    []string       `json:"unique_to_url1"`
	UniqueToURL2    []string       `json:"unique_to_url2"`
	WordCountDiff   int            `json:"word_count_diff"`
	ReadabilityDiff map[string]any `json:"readability_diff"`

	ProcessingTimeMs int64 `json:"processing_time_ms"`
}
