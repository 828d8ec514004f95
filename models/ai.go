package models

// SummaryFormat selects the shape of an AI summary.
type SummaryFormat string

const (
	SummaryTLDR         SummaryFormat = "tldr"
	SummaryBullets      SummaryFormat = "bullets"
	SummaryKeyTakeaways SummaryFormat = "key_takeaways"
	SummaryParagraph    SummaryFormat = "paragraph"
)

// ValidSummaryFormat reports whether f is one of the supported formats.
func ValidSummaryFormat(f SummaryFormat) bool {
	switch f {
	case SummaryTLDR, SummaryBullets, SummaryKeyTakeaways, SummaryParagraph:
		return true
	}
	return false
}

// SummaryData is the result of an AI summarization call.
type SummaryData struct {
	OriginalURL       string        `json:"original_url,omitempty"`
	Format            SummaryFormat `json:"format"`
	Summary           string        `json:"summary"`
	WordCount         int           `json:"word_count"`
	OriginalWordCount int           `json:"original_word_count"`
	Language          string        `json:"language"`
	ModelUsed         string        `json:"model_used"`
	ProcessingTimeMs  int64         `json:"processing_time_ms"`
}

// SentimentLabel is the primary sentiment classification.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentMixed    SentimentLabel = "mixed"
)

// SentimentData is the result of an AI sentiment classification.
type SentimentData struct {
	OriginalURL      string             `json:"original_url,omitempty"`
	Sentiment        SentimentLabel     `json:"sentiment"`
	Confidence       float64            `json:"confidence"`
	Scores           map[string]float64 `json:"scores"`
	KeyPhrases       []string           `json:"key_phrases"`
	ModelUsed        string             `json:"model_used"`
	ProcessingTimeMs int64              `json:"processing_time_ms"`
}

// NamedEntity is one entity recognized during keyword extraction.
type NamedEntity struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// KeywordData is the result of an AI keyword/topic extraction call.
type KeywordData struct {
	OriginalURL      string        `json:"original_url,omitempty"`
	Keywords         []string      `json:"keywords"`
	Topics           []string      `json:"topics"`
	Entities         []NamedEntity `json:"entities"`
	Category         string        `json:"category"`
	Tags             []string      `json:"tags"`
	ModelUsed        string        `json:"model_used"`
	ProcessingTimeMs int64         `json:"processing_time_ms"`
}
