package models

// OutputFormat selects the extraction rendering mode.
type OutputFormat string

const (
	FormatText     OutputFormat = "text"
	FormatMarkdown OutputFormat = "markdown"
)

// ExtractOptions controls optional extraction features.
type ExtractOptions struct {
	IncludeImages bool
	IncludeLinks  bool
	Format        OutputFormat
}

// ReadabilityMetrics mirrors analytics.ReadabilityScores for serialization
// inside extraction results.
type ReadabilityMetrics struct {
	FleschReadingEase         float64 `json:"flesch_reading_ease"`
	FleschKincaidGrade        float64 `json:"flesch_kincaid_grade"`
	ColemanLiauIndex          float64 `json:"coleman_liau_index"`
	AutomatedReadabilityIndex float64 `json:"automated_readability_index"`
	AvgGradeLevel             float64 `json:"avg_grade_level"`
	ReadingLevel              string  `json:"reading_level"`

	SentenceCount       int     `json:"sentence_count"`
	WordCount           int     `json:"word_count"`
	SyllableCount       int     `json:"syllable_count"`
	CharCount           int     `json:"char_count"`
	AvgSentenceLength   float64 `json:"avg_sentence_length"`
	AvgWordLength       float64 `json:"avg_word_length"`
	AvgSyllablesPerWord float64 `json:"avg_syllables_per_word"`

	UniqueWords       int     `json:"unique_words"`
	VocabularyDensity float64 `json:"vocabulary_density"`
	ComplexWordCount  int     `json:"complex_word_count"`
	ComplexWordPct    float64 `json:"complex_word_pct"`

	ReadingTimeSeconds int     `json:"reading_time_seconds"`
	ReadingTimeMinutes float64 `json:"reading_time_minutes"`
}

// ExtractedContent is the structured result of extracting a single page.
type ExtractedContent struct {
	URL           string              `json:"url"`
	Title         string              `json:"title"`
	Author        string              `json:"author,omitempty"`
	PublishedDate string              `json:"published_date,omitempty"`
	Text          string              `json:"text"`
	Markdown      string              `json:"markdown,omitempty"`
	WordCount     int                 `json:"word_count"`
	Excerpt       string              `json:"excerpt"`
	Readability   *ReadabilityMetrics `json:"readability,omitempty"`
	Images        []string            `json:"images,omitempty"`
	Links         []string            `json:"links,omitempty"`
	Language      string              `json:"language,omitempty"`

	ExtractionTimeMs int64 `json:"extraction_time_ms"`
}
