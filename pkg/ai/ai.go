// Package ai wraps the language-model calls: summarization, sentiment
// classification, and keyword extraction. The completion client is injected
// so everything here is testable without a live API.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/contentiq/contentiq/models"
)

// DefaultModel is the completion model used when none is configured.
const DefaultModel = "gpt-4o-mini"

const (
	maxSummaryInputRunes   = 50000
	maxSentimentInputRunes = 10000
	maxKeywordsInputRunes  = 8000
)

// ChatClient is the completion API surface the service needs. *openai.Client
// satisfies it.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Service performs AI analysis over extracted text.
type Service struct {
	client ChatClient
	model  string
}

// NewService builds a Service around client. An empty model selects
// DefaultModel.
func NewService(client ChatClient, model string) *Service {
	if model == "" {
		model = DefaultModel
	}
	return &Service{client: client, model: model}
}

var summaryPrompts = map[models.SummaryFormat]string{
	models.SummaryTLDR: "Provide a concise TL;DR summary of the following text. " +
		"Keep it to %d words or fewer. Be direct and factual.",
	models.SummaryBullets: "Summarize the following text as a bullet-point list of the key points. " +
		"Use 3-7 bullet points. Each bullet should be one clear sentence. " +
		"Keep the total under %d words.",
	models.SummaryKeyTakeaways: "Extract the key takeaways from the following text. " +
		"Present them as numbered insights (3-7 items). " +
		"Each takeaway should be actionable or informative. " +
		"Keep the total under %d words.",
	models.SummaryParagraph: "Write a clear, well-structured paragraph summarizing the following text. " +
		"Keep it under %d words. Maintain the original tone and key facts.",
}

// SummarizeOptions tune a Summarize call. Zero values select the defaults:
// tldr format, 200 words, English.
type SummarizeOptions struct {
	Format    models.SummaryFormat
	MaxLength int
	Language  string
	SourceURL string
}

// Summarize generates a summary of text in the requested format.
func (s *Service) Summarize(ctx context.Context, text string, opts SummarizeOptions) (*models.SummaryData, error) {
	start := time.Now()

	if opts.Format == "" {
		opts.Format = models.SummaryTLDR
	}
	if !models.ValidSummaryFormat(opts.Format) {
		return nil, fmt.Errorf("unsupported summary format %q", opts.Format)
	}
	if opts.MaxLength <= 0 {
		opts.MaxLength = 200
	}
	if opts.Language == "" {
		opts.Language = "en"
	}

	systemPrompt := fmt.Sprintf(summaryPrompts[opts.Format], opts.MaxLength)
	if opts.Language != "en" {
		systemPrompt += fmt.Sprintf("\n\nIMPORTANT: Write the summary in the language with ISO code '%s'.", opts.Language)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: truncateRunes(text, maxSummaryInputRunes)},
		},
		Temperature: 0.3,
		MaxTokens:   1000,
	})
	if err != nil {
		return nil, fmt.Errorf("summarization request failed: %w", err)
	}

	summary := strings.TrimSpace(firstChoice(resp))
	return &models.SummaryData{
		OriginalURL:       opts.SourceURL,
		Format:            opts.Format,
		Summary:           summary,
		WordCount:         len(strings.Fields(summary)),
		OriginalWordCount: len(strings.Fields(text)),
		Language:          opts.Language,
		ModelUsed:         s.model,
		ProcessingTimeMs:  time.Since(start).Milliseconds(),
	}, nil
}

const sentimentSystemPrompt = `You are a sentiment analysis engine. Analyze the sentiment of the provided text and respond ONLY with a valid JSON object in this exact format:

{
  "sentiment": "positive" | "negative" | "neutral" | "mixed",
  "confidence": 0.0 to 1.0,
  "scores": {
    "positive": 0.0 to 1.0,
    "negative": 0.0 to 1.0,
    "neutral": 0.0 to 1.0
  },
  "key_phrases": ["phrase1", "phrase2", "phrase3"]
}

Rules:
- "sentiment" must be one of: positive, negative, neutral, mixed
- "confidence" is your confidence in the primary sentiment label
- "scores" must sum to approximately 1.0
- "key_phrases" should list 3-5 short phrases from the text that most influenced your analysis
- Return ONLY the JSON, no markdown, no explanation`

// AnalyzeSentiment classifies the sentiment of text. A malformed model
// response degrades to a neutral result rather than an error.
func (s *Service) AnalyzeSentiment(ctx context.Context, text, sourceURL string) (*models.SentimentData, error) {
	start := time.Now()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sentimentSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: truncateRunes(text, maxSentimentInputRunes)},
		},
		Temperature: 0.1,
		MaxTokens:   500,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sentiment request failed: %w", err)
	}

	var parsed struct {
		Sentiment  string             `json:"sentiment"`
		Confidence float64            `json:"confidence"`
		Scores     map[string]float64 `json:"scores"`
		KeyPhrases []string           `json:"key_phrases"`
	}
	if err := json.Unmarshal([]byte(firstChoice(resp)), &parsed); err != nil {
		parsed.Sentiment = string(models.SentimentNeutral)
		parsed.Confidence = 0.5
		parsed.Scores = map[string]float64{"positive": 0.33, "negative": 0.33, "neutral": 0.34}
		parsed.KeyPhrases = []string{}
	}

	phrases := parsed.KeyPhrases
	if phrases == nil {
		phrases = []string{}
	}
	if len(phrases) > 5 {
		phrases = phrases[:5]
	}
	scores := parsed.Scores
	if scores == nil {
		scores = map[string]float64{}
	}

	return &models.SentimentData{
		OriginalURL:      sourceURL,
		Sentiment:        sentimentLabel(parsed.Sentiment),
		Confidence:       clamp01(parsed.Confidence),
		Scores:           scores,
		KeyPhrases:       phrases,
		ModelUsed:        s.model,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

const keywordsSystemPrompt = `You are a keyword and topic extraction engine. Analyze the provided text and respond ONLY with a valid JSON object in this exact format:

{
  "keywords": ["keyword1", "keyword2", "keyword3"],
  "topics": ["topic1", "topic2"],
  "entities": [
    {"name": "Entity Name", "type": "PERSON|ORG|PLACE|PRODUCT|EVENT|OTHER"}
  ],
  "category": "technology|business|health|science|politics|entertainment|sports|education|lifestyle|other",
  "tags": ["tag1", "tag2", "tag3", "tag4", "tag5"]
}

Rules:
- "keywords" should list 5-10 semantically important keywords/phrases from the text
- "topics" should list 2-4 broad topics the text covers
- "entities" should list named entities (people, companies, places, products) found in the text (max 10)
- "category" must be exactly one of the listed categories
- "tags" should be 3-7 short, lowercase tags suitable for content categorization
- Return ONLY the JSON, no markdown, no explanation`

// ExtractKeywords pulls keywords, topics, entities, a category, and tags out
// of text. Like sentiment, malformed responses degrade to an empty result.
func (s *Service) ExtractKeywords(ctx context.Context, text, sourceURL string) (*models.KeywordData, error) {
	start := time.Now()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: keywordsSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: truncateRunes(text, maxKeywordsInputRunes)},
		},
		Temperature: 0.1,
		MaxTokens:   600,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("keyword extraction request failed: %w", err)
	}

	var parsed struct {
		Keywords []string             `json:"keywords"`
		Topics   []string             `json:"topics"`
		Entities []models.NamedEntity `json:"entities"`
		Category string               `json:"category"`
		Tags     []string             `json:"tags"`
	}
	_ = json.Unmarshal([]byte(firstChoice(resp)), &parsed)

	if parsed.Category == "" {
		parsed.Category = "other"
	}

	return &models.KeywordData{
		OriginalURL:      sourceURL,
		Keywords:         capStrings(parsed.Keywords, 10),
		Topics:           capStrings(parsed.Topics, 5),
		Entities:         capEntities(parsed.Entities, 10),
		Category:         parsed.Category,
		Tags:             capStrings(parsed.Tags, 7),
		ModelUsed:        s.model,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

func firstChoice(resp openai.ChatCompletionResponse) string {
	if len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].Message.Content
}

func sentimentLabel(raw string) models.SentimentLabel {
	switch models.SentimentLabel(strings.ToLower(raw)) {
	case models.SentimentPositive:
		return models.SentimentPositive
	case models.SentimentNegative:
		return models.SentimentNegative
	case models.SentimentMixed:
		return models.SentimentMixed
	}
	return models.SentimentNeutral
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func capStrings(items []string, max int) []string {
	if items == nil {
		return []string{}
	}
	if len(items) > max {
		return items[:max]
	}
	return items
}

func capEntities(items []models.NamedEntity, max int) []models.NamedEntity {
	if items == nil {
		return []models.NamedEntity{}
	}
	if len(items) > max {
		return items[:max]
	}
	return items
}
