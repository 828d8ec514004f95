package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/contentiq/contentiq/internal/common"
	"github.com/contentiq/contentiq/models"
	"github.com/contentiq/contentiq/pkg/ai"
	"github.com/contentiq/contentiq/pkg/analytics"
	"github.com/contentiq/contentiq/pkg/seo"
)

// summarySourceKeyRunes bounds how much raw text feeds a cache key when the
// request carries text instead of a URL.
const summarySourceKeyRunes = 200

func (s *Server) cacheGet(ctx context.Context, namespace, key string) (json.RawMessage, bool) {
	value, ok := s.cache.Get(ctx, namespace, key)
	if !ok {
		return nil, false
	}
	return json.RawMessage(value), true
}

func (s *Server) cacheSet(ctx context.Context, namespace, key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("failed to marshal cache payload", "namespace", namespace, "error", err)
		return
	}
	s.cache.Set(ctx, namespace, key, payload, 0)
}

// fetchAndExtract runs the fetch plus extract pipeline for one URL.
func (s *Server) fetchAndExtract(ctx context.Context, rawURL string, opts models.ExtractOptions) (*models.ExtractedContent, string, error) {
	page, err := s.fetcher.Fetch(ctx, common.SanitizeURL(rawURL))
	if err != nil {
		return nil, "", err
	}
	return s.extractor.ExtractContent(page.HTML, page.FinalURL, opts), page.HTML, nil
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusUnprocessableEntity, "MISSING_INPUT", "'url' must be provided.", "")
		return
	}
	if req.OutputFormat == "" {
		req.OutputFormat = models.FormatText
	}

	ctx := r.Context()
	cacheKey := fmt.Sprintf("%s:%t:%t:%s", req.URL, req.IncludeImages, req.IncludeLinks, req.OutputFormat)
	if cached, ok := s.cacheGet(ctx, "extract", cacheKey); ok {
		writeData(w, cached, true)
		return
	}

	content, _, err := s.fetchAndExtract(ctx, req.URL, models.ExtractOptions{
		IncludeImages: req.IncludeImages,
		IncludeLinks:  req.IncludeLinks,
		Format:        req.OutputFormat,
	})
	if err != nil {
		s.writePipelineError(w, "extraction", err)
		return
	}

	s.cacheSet(ctx, "extract", cacheKey, content)
	s.logger.Info("extract", "url", req.URL, "words", content.WordCount, "ms", content.ExtractionTimeMs)
	writeData(w, content, false)
}

// resolveText turns a url-or-text request into the text to analyze. It
// writes the error response itself and reports ok=false on failure.
func (s *Server) resolveText(w http.ResponseWriter, ctx context.Context, endpoint, rawURL, rawText string) (text, sourceURL string, ok bool) {
	if rawURL == "" && rawText == "" {
		writeError(w, http.StatusUnprocessableEntity, "MISSING_INPUT",
			"Either 'url' or 'text' must be provided.", "")
		return "", "", false
	}

	text = rawText
	if rawURL != "" {
		content, _, err := s.fetchAndExtract(ctx, rawURL, models.ExtractOptions{})
		if err != nil {
			s.writePipelineError(w, endpoint, err)
			return "", "", false
		}
		text = content.Text
		sourceURL = content.URL
	}

	if !hasText(text) {
		writeError(w, http.StatusUnprocessableEntity, "NO_CONTENT",
			"No content could be extracted from the provided URL or text.", "")
		return "", "", false
	}
	return text, sourceURL, true
}

func (s *Server) requireAI(w http.ResponseWriter) bool {
	if s.ai == nil {
		writeError(w, http.StatusServiceUnavailable, "AI_UNAVAILABLE",
			"AI analysis is not configured on this deployment.", "")
		return false
	}
	return true
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Format == "" {
		req.Format = models.SummaryTLDR
	}
	if !models.ValidSummaryFormat(req.Format) {
		writeError(w, http.StatusUnprocessableEntity, "INVALID_FORMAT",
			fmt.Sprintf("Unsupported summary format %q.", req.Format), "")
		return
	}
	if req.MaxLength <= 0 {
		req.MaxLength = 200
	}
	if req.Language == "" {
		req.Language = "en"
	}
	if !s.requireAI(w) {
		return
	}

	ctx := r.Context()
	cacheKey := fmt.Sprintf("%s:%s:%d:%s", sourceKey(req.URL, req.Text), req.Format, req.MaxLength, req.Language)
	if cached, ok := s.cacheGet(ctx, "summarize", cacheKey); ok {
		writeData(w, cached, true)
		return
	}

	text, sourceURL, ok := s.resolveText(w, ctx, "summarization", req.URL, req.Text)
	if !ok {
		return
	}

	summary, err := s.ai.Summarize(ctx, text, ai.SummarizeOptions{
		Format:    req.Format,
		MaxLength: req.MaxLength,
		Language:  req.Language,
		SourceURL: sourceURL,
	})
	if err != nil {
		s.writePipelineError(w, "summarization", err)
		return
	}

	s.cacheSet(ctx, "summarize", cacheKey, summary)
	s.logger.Info("summarize", "format", req.Format,
		"words_in", summary.OriginalWordCount, "words_out", summary.WordCount,
		"ms", summary.ProcessingTimeMs)
	writeData(w, summary, false)
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	var req sentimentRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if !s.requireAI(w) {
		return
	}

	ctx := r.Context()
	cacheKey := sourceKey(req.URL, req.Text)
	if cached, ok := s.cacheGet(ctx, "sentiment", cacheKey); ok {
		writeData(w, cached, true)
		return
	}

	text, sourceURL, ok := s.resolveText(w, ctx, "sentiment", req.URL, req.Text)
	if !ok {
		return
	}

	sentiment, err := s.ai.AnalyzeSentiment(ctx, text, sourceURL)
	if err != nil {
		s.writePipelineError(w, "sentiment", err)
		return
	}

	s.cacheSet(ctx, "sentiment", cacheKey, sentiment)
	s.logger.Info("sentiment", "result", sentiment.Sentiment,
		"confidence", sentiment.Confidence, "ms", sentiment.ProcessingTimeMs)
	writeData(w, sentiment, false)
}

func (s *Server) handleSEO(w http.ResponseWriter, r *http.Request) {
	var req seoRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusUnprocessableEntity, "MISSING_INPUT", "'url' must be provided.", "")
		return
	}

	ctx := r.Context()
	if cached, ok := s.cacheGet(ctx, "seo", req.URL); ok {
		writeData(w, cached, true)
		return
	}

	page, err := s.fetcher.Fetch(ctx, common.SanitizeURL(req.URL))
	if err != nil {
		s.writePipelineError(w, "seo_extraction", err)
		return
	}
	metadata := seo.ExtractMetadata(page.HTML, page.FinalURL)

	s.cacheSet(ctx, "seo", req.URL, metadata)
	s.logger.Info("seo", "url", req.URL, "ms", metadata.ExtractionTimeMs)
	writeData(w, metadata, false)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusUnprocessableEntity, "MISSING_INPUT", "'url' must be provided.", "")
		return
	}
	if req.SummaryFormat == "" {
		req.SummaryFormat = models.SummaryTLDR
	}
	if !models.ValidSummaryFormat(req.SummaryFormat) {
		writeError(w, http.StatusUnprocessableEntity, "INVALID_FORMAT",
			fmt.Sprintf("Unsupported summary format %q.", req.SummaryFormat), "")
		return
	}
	if req.SummaryMaxLength <= 0 {
		req.SummaryMaxLength = 200
	}

	ctx := r.Context()
	start := time.Now()
	cacheKey := fmt.Sprintf("%s:%s:%d", req.URL, req.SummaryFormat, req.SummaryMaxLength)
	if cached, ok := s.cacheGet(ctx, "analyze", cacheKey); ok {
		writeData(w, cached, true)
		return
	}

	content, html, err := s.fetchAndExtract(ctx, req.URL, models.ExtractOptions{IncludeImages: true})
	if err != nil {
		s.writePipelineError(w, "analysis", err)
		return
	}
	metadata := seo.ExtractMetadata(html, content.URL)

	if !hasText(content.Text) {
		writeError(w, http.StatusUnprocessableEntity, "NO_CONTENT",
			"No content could be extracted from the URL.", "")
		return
	}

	data := analyzeData{Content: content, SEO: metadata}

	if s.ai != nil {
		var wg sync.WaitGroup
		var summaryErr, sentimentErr, keywordsErr error

		wg.Add(3)
		go func() {
			defer wg.Done()
			data.Summary, summaryErr = s.ai.Summarize(ctx, content.Text, ai.SummarizeOptions{
				Format:    req.SummaryFormat,
				MaxLength: req.SummaryMaxLength,
				SourceURL: content.URL,
			})
		}()
		go func() {
			defer wg.Done()
			data.Sentiment, sentimentErr = s.ai.AnalyzeSentiment(ctx, content.Text, content.URL)
		}()
		go func() {
			defer wg.Done()
			data.Keywords, keywordsErr = s.ai.ExtractKeywords(ctx, content.Text, content.URL)
		}()
		wg.Wait()

		for _, err := range []error{summaryErr, sentimentErr, keywordsErr} {
			if err != nil {
				s.writePipelineError(w, "analysis", err)
				return
			}
		}
	}

	data.Quality = analytics.ComputeQualityScore(qualityInputs(content, metadata))
	data.TotalProcessingTimeMs = time.Since(start).Milliseconds()

	s.cacheSet(ctx, "analyze", cacheKey, data)
	s.logger.Info("analyze", "url", req.URL, "words", content.WordCount,
		"total_ms", data.TotalProcessingTimeMs)
	writeData(w, data, false)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.URL1 == "" || req.URL2 == "" {
		writeError(w, http.StatusUnprocessableEntity, "MISSING_INPUT",
			"Both 'url1' and 'url2' must be provided.", "")
		return
	}

	ctx := r.Context()
	start := time.Now()
	cacheKey := req.URL1 + "|" + req.URL2
	if cached, ok := s.cacheGet(ctx, "compare", cacheKey); ok {
		writeData(w, cached, true)
		return
	}

	// Both pipelines run concurrently; the first error wins.
	var wg sync.WaitGroup
	contents := make([]*models.ExtractedContent, 2)
	errs := make([]error, 2)
	for i, rawURL := range []string{req.URL1, req.URL2} {
		wg.Add(1)
		go func(i int, rawURL string) {
			defer wg.Done()
			contents[i], _, errs[i] = s.fetchAndExtract(ctx, rawURL, models.ExtractOptions{})
		}(i, rawURL)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			s.writePipelineError(w, "comparison", err)
			return
		}
	}
	if !hasText(contents[0].Text) || !hasText(contents[1].Text) {
		writeError(w, http.StatusUnprocessableEntity, "NO_CONTENT",
			"Could not extract content from one or both URLs.", "")
		return
	}

	sim := analytics.ComputeSimilarity(contents[0].Text, contents[1].Text)

	readabilityDiff := map[string]any{}
	if r1, r2 := contents[0].Readability, contents[1].Readability; r1 != nil && r2 != nil {
		readabilityDiff = map[string]any{
			"flesch_reading_ease_diff": round2(r1.FleschReadingEase - r2.FleschReadingEase),
			"grade_level_diff":         round2(r1.AvgGradeLevel - r2.AvgGradeLevel),
			"url1_reading_level":       r1.ReadingLevel,
			"url2_reading_level":       r2.ReadingLevel,
		}
	}

	data := compareData{
		URL1:             contents[0].URL,
		URL2:             contents[1].URL,
		SimilarityScore:  sim.SimilarityScore,
		SharedKeywords:   sim.SharedKeywords,
		UniqueToURL1:     sim.UniqueToText1,
		UniqueToURL2:     sim.UniqueToText2,
		WordCountDiff:    contents[0].WordCount - contents[1].WordCount,
		ReadabilityDiff:  readabilityDiff,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}

	s.cacheSet(ctx, "compare", cacheKey, data)
	s.logger.Info("compare", "url1", req.URL1, "url2", req.URL2,
		"similarity", sim.SimilarityScore, "ms", data.ProcessingTimeMs)
	writeData(w, data, false)
}

func qualityInputs(content *models.ExtractedContent, metadata *models.SEOMetadata) analytics.QualityInputs {
	sentenceCount := 1
	flesch := 50.0
	if content.Readability != nil {
		sentenceCount = content.Readability.SentenceCount
		flesch = content.Readability.FleschReadingEase
	}
	return analytics.QualityInputs{
		WordCount:          content.WordCount,
		SentenceCount:      sentenceCount,
		FleschReadingEase:  flesch,
		H1Count:            len(metadata.H1Tags),
		H2Count:            len(metadata.H2Tags),
		TotalImages:        metadata.TotalImages,
		ImagesWithoutAlt:   metadata.ImagesWithoutAlt,
		InternalLinks:      metadata.InternalLinks,
		ExternalLinks:      metadata.ExternalLinks,
		HasMetaDescription: metadata.MetaDescription != "",
		HasCanonical:       metadata.CanonicalURL != "",
		HasOpenGraph:       metadata.OpenGraph.Title != "",
		HasSchemaMarkup:    len(metadata.SchemaMarkup) > 0,
	}
}

// sourceKey picks the cache-key source for url-or-text requests: the URL
// when present, otherwise a bounded prefix of the text.
func sourceKey(rawURL, text string) string {
	if rawURL != "" {
		return rawURL
	}
	runes := []rune(text)
	if len(runes) > summarySourceKeyRunes {
		return string(runes[:summarySourceKeyRunes])
	}
	return text
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
