// Package analyze implements the one-shot CLI commands. Each action runs
// the same pipeline as the HTTP API and prints indented JSON to stdout.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/urfave/cli/v2"

	"github.com/contentiq/contentiq/internal/app"
	"github.com/contentiq/contentiq/internal/common"
	"github.com/contentiq/contentiq/models"
	"github.com/contentiq/contentiq/pkg/ai"
	"github.com/contentiq/contentiq/pkg/analytics"
	"github.com/contentiq/contentiq/pkg/seo"
)

func buildApp(c *cli.Context) (*app.App, error) {
	a, err := app.Build(c.String("config"), c.Bool("quiet"))
	if err != nil {
		return nil, cli.Exit(err.Error(), 2)
	}
	return a, nil
}

func requireURLArg(c *cli.Context, n int) ([]string, error) {
	if c.Args().Len() != n {
		return nil, cli.Exit(fmt.Sprintf("expected %d URL argument(s), got %d", n, c.Args().Len()), 1)
	}
	urls := make([]string, n)
	for i := range urls {
		urls[i] = common.SanitizeURL(c.Args().Get(i))
	}
	return urls, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ExtractAction fetches one URL and prints its extracted content.
func ExtractAction(c *cli.Context) error {
	urls, err := requireURLArg(c, 1)
	if err != nil {
		return err
	}
	a, err := buildApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	format := models.FormatText
	if c.Bool("markdown") {
		format = models.FormatMarkdown
	}

	page, err := a.Fetcher.Fetch(context.Background(), urls[0])
	if err != nil {
		a.Logger.Error("fetch failed", "url", urls[0], "error", err)
		return cli.Exit(err.Error(), 1)
	}
	content := a.Extractor.ExtractContent(page.HTML, page.FinalURL, models.ExtractOptions{
		IncludeImages: c.Bool("images"),
		IncludeLinks:  c.Bool("links"),
		Format:        format,
	})

	return printJSON(content)
}

// SEOAction fetches one URL and prints its SEO metadata.
func SEOAction(c *cli.Context) error {
	urls, err := requireURLArg(c, 1)
	if err != nil {
		return err
	}
	a, err := buildApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	page, err := a.Fetcher.Fetch(context.Background(), urls[0])
	if err != nil {
		a.Logger.Error("fetch failed", "url", urls[0], "error", err)
		return cli.Exit(err.Error(), 1)
	}

	return printJSON(seo.ExtractMetadata(page.HTML, page.FinalURL))
}

type analyzeOutput struct {
	Content   *models.ExtractedContent `json:"content"`
	SEO       *models.SEOMetadata      `json:"seo"`
	Summary   *models.SummaryData      `json:"summary,omitempty"`
	Sentiment *models.SentimentData    `json:"sentiment,omitempty"`
	Keywords  *models.KeywordData      `json:"keywords,omitempty"`
	Quality   analytics.QualityScore   `json:"quality"`
}

// AnalyzeAction runs the full pipeline for one URL: extraction, SEO mining,
// quality scoring, and the AI analyses when a key is configured.
func AnalyzeAction(c *cli.Context) error {
	urls, err := requireURLArg(c, 1)
	if err != nil {
		return err
	}
	a, err := buildApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	page, err := a.Fetcher.Fetch(ctx, urls[0])
	if err != nil {
		a.Logger.Error("fetch failed", "url", urls[0], "error", err)
		return cli.Exit(err.Error(), 1)
	}

	content := a.Extractor.ExtractContent(page.HTML, page.FinalURL, models.ExtractOptions{IncludeImages: true})
	metadata := seo.ExtractMetadata(page.HTML, page.FinalURL)

	out := analyzeOutput{Content: content, SEO: metadata}

	if a.AI != nil && content.Text != "" {
		var wg sync.WaitGroup
		wg.Add(3)
		go func() {
			defer wg.Done()
			summary, err := a.AI.Summarize(ctx, content.Text, ai.SummarizeOptions{SourceURL: content.URL})
			if err != nil {
				a.Logger.Warn("summarization failed", "error", err)
				return
			}
			out.Summary = summary
		}()
		go func() {
			defer wg.Done()
			sentiment, err := a.AI.AnalyzeSentiment(ctx, content.Text, content.URL)
			if err != nil {
				a.Logger.Warn("sentiment analysis failed", "error", err)
				return
			}
			out.Sentiment = sentiment
		}()
		go func() {
			defer wg.Done()
			keywords, err := a.AI.ExtractKeywords(ctx, content.Text, content.URL)
			if err != nil {
				a.Logger.Warn("keyword extraction failed", "error", err)
				return
			}
			out.Keywords = keywords
		}()
		wg.Wait()
	}

	sentenceCount := 1
	flesch := 50.0
	if content.Readability != nil {
		sentenceCount = content.Readability.SentenceCount
		flesch = content.Readability.FleschReadingEase
	}
	out.Quality = analytics.ComputeQualityScore(analytics.QualityInputs{
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
	})

	return printJSON(out)
}

type compareOutput struct {
	URL1            string                     `json:"url1"`
	URL2            string                     `json:"url2"`
	Similarity      analytics.SimilarityResult `json:"similarity"`
	WordCountDiff   int                        `json:"word_count_diff"`
	ReadabilityDiff map[string]any             `json:"readability_diff,omitempty"`
}

// CompareAction fetches two URLs concurrently and prints their similarity.
func CompareAction(c *cli.Context) error {
	urls, err := requireURLArg(c, 2)
	if err != nil {
		return err
	}
	a, err := buildApp(c)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	contents := make([]*models.ExtractedContent, 2)
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i, rawURL := range urls {
		wg.Add(1)
		go func(i int, rawURL string) {
			defer wg.Done()
			page, err := a.Fetcher.Fetch(ctx, rawURL)
			if err != nil {
				errs[i] = err
				return
			}
			contents[i] = a.Extractor.ExtractContent(page.HTML, page.FinalURL, models.ExtractOptions{})
		}(i, rawURL)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			a.Logger.Error("fetch failed", "url", urls[i], "error", err)
			return cli.Exit(err.Error(), 1)
		}
	}

	out := compareOutput{
		URL1:          contents[0].URL,
		URL2:          contents[1].URL,
		Similarity:    analytics.ComputeSimilarity(contents[0].Text, contents[1].Text),
		WordCountDiff: contents[0].WordCount - contents[1].WordCount,
	}
	if r1, r2 := contents[0].Readability, contents[1].Readability; r1 != nil && r2 != nil {
		out.ReadabilityDiff = map[string]any{
			"flesch_reading_ease_diff": r1.FleschReadingEase - r2.FleschReadingEase,
			"grade_level_diff":         r1.AvgGradeLevel - r2.AvgGradeLevel,
			"url1_reading_level":       r1.ReadingLevel,
			"url2_reading_level":       r2.ReadingLevel,
		}
	}

	return printJSON(out)
}
