// Package extractor converts raw HTML plus its final URL into structured
// content: title, author, date, body text, optional markdown, images, and
// links. Extraction never fails on malformed HTML; it degrades to a
// deterministic fallback and, in the worst case, an empty body.
package extractor

import (
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/contentiq/contentiq/models"
	"github.com/contentiq/contentiq/pkg/analytics"
)

const (
	excerptLength = 300
	maxImages     = 50
	maxLinks      = 100
)

// minWordsForReadability gates readability scoring; metrics over shorter
// texts are noise.
const minWordsForReadability = 20

// LanguageDetector classifies text when the page declares no lang attribute.
type LanguageDetector interface {
	Detect(text string) (string, bool)
}

// Extractor turns fetched HTML into ExtractedContent.
type Extractor struct {
	maxContentLength int
	markdown         *md.Converter
	detector         LanguageDetector
}

// NewExtractor builds an Extractor with the given content cap. detector may
// be nil, in which case language falls back to the html lang attribute only.
func NewExtractor(maxContentLength int, detector LanguageDetector) *Extractor {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	return &Extractor{
		maxContentLength: maxContentLength,
		markdown:         converter,
		detector:         detector,
	}
}

// ExtractContent extracts structured content from html. finalURL is the
// post-redirect URL used to resolve relative references.
func (e *Extractor) ExtractContent(html, finalURL string, opts models.ExtractOptions) *models.ExtractedContent {
	start := time.Now()

	doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(html))

	content := &models.ExtractedContent{URL: finalURL}

	if docErr == nil {
		content.Title = strings.TrimSpace(doc.Find("title").First().Text())
		content.Author = extractAuthor(doc)
		content.PublishedDate = extractDate(doc)
		if lang, ok := doc.Find("html").First().Attr("lang"); ok {
			content.Language = strings.TrimSpace(lang)
		}
	}

	// Primary pass: readability-style main-content extraction, tuned for
	// recall. Its cleaned HTML also feeds the markdown rendering.
	article, articleErr := e.parseArticle(html, finalURL)

	text := ""
	if articleErr == nil {
		text = strings.TrimSpace(article.TextContent)
		if content.Title == "" {
			content.Title = strings.TrimSpace(article.Title)
		}
	}
	if text == "" && docErr == nil {
		text = fallbackExtract(doc)
	}

	if opts.Format == models.FormatMarkdown && articleErr == nil && article.Content != "" {
		if rendered, err := e.markdown.ConvertString(article.Content); err == nil {
			content.Markdown = truncate(strings.TrimSpace(rendered), e.maxContentLength)
		}
	}

	text = truncate(text, e.maxContentLength)
	content.Text = text
	content.WordCount = len(strings.Fields(text))
	content.Excerpt = makeExcerpt(text)

	if content.Language == "" && e.detector != nil && text != "" {
		if code, ok := e.detector.Detect(text); ok {
			content.Language = code
		}
	}

	if content.WordCount >= minWordsForReadability {
		scores := analytics.ComputeReadability(text)
		content.Readability = toMetrics(scores)
	}

	if opts.IncludeImages && docErr == nil {
		content.Images = collectImages(doc, finalURL)
	}
	if opts.IncludeLinks && docErr == nil {
		content.Links = collectLinks(doc, finalURL)
	}

	content.ExtractionTimeMs = time.Since(start).Milliseconds()
	return content
}

func (e *Extractor) parseArticle(html, finalURL string) (readability.Article, error) {
	pageURL, err := url.Parse(finalURL)
	if err != nil {
		pageURL = &url.URL{}
	}
	parser := readability.NewParser()
	return parser.Parse(strings.NewReader(html), pageURL)
}

// truncate cuts s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func makeExcerpt(text string) string {
	runes := []rune(text)
	if len(runes) > excerptLength {
		return strings.TrimSpace(string(runes[:excerptLength])) + "..."
	}
	return strings.TrimSpace(text)
}

func collectImages(doc *goquery.Document, base string) []string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}
	seen := make(map[string]struct{})
	var images []string
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		resolved := resolveRef(baseURL, src)
		if resolved == "" {
			return true
		}
		if _, dup := seen[resolved]; dup {
			return true
		}
		seen[resolved] = struct{}{}
		images = append(images, resolved)
		return len(images) < maxImages
	})
	return images
}

func collectLinks(doc *goquery.Document, base string) []string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}
	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		resolved := resolveRef(baseURL, href)
		if resolved == "" {
			return true
		}
		parsed, err := url.Parse(resolved)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return true
		}
		if _, dup := seen[resolved]; dup {
			return true
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
		return len(links) < maxLinks
	})
	return links
}

func resolveRef(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(parsed).String()
}

func toMetrics(s analytics.ReadabilityScores) *models.ReadabilityMetrics {
	return &models.ReadabilityMetrics{
		FleschReadingEase:         s.FleschReadingEase,
		FleschKincaidGrade:        s.FleschKincaidGrade,
		ColemanLiauIndex:          s.ColemanLiauIndex,
		AutomatedReadabilityIndex: s.AutomatedReadabilityIndex,
		AvgGradeLevel:             s.AvgGradeLevel,
		ReadingLevel:              s.ReadingLevel,
		SentenceCount:             s.SentenceCount,
		WordCount:                 s.WordCount,
		SyllableCount:             s.SyllableCount,
		CharCount:                 s.CharCount,
		AvgSentenceLength:         s.AvgSentenceLength,
		AvgWordLength:             s.AvgWordLength,
		AvgSyllablesPerWord:       s.AvgSyllablesPerWord,
		UniqueWords:               s.UniqueWords,
		VocabularyDensity:         s.VocabularyDensity,
		ComplexWordCount:          s.ComplexWordCount,
		ComplexWordPct:            s.ComplexWordPct,
		ReadingTimeSeconds:        s.ReadingTimeSeconds,
		ReadingTimeMinutes:        s.ReadingTimeMinutes,
	}
}
