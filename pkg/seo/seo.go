// Package seo mines the SEO and social-preview metadata of a page: title
// and description tags, heading structure, Open Graph and Twitter Card
// properties, JSON-LD structured data, and link and image tallies.
package seo

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/contentiq/contentiq/models"
)

const (
	maxH1Tags        = 10
	maxH2Tags        = 20
	maxSchemaEntries = 10
)

// ExtractMetadata mines SEO metadata from html. finalURL anchors relative
// links and decides internal versus external classification. Malformed HTML
// degrades to a mostly empty result rather than an error.
func ExtractMetadata(html, finalURL string) *models.SEOMetadata {
	start := time.Now()

	meta := &models.SEOMetadata{
		URL:    finalURL,
		H1Tags: []string{},
		H2Tags: []string{},
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		meta.ExtractionTimeMs = time.Since(start).Milliseconds()
		return meta
	}

	meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	meta.MetaDescription = metaContentByName(doc, "description")
	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		meta.CanonicalURL = strings.TrimSpace(href)
	}

	meta.H1Tags = headingTexts(doc, "h1", maxH1Tags)
	meta.H2Tags = headingTexts(doc, "h2", maxH2Tags)

	meta.OpenGraph = extractOpenGraph(doc)
	meta.TwitterCard = extractTwitterCard(doc)
	meta.SchemaMarkup = extractSchemaMarkup(doc)

	meta.Robots = metaContentByName(doc, "robots")
	meta.Viewport = metaContentByName(doc, "viewport")
	if charset, ok := doc.Find("meta[charset]").First().Attr("charset"); ok {
		meta.Charset = strings.TrimSpace(charset)
	}
	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		meta.Language = strings.TrimSpace(lang)
	}

	body := doc.Find("body").First()
	meta.WordCount = len(strings.Fields(body.Text()))

	meta.InternalLinks, meta.ExternalLinks = classifyLinks(doc, finalURL)

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		meta.TotalImages++
		if alt, ok := s.Attr("alt"); !ok || strings.TrimSpace(alt) == "" {
			meta.ImagesWithoutAlt++
		}
	})

	meta.ExtractionTimeMs = time.Since(start).Milliseconds()
	return meta
}

func headingTexts(doc *goquery.Document, tag string, limit int) []string {
	texts := []string{}
	doc.Find(tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		texts = append(texts, strings.TrimSpace(s.Text()))
		return len(texts) < limit
	})
	return texts
}

func extractOpenGraph(doc *goquery.Document) models.OpenGraphTags {
	get := func(prop string) string {
		return metaContentByProperty(doc, "og:"+prop)
	}
	return models.OpenGraphTags{
		Title:       get("title"),
		Description: get("description"),
		Image:       get("image"),
		URL:         get("url"),
		Type:        get("type"),
		SiteName:    get("site_name"),
	}
}

// extractTwitterCard reads twitter:* tags. Publishers disagree on whether
// these live in the name or property attribute, so both are accepted.
func extractTwitterCard(doc *goquery.Document) models.TwitterCard {
	get := func(name string) string {
		if v := metaContentByName(doc, "twitter:"+name); v != "" {
			return v
		}
		return metaContentByProperty(doc, "twitter:"+name)
	}
	return models.TwitterCard{
		Card:        get("card"),
		Title:       get("title"),
		Description: get("description"),
		Image:       get("image"),
		Site:        get("site"),
	}
}

// extractSchemaMarkup parses JSON-LD script blocks. Each block may hold a
// single object or an array of objects; malformed blocks are skipped.
func extractSchemaMarkup(doc *goquery.Document) []models.SchemaEntry {
	var entries []models.SchemaEntry
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return true
		}

		var objects []json.RawMessage
		if strings.HasPrefix(raw, "[") {
			if err := json.Unmarshal([]byte(raw), &objects); err != nil {
				return true
			}
		} else {
			var obj json.RawMessage
			if err := json.Unmarshal([]byte(raw), &obj); err != nil {
				return true
			}
			objects = []json.RawMessage{obj}
		}

		for _, obj := range objects {
			if len(entries) >= maxSchemaEntries {
				return false
			}
			var probe map[string]json.RawMessage
			if err := json.Unmarshal(obj, &probe); err != nil {
				continue
			}
			entries = append(entries, models.SchemaEntry{
				Type: schemaType(probe),
				Data: obj,
			})
		}
		return len(entries) < maxSchemaEntries
	})
	return entries
}

func schemaType(obj map[string]json.RawMessage) string {
	raw, ok := obj["@type"]
	if !ok {
		return "Unknown"
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name
	}
	// Non-string @type, e.g. an array. Keep the raw JSON as the label.
	return string(raw)
}

// classifyLinks counts anchors as internal when they resolve to the page's
// own host (relative links included) and external otherwise.
func classifyLinks(doc *goquery.Document, finalURL string) (internal, external int) {
	base, err := url.Parse(finalURL)
	if err != nil {
		return 0, 0
	}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		parsed, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(parsed)
		if resolved.Host == "" || resolved.Host == base.Host {
			internal++
		} else {
			external++
		}
	})
	return internal, external
}

func metaContentByName(doc *goquery.Document, name string) string {
	var content string
	doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if n, _ := s.Attr("name"); strings.EqualFold(n, name) {
			c, _ := s.Attr("content")
			content = strings.TrimSpace(c)
			return false
		}
		return true
	})
	return content
}

func metaContentByProperty(doc *goquery.Document, property string) string {
	var content string
	doc.Find("meta[property]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if p, _ := s.Attr("property"); strings.EqualFold(p, property) {
			c, _ := s.Attr("content")
			content = strings.TrimSpace(c)
			return false
		}
		return true
	})
	return content
}
