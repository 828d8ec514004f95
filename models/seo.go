package models

import "encoding/json"

// OpenGraphTags holds og:* meta properties.
type OpenGraphTags struct {
	Title       string `json:"og_title,omitempty"`
	Description string `json:"og_description,omitempty"`
	Image       string `json:"og_image,omitempty"`
	URL         string `json:"og_url,omitempty"`
	Type        string `json:"og_type,omitempty"`
	SiteName    string `json:"og_site_name,omitempty"`
}

// TwitterCard holds twitter:* meta tags (name or property attribute).
type TwitterCard struct {
	Card        string `json:"card,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Site        string `json:"site,omitempty"`
}

// SchemaEntry is one JSON-LD object found on the page, tagged with its @type.
type SchemaEntry struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// SEOMetadata is the structured SEO/social metadata of a page.
type SEOMetadata struct {
	URL             string        `json:"url"`
	Title           string        `json:"title,omitempty"`
	MetaDescription string        `json:"meta_description,omitempty"`
	CanonicalURL    string        `json:"canonical_url,omitempty"`
	H1Tags          []string      `json:"h1_tags"`
	H2Tags          []string      `json:"h2_tags"`
	OpenGraph       OpenGraphTags `json:"open_graph"`
	TwitterCard     TwitterCard   `json:"twitter_card"`
	SchemaMarkup    []SchemaEntry `json:"schema_markup"`
	Robots          string        `json:"robots,omitempty"`
	Viewport        string        `json:"viewport,omitempty"`
	Charset         string        `json:"charset,omitempty"`
	Language        string        `json:"language,omitempty"`
	WordCount       int           `json:"word_count"`
	InternalLinks   int           `json:"internal_links"`
	ExternalLinks   int           `json:"external_links"`
	TotalImages     int           `json:"total_images"`
	ImagesWithoutAlt int          `json:"images_without_alt"`

	ExtractionTimeMs int64 `json:"extraction_time_ms"`
}

// HasOpenGraph reports whether any Open Graph property was present.
func (s *SEOMetadata) HasOpenGraph() bool {
	og := s.OpenGraph
	return og.Title != "" || og.Description != "" || og.Image != "" ||
		og.URL != "" || og.Type != "" || og.SiteName != ""
}
