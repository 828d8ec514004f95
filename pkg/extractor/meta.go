package extractor

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractAuthor tries, in priority order: a meta author tag, an
// article:author property tag, then a schema.org JSON-LD author field.
// First match wins.
func extractAuthor(doc *goquery.Document) string {
	if author := metaContentByName(doc, "author"); author != "" {
		return author
	}
	if author := metaContentByProperty(doc, "article:author"); author != "" {
		return author
	}

	var author string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var payload map[string]json.RawMessage
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return true
		}
		raw, ok := payload["author"]
		if !ok {
			return true
		}
		// Author may be a plain string or an object with a name.
		var name string
		if err := json.Unmarshal(raw, &name); err == nil && name != "" {
			author = name
			return false
		}
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil && obj.Name != "" {
			author = obj.Name
			return false
		}
		return true
	})
	return author
}

// extractDate tries article:published_time, then a time element's datetime
// attribute, then a meta date tag. The value is returned as-is; source
// formats vary too much to normalize.
func extractDate(doc *goquery.Document) string {
	if date := metaContentByProperty(doc, "article:published_time"); date != "" {
		return date
	}
	if datetime, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok && datetime != "" {
		return datetime
	}
	return metaContentByName(doc, "date")
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
