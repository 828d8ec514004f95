package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// contentClassHints mark containers likely to hold the main article when no
// semantic element is present.
var contentClassHints = []string{"content", "article", "post", "entry"}

// fallbackExtract is the deterministic fallback used when the primary pass
// yields no text: strip boilerplate elements, locate the most content-like
// container, and join its paragraph texts with blank lines.
func fallbackExtract(doc *goquery.Document) string {
	// Work on a clone; the caller still mines the original document.
	cloned := goquery.CloneDocument(doc)
	cloned.Find("script, style, nav, header, footer, aside").Remove()

	area := findContentArea(cloned)
	if area != nil {
		var paragraphs []string
		area.Find("p").Each(func(_ int, p *goquery.Selection) {
			if text := strings.TrimSpace(p.Text()); text != "" {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) > 0 {
			return strings.Join(paragraphs, "\n\n")
		}
	}

	// Last resort: all body text.
	body := cloned.Find("body").First()
	return strings.Join(strings.Fields(body.Text()), " ")
}

func findContentArea(doc *goquery.Document) *goquery.Selection {
	for _, selector := range []string{"article", "main", `[role="main"]`} {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}

	var hinted *goquery.Selection
	doc.Find("div[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		class = strings.ToLower(class)
		for _, hint := range contentClassHints {
			if strings.Contains(class, hint) {
				hinted = s
				return false
			}
		}
		return true
	})
	if hinted != nil {
		return hinted
	}

	if body := doc.Find("body").First(); body.Length() > 0 {
		return body
	}
	return nil
}
