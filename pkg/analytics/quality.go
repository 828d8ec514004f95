package analytics

import (
	"fmt"
	"math"
)

// QualityInputs are the signals feeding the composite quality score.
// They come from extraction plus SEO metadata; the score is a pure
// function of this struct.
type QualityInputs struct {
	WordCount          int
	SentenceCount      int
	FleschReadingEase  float64
	H1Count            int
	H2Count            int
	TotalImages        int
	ImagesWithoutAlt   int
	InternalLinks      int
	ExternalLinks      int
	HasMetaDescription bool
	HasCanonical       bool
	HasOpenGraph       bool
	HasSchemaMarkup    bool
}

// QualityScore is a 0-100 composite content quality assessment.
type QualityScore struct {
	TotalScore      int            `json:"total_score"`
	Grade           string         `json:"grade"`
	Breakdown       map[string]int `json:"breakdown"`
	MaxScores       map[string]int `json:"max_scores"`
	Recommendations []string       `json:"recommendations"`
}

const maxRecommendations = 8

// ComputeQualityScore scores content on five weighted axes: content depth
// (30), readability (20), structure (20), media (15), and SEO signals (15).
// Each deficient signal appends a recommendation, capped at 8 in
// generation order.
func ComputeQualityScore(in QualityInputs) QualityScore {
	breakdown := make(map[string]int, 5)
	recommendations := []string{}

	// Content depth
	var depth int
	switch {
	case in.WordCount >= 2000:
		depth = 30
	case in.WordCount >= 1000:
		depth = 25
	case in.WordCount >= 500:
		depth = 20
	case in.WordCount >= 300:
		depth = 15
	case in.WordCount >= 100:
		depth = 8
	default:
		depth = 3
		recommendations = append(recommendations,
			"Content is very thin. Aim for 500+ words for better engagement.")
	}
	if in.WordCount < 300 {
		recommendations = append(recommendations,
			"Articles under 300 words typically rank poorly in search engines.")
	}
	breakdown["content_depth"] = depth

	// Readability: the optimal Flesch band is roughly 50-80.
	var readability int
	switch {
	case in.FleschReadingEase >= 50 && in.FleschReadingEase <= 80:
		readability = 20
	case in.FleschReadingEase >= 40 && in.FleschReadingEase <= 90:
		readability = 15
	case in.FleschReadingEase >= 30:
		readability = 10
	default:
		readability = 5
		recommendations = append(recommendations,
			"Content is very difficult to read. Simplify sentences and vocabulary.")
	}
	if in.FleschReadingEase > 90 {
		readability = 12
		recommendations = append(recommendations,
			"Content may be too simplistic for a professional audience.")
	}
	breakdown["readability"] = readability

	// Structure
	structure := 0
	switch {
	case in.H1Count == 1:
		structure += 8
	case in.H1Count > 1:
		structure += 4
		recommendations = append(recommendations,
			"Multiple H1 tags detected. Use exactly one H1 per page.")
	default:
		recommendations = append(recommendations,
			"Missing H1 tag. Every page should have a single H1 heading.")
	}
	switch {
	case in.H2Count >= 2:
		structure += 8
	case in.H2Count == 1:
		structure += 5
	default:
		recommendations = append(recommendations,
			"Add H2 subheadings to break up content and improve scannability.")
	}
	if in.SentenceCount >= 5 {
		structure += 4
	} else {
		structure += 2
	}
	breakdown["structure"] = structure

	// Media
	media := 0
	if in.TotalImages > 0 {
		media += 8
		withAlt := in.TotalImages - in.ImagesWithoutAlt
		altRatio := float64(withAlt) / float64(in.TotalImages)
		// Half-to-even keeps exact .5 ratios scoring the same as the
		// platforms this mirrors.
		media += int(math.RoundToEven(7 * altRatio))
		if in.ImagesWithoutAlt > 0 {
			recommendations = append(recommendations, fmt.Sprintf(
				"%d image(s) missing alt text. Add descriptive alt attributes.",
				in.ImagesWithoutAlt))
		}
	} else {
		recommendations = append(recommendations,
			"No images found. Adding relevant images improves engagement and SEO.")
	}
	breakdown["media"] = media

	// SEO signals
	seo := 0
	if in.HasMetaDescription {
		seo += 5
	} else {
		recommendations = append(recommendations,
			"Missing meta description. Add one for better search engine snippets.")
	}
	if in.HasCanonical {
		seo += 3
	}
	if in.HasOpenGraph {
		seo += 4
	} else {
		recommendations = append(recommendations,
			"Missing Open Graph tags. Add them for better social media sharing.")
	}
	if in.HasSchemaMarkup {
		seo += 3
	} else {
		recommendations = append(recommendations,
			"No Schema.org markup found. Add structured data for rich search results.")
	}
	breakdown["seo_signals"] = seo

	total := depth + readability + structure + media + seo

	var grade string
	switch {
	case total >= 90:
		grade = "A+"
	case total >= 80:
		grade = "A"
	case total >= 70:
		grade = "B"
	case total >= 60:
		grade = "C"
	case total >= 50:
		grade = "D"
	default:
		grade = "F"
	}

	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}

	return QualityScore{
		TotalScore: total,
		Grade:      grade,
		Breakdown:  breakdown,
		MaxScores: map[string]int{
			"content_depth": 30,
			"readability":   20,
			"structure":     20,
			"media":         15,
			"seo_signals":   15,
		},
		Recommendations: recommendations,
	}
}
