package analytics

import (
	"math"
	"sort"
)

// SimilarityResult reports how close two texts are, plus keyword overlap.
type SimilarityResult struct {
	SimilarityScore float64  `json:"similarity_score"`
	SharedKeywords  []string `json:"shared_keywords"`
	UniqueToText1   []string `json:"unique_to_text1"`
	UniqueToText2   []string `json:"unique_to_text2"`
}

const (
	keywordPoolSize = 60
	keywordLimit    = 20
)

// termFrequency counts word occurrences, remembering first-seen order so
// that tie-breaking is deterministic.
type termFrequency struct {
	counts map[string]int
	order  map[string]int
}

func countTerms(words []string) termFrequency {
	tf := termFrequency{
		counts: make(map[string]int, len(words)),
		order:  make(map[string]int, len(words)),
	}
	for i, w := range words {
		if _, seen := tf.counts[w]; !seen {
			tf.order[w] = i
		}
		tf.counts[w]++
	}
	return tf
}

// topKeywords ranks the most frequent terms, drops stopwords and terms of
// length <= 2, and returns at most keywordLimit survivors.
func (tf termFrequency) topKeywords() map[string]struct{} {
	terms := make([]string, 0, len(tf.counts))
	for t := range tf.counts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if tf.counts[terms[i]] != tf.counts[terms[j]] {
			return tf.counts[terms[i]] > tf.counts[terms[j]]
		}
		return tf.order[terms[i]] < tf.order[terms[j]]
	})
	if len(terms) > keywordPoolSize {
		terms = terms[:keywordPoolSize]
	}

	keywords := make(map[string]struct{}, keywordLimit)
	for _, t := range terms {
		if len(t) <= 2 || IsStopword(t) {
			continue
		}
		keywords[t] = struct{}{}
		if len(keywords) == keywordLimit {
			break
		}
	}
	return keywords
}

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

// ComputeSimilarity computes term-frequency cosine similarity between two
// texts along with shared and per-side unique keywords. Either text being
// empty yields a zero score and empty keyword lists.
func ComputeSimilarity(text1, text2 string) SimilarityResult {
	words1 := Words(text1)
	words2 := Words(text2)

	result := SimilarityResult{
		SharedKeywords: []string{},
		UniqueToText1:  []string{},
		UniqueToText2:  []string{},
	}
	if len(words1) == 0 || len(words2) == 0 {
		return result
	}

	tf1 := countTerms(words1)
	tf2 := countTerms(words2)

	dot := 0.0
	for term, c1 := range tf1.counts {
		if c2, ok := tf2.counts[term]; ok {
			dot += float64(c1) * float64(c2)
		}
	}
	mag1 := 0.0
	for _, c := range tf1.counts {
		mag1 += float64(c) * float64(c)
	}
	mag2 := 0.0
	for _, c := range tf2.counts {
		mag2 += float64(c) * float64(c)
	}
	if mag1 > 0 && mag2 > 0 {
		result.SimilarityScore = round4(dot / (math.Sqrt(mag1) * math.Sqrt(mag2)))
	}

	kw1 := tf1.topKeywords()
	kw2 := tf2.topKeywords()

	for t := range kw1 {
		if _, ok := kw2[t]; ok {
			result.SharedKeywords = append(result.SharedKeywords, t)
		} else {
			result.UniqueToText1 = append(result.UniqueToText1, t)
		}
	}
	for t := range kw2 {
		if _, ok := kw1[t]; !ok {
			result.UniqueToText2 = append(result.UniqueToText2, t)
		}
	}

	sort.Strings(result.SharedKeywords)
	sort.Strings(result.UniqueToText1)
	sort.Strings(result.UniqueToText2)

	result.SharedKeywords = capStrings(result.SharedKeywords, keywordLimit)
	result.UniqueToText1 = capStrings(result.UniqueToText1, keywordLimit)
	result.UniqueToText2 = capStrings(result.UniqueToText2, keywordLimit)

	return result
}

func capStrings(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
