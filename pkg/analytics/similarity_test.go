package analytics

import (
	"testing"
)

func TestComputeSimilarity_IdenticalTexts(t *testing.T) {
	text := "Machine learning models transform raw data into useful predictions every day"
	result := ComputeSimilarity(text, text)

	if result.SimilarityScore != 1.0 {
		t.Errorf("SimilarityScore = %v, want 1.0", result.SimilarityScore)
	}
	if len(result.UniqueToText1) != 0 || len(result.UniqueToText2) != 0 {
		t.Errorf("identical texts should have no unique keywords, got %v / %v",
			result.UniqueToText1, result.UniqueToText2)
	}
	if len(result.SharedKeywords) == 0 {
		t.Error("identical texts should share keywords")
	}
}

func TestComputeSimilarity_EmptyInputs(t *testing.T) {
	for _, pair := range [][2]string{
		{"", ""},
		{"", "some text here"},
		{"some text here", ""},
		{"...", "words words words"}, // no letters on one side
	} {
		result := ComputeSimilarity(pair[0], pair[1])
		if result.SimilarityScore != 0.0 {
			t.Errorf("ComputeSimilarity(%q, %q) score = %v, want 0",
				pair[0], pair[1], result.SimilarityScore)
		}
		if result.SharedKeywords == nil || result.UniqueToText1 == nil || result.UniqueToText2 == nil {
			t.Error("keyword lists must be empty, not nil")
		}
	}
}

func TestComputeSimilarity_DisjointVocabularies(t *testing.T) {
	text1 := "quantum physics electrons photons particles wavefunction entanglement superposition"
	text2 := "gardening tomatoes compost seedlings watering pruning harvest mulch"

	result := ComputeSimilarity(text1, text2)

	if result.SimilarityScore != 0.0 {
		t.Errorf("SimilarityScore = %v, want 0 for disjoint vocabularies", result.SimilarityScore)
	}
	if len(result.UniqueToText1) == 0 || len(result.UniqueToText2) == 0 {
		t.Fatalf("unique lists must be non-empty: %v / %v", result.UniqueToText1, result.UniqueToText2)
	}
	shared := make(map[string]struct{})
	for _, k := range result.SharedKeywords {
		shared[k] = struct{}{}
	}
	for _, k := range append(append([]string{}, result.UniqueToText1...), result.UniqueToText2...) {
		if _, ok := shared[k]; ok {
			t.Errorf("keyword %q appears in both shared and unique lists", k)
		}
	}
}

func TestComputeSimilarity_PartialOverlap(t *testing.T) {
	text1 := "climate change affects ocean temperatures and weather patterns worldwide"
	text2 := "climate change influences ocean currents and marine ecosystems globally"

	result := ComputeSimilarity(text1, text2)

	if result.SimilarityScore <= 0 || result.SimilarityScore >= 1 {
		t.Errorf("SimilarityScore = %v, want strictly between 0 and 1", result.SimilarityScore)
	}
	if len(result.SharedKeywords) == 0 {
		t.Error("overlapping texts should share keywords")
	}
	wantShared := map[string]bool{"climate": false, "change": false, "ocean": false}
	for _, k := range result.SharedKeywords {
		if _, ok := wantShared[k]; ok {
			wantShared[k] = true
		}
	}
	for k, seen := range wantShared {
		if !seen {
			t.Errorf("expected shared keyword %q, got %v", k, result.SharedKeywords)
		}
	}
}

func TestComputeSimilarity_FiltersStopwordsAndShortTerms(t *testing.T) {
	text := "the the the and and cat cat cat dog dog algorithm algorithm ab xy"
	result := ComputeSimilarity(text, text)

	for _, k := range result.SharedKeywords {
		if IsStopword(k) {
			t.Errorf("stopword %q leaked into keywords", k)
		}
		if len(k) <= 2 {
			t.Errorf("short term %q leaked into keywords", k)
		}
	}
}

func TestComputeSimilarity_KeywordListsCapped(t *testing.T) {
	long1 := ""
	long2 := ""
	for _, w := range []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot",
		"golf", "hotel", "india", "juliett", "kilo", "lima", "mike", "november",
		"oscar", "papa", "quebec", "romeo", "sierra", "tango", "uniform", "victor",
		"whiskey", "xray", "yankee", "zulu"} {
		long1 += w + "one "
		long2 += w + "two "
	}
	result := ComputeSimilarity(long1, long2)

	if len(result.SharedKeywords) > keywordLimit {
		t.Errorf("SharedKeywords len = %d, cap is %d", len(result.SharedKeywords), keywordLimit)
	}
	if len(result.UniqueToText1) > keywordLimit || len(result.UniqueToText2) > keywordLimit {
		t.Errorf("unique keyword lists exceed cap of %d", keywordLimit)
	}
}

func TestComputeSimilarity_Symmetric(t *testing.T) {
	text1 := "apples oranges bananas grapes melons"
	text2 := "apples oranges kiwis mangoes papayas"

	a := ComputeSimilarity(text1, text2)
	b := ComputeSimilarity(text2, text1)

	if a.SimilarityScore != b.SimilarityScore {
		t.Errorf("similarity not symmetric: %v vs %v", a.SimilarityScore, b.SimilarityScore)
	}
	if len(a.UniqueToText1) != len(b.UniqueToText2) || len(a.UniqueToText2) != len(b.UniqueToText1) {
		t.Error("unique keyword sides should swap under argument swap")
	}
}
