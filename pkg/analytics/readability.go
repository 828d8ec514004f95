// Package analytics provides deterministic text analytics: readability
// scoring, content quality scoring, and cross-document similarity.
// All functions are pure and never fail; degenerate inputs produce
// documented zero-valued results.
package analytics

import (
	"math"
	"regexp"
	"strings"
)

var (
	wordPattern     = regexp.MustCompile(`[a-zA-Z]+`)
	sentencePattern = regexp.MustCompile(`[.!?]+`)
	vowelGroups     = regexp.MustCompile(`[aeiouy]+`)
)

// readingSpeedWPM is the average adult online reading speed.
const readingSpeedWPM = 238.0

// ReadabilityScores is the full set of readability metrics for a text.
type ReadabilityScores struct {
	FleschReadingEase         float64 `json:"flesch_reading_ease"`
	FleschKincaidGrade        float64 `json:"flesch_kincaid_grade"`
	ColemanLiauIndex          float64 `json:"coleman_liau_index"`
	AutomatedReadabilityIndex float64 `json:"automated_readability_index"`
	AvgGradeLevel             float64 `json:"avg_grade_level"`
	ReadingLevel              string  `json:"reading_level"`

	SentenceCount       int     `json:"sentence_count"`
	WordCount           int     `json:"word_count"`
	SyllableCount       int     `json:"syllable_count"`
	CharCount           int     `json:"char_count"`
	AvgSentenceLength   float64 `json:"avg_sentence_length"`
	AvgWordLength       float64 `json:"avg_word_length"`
	AvgSyllablesPerWord float64 `json:"avg_syllables_per_word"`

	UniqueWords       int     `json:"unique_words"`
	VocabularyDensity float64 `json:"vocabulary_density"`
	ComplexWordCount  int     `json:"complex_word_count"`
	ComplexWordPct    float64 `json:"complex_word_pct"`

	ReadingTimeSeconds int     `json:"reading_time_seconds"`
	ReadingTimeMinutes float64 `json:"reading_time_minutes"`
}

// Words extracts the maximal runs of ASCII letters from text.
func Words(text string) []string {
	return wordPattern.FindAllString(text, -1)
}

// CountSentences counts non-empty fragments between runs of . ! ?.
func CountSentences(text string) int {
	count := 0
	for _, s := range sentencePattern.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			count++
		}
	}
	return count
}

// CountSyllables estimates the syllable count of a single word. Words of
// three letters or fewer count as one; otherwise a trailing silent "e" is
// stripped and maximal vowel-letter runs are counted, floored at one.
func CountSyllables(word string) int {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return 0
	}
	if len(word) <= 3 {
		return 1
	}
	word = strings.TrimSuffix(word, "e")
	count := len(vowelGroups.FindAllString(word, -1))
	if count < 1 {
		return 1
	}
	return count
}

func readingLevelLabel(score float64) string {
	switch {
	case score >= 90:
		return "Very Easy (5th grade)"
	case score >= 80:
		return "Easy (6th grade)"
	case score >= 70:
		return "Fairly Easy (7th grade)"
	case score >= 60:
		return "Standard (8th-9th grade)"
	case score >= 50:
		return "Fairly Difficult (10th-12th grade)"
	case score >= 30:
		return "Difficult (College)"
	default:
		return "Very Difficult (Graduate)"
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

// ComputeReadability computes the full readability metric set for a text.
// Texts under 10 words return zero-valued scores labeled
// "Too short to analyze" instead of dividing by near-zero denominators.
func ComputeReadability(text string) ReadabilityScores {
	words := Words(text)
	wordCount := len(words)

	sentenceCount := CountSentences(text)
	if sentenceCount < 1 {
		sentenceCount = 1
	}

	charCount := 0
	syllableCount := 0
	unique := make(map[string]struct{}, wordCount)
	complexWordCount := 0
	for _, w := range words {
		charCount += len(w)
		syl := CountSyllables(w)
		syllableCount += syl
		if syl >= 3 {
			complexWordCount++
		}
		unique[strings.ToLower(w)] = struct{}{}
	}

	if wordCount < 10 {
		return ReadabilityScores{
			ReadingLevel:  "Too short to analyze",
			SentenceCount: sentenceCount,
			WordCount:     wordCount,
			SyllableCount: syllableCount,
			CharCount:     charCount,
			UniqueWords:   len(unique),
		}
	}

	asl := float64(wordCount) / float64(sentenceCount)
	asw := float64(syllableCount) / float64(wordCount)
	awl := float64(charCount) / float64(wordCount)

	fre := 206.835 - 1.015*asl - 84.6*asw
	fre = math.Max(0, math.Min(100, round1(fre)))

	fkgl := math.Max(0, round1(0.39*asl+11.8*asw-15.59))

	l := awl * 100
	s := float64(sentenceCount) / float64(wordCount) * 100
	cli := math.Max(0, round1(0.0588*l-0.296*s-15.8))

	ari := math.Max(0, round1(4.71*awl+0.5*asl-21.43))

	avgGrade := round1((fkgl + cli + ari) / 3)

	return ReadabilityScores{
		FleschReadingEase:         fre,
		FleschKincaidGrade:        fkgl,
		ColemanLiauIndex:          cli,
		AutomatedReadabilityIndex: ari,
		AvgGradeLevel:             avgGrade,
		ReadingLevel:              readingLevelLabel(fre),

		SentenceCount:       sentenceCount,
		WordCount:           wordCount,
		SyllableCount:       syllableCount,
		CharCount:           charCount,
		AvgSentenceLength:   round1(asl),
		AvgWordLength:       round1(awl),
		AvgSyllablesPerWord: round2(asw),

		UniqueWords:       len(unique),
		VocabularyDensity: round3(float64(len(unique)) / float64(wordCount)),
		ComplexWordCount:  complexWordCount,
		ComplexWordPct:    round1(float64(complexWordCount) / float64(wordCount) * 100),

		ReadingTimeSeconds: int(math.Round(float64(wordCount) / readingSpeedWPM * 60)),
		ReadingTimeMinutes: round1(float64(wordCount) / readingSpeedWPM),
	}
}
