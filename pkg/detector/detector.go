// Package detector identifies the natural language of extracted text.
// It is used when a page does not declare a lang attribute.
package detector

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// sampleLimit bounds how much text is fed to the language model; a few
// kilobytes is plenty for reliable detection.
const sampleLimit = 4000

// Detector wraps a lingua language detector. The underlying model is
// expensive to build, so it is constructed once, lazily.
type Detector struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

func New() *Detector {
	return &Detector{}
}

func (d *Detector) init() {
	d.detector = lingua.NewLanguageDetectorBuilder().
		FromAllSpokenLanguages().
		WithLowAccuracyMode().
		Build()
}

// Detect returns the ISO 639-1 code of the most likely language of text,
// or ok=false when the text is too short or ambiguous to classify.
func (d *Detector) Detect(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if len(text) < 20 {
		return "", false
	}
	if runes := []rune(text); len(runes) > sampleLimit {
		text = string(runes[:sampleLimit])
	}

	d.once.Do(d.init)

	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
