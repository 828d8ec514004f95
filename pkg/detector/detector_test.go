package detector

import "testing"

func TestDetect_English(t *testing.T) {
	d := New()
	code, ok := d.Detect("The weather forecast predicts heavy rain across the northern regions this weekend, with strong winds along the coast.")
	if !ok {
		t.Fatal("Detect() failed on clear English text")
	}
	if code != "en" {
		t.Errorf("Detect() = %q, want \"en\"", code)
	}
}

func TestDetect_TooShort(t *testing.T) {
	d := New()
	if _, ok := d.Detect("hi"); ok {
		t.Error("Detect() classified a two-letter string")
	}
	if _, ok := d.Detect("   "); ok {
		t.Error("Detect() classified whitespace")
	}
}

func TestDetect_French(t *testing.T) {
	d := New()
	code, ok := d.Detect("Le gouvernement a annoncé aujourd'hui une nouvelle politique économique qui devrait transformer le marché du travail dans les prochaines années.")
	if !ok {
		t.Fatal("Detect() failed on clear French text")
	}
	if code != "fr" {
		t.Errorf("Detect() = %q, want \"fr\"", code)
	}
}
