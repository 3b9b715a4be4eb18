package websearch

import "testing"

func TestNeedsWebSearch(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{"latest research", "What is the latest research on bovine mastitis?", true},
		{"comparison", "difference between FMD and bluetongue", true},
		{"guideline", "Any guideline for anthrax vaccination?", true},
		{"question phrase", "what is footrot", true},
		{"case insensitive", "LATEST treatment options", true},
		{"plain symptom report", "my cow has a swollen udder", false},
		{"plain disease name", "bovine mastitis", false},
		{"empty", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NeedsWebSearch(tc.message); got != tc.want {
				t.Fatalf("NeedsWebSearch(%q) = %v, want %v", tc.message, got, tc.want)
			}
		})
	}
}
