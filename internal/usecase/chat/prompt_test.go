package chat

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/animora/vetassist/internal/domain"
)

func TestClipKeepsValidUTF8(t *testing.T) {
	if got := clip("short", 25); got != "short" {
		t.Fatalf("clip under budget = %q, want unchanged", got)
	}

	s := strings.Repeat("é", 50)
	got := clip(s, 25)
	if len(got) > 25 {
		t.Fatalf("clip length = %d, want <= 25", len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatalf("clip produced invalid UTF-8: %q", got)
	}
}

func TestBuildMessagesClippedContextStaysValidUTF8(t *testing.T) {
	rec := domain.DiseaseRecord{
		ID:   "fievre-aphteuse",
		Name: "X" + strings.Repeat("é", 1500),
	}
	rec.Normalize()

	messages := BuildMessages("what is fmd", nil, []domain.DiseaseRecord{rec}, nil)
	if len(messages) == 0 || messages[0].Role != domain.RoleSystem {
		t.Fatalf("system prompt missing: %+v", messages)
	}
	if !utf8.ValidString(messages[0].Content) {
		t.Fatal("system prompt contains invalid UTF-8 after clipping")
	}
}
