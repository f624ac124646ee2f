package usecase

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"AplusBackend/internal/domain"
)

func TestParseLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", []string{}},
		{"empty array", "[]", []string{}},
		{"array", `["https://a", "https://b"]`, []string{"https://a", "https://b"}},
		{"blank kept", `["", "https://a"]`, []string{"", "https://a"}},
		{"invalid json", `[https://a`, []string{}},
		{"object", `{"url":"https://a"}`, []string{}},
		{"string", `"https://a"`, []string{}},
		{"non-string elements", `[1, "https://a"]`, []string{}},
		{"null", `null`, []string{}},
		{"null element", `["https://a", null]`, []string{}},
		{"only null element", `[null]`, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseLinks(tc.raw, nil))
		})
	}
}

func TestArtifactKey(t *testing.T) {
	t.Parallel()

	key := ArtifactKey(7, domain.KindWeb, "https://en.wikipedia.org/wiki/Calculus?x=1")
	assert.Regexp(t, regexp.MustCompile(`^plans/7/web/[0-9a-f]{8}_en.wikipedia.org_wiki_Calculus_x_1\.txt$`), key)

	assert.NotEqual(t, ArtifactKey(7, domain.KindDocument, "a.pdf"), ArtifactKey(7, domain.KindDocument, "a.pdf"))
	assert.Regexp(t, `^plans/1/document/[0-9a-f]{8}_item\.txt$`, ArtifactKey(1, domain.KindDocument, "///"))
}
