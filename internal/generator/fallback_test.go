package generator

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFallback(t *testing.T) {
	sources := []SourceInput{
		{ID: "a", ExtractedText: "Remote work has increased by 300% since 2020. Productivity is up across distributed teams. Offices keep shrinking in most major cities."},
		{ID: "b", ExtractedText: "Hybrid schedules are now the default for knowledge workers in most industries."},
	}
	project := ProjectSpec{Title: "Remote Work", ContentType: "blog", TonePreference: "casual", TargetLength: 300}

	out := Fallback(sources, project, time.Now())

	assert.NotEmpty(t, out.Content)
	assert.Contains(t, out.Content, "Remote Work")
	assert.Contains(t, out.Content, "Conclusion")

	// fixed outline shape
	assert.Len(t, out.Outline.Sections, 4)
	assert.Equal(t, "Introduction", out.Outline.Sections[0].Title)
	assert.Equal(t, "Key Insights", out.Outline.Sections[1].Title)
	assert.Equal(t, "Implications", out.Outline.Sections[2].Title)
	assert.Equal(t, "Conclusion", out.Outline.Sections[3].Title)

	// one citation per source, excerpted
	assert.Len(t, out.Citations, 2)
	assert.Equal(t, "a", out.Citations[0].SourceID)
	assert.True(t, strings.HasSuffix(out.Citations[0].Text, "..."))
	assert.LessOrEqual(t, len(out.Citations[0].Text), 103)
	assert.Equal(t, "Referenced from source 1", out.Citations[0].Context)
	assert.Equal(t, "Referenced from source 2", out.Citations[1].Context)

	assert.GreaterOrEqual(t, out.QualityScore, 0.5)
	assert.LessOrEqual(t, out.QualityScore, 1.0)
	assert.GreaterOrEqual(t, out.GenerationTime, int64(0))
}

func TestFallback_KeyPointLimit(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 20; i++ {
		sb.WriteString(fmt.Sprintf("This is a sufficiently long sentence number %d for extraction. ", i))
	}
	sources := []SourceInput{{ID: "a", ExtractedText: sb.String()}}
	project := ProjectSpec{Title: "T", ContentType: "article", TargetLength: 1000}

	out := Fallback(sources, project, time.Now())

	// at most five key points become sections
	assert.Contains(t, out.Content, "Section 5: Key Insight")
	assert.NotContains(t, out.Content, "Section 6: Key Insight")
}

func TestFallback_ShortSentencesIgnored(t *testing.T) {
	sources := []SourceInput{{ID: "a", ExtractedText: "Too short. Tiny. No."}}
	project := ProjectSpec{Title: "T", ContentType: "blog", TargetLength: 200}

	out := Fallback(sources, project, time.Now())

	assert.NotContains(t, out.Content, "Section 1: Key Insight")
	assert.NotEmpty(t, out.Content)
}

func TestExcerpt_RuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 120)

	got := excerpt(long, 100)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 100)+"...", got)

	// short text passes through untruncated
	assert.Equal(t, "héllo...", excerpt("héllo", 100))
}

func TestQualityScore(t *testing.T) {
	words := func(n int) string {
		return strings.TrimSpace(strings.Repeat("word ", n))
	}

	tests := []struct {
		name   string
		words  int
		target int
		want   float64
	}{
		{name: "on target", words: 100, target: 100, want: 0.9},
		{name: "upper good band", words: 150, target: 100, want: 0.9},
		{name: "acceptable low", words: 60, target: 100, want: 0.72},
		{name: "acceptable high", words: 180, target: 100, want: 0.72},
		{name: "far too short clamps", words: 20, target: 100, want: 0.5},
		{name: "far too long clamps", words: 300, target: 100, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, QualityScore(words(tt.words), tt.target), 1e-9)
		})
	}

	assert.Equal(t, 0.5, QualityScore("anything", 0))
}
