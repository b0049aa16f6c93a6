package generator

import (
	"fmt"
	"strings"
	"time"
)

// Fallback synthesizes an article from the concatenated source text without
// touching the network. It always succeeds, so it is safe as the recovery
// path for rate-limited providers.
func Fallback(sources []SourceInput, project ProjectSpec, start time.Time) *Output {
	var texts []string
	for _, source := range sources {
		texts = append(texts, source.ExtractedText)
	}

	keyPoints := extractKeyPoints(strings.Join(texts, " "), 5)
	content := buildArticle(project, keyPoints)

	citations := make([]Citation, 0, len(sources))
	for i, source := range sources {
		citations = append(citations, Citation{
			SourceID: source.ID,
			Text:     excerpt(source.ExtractedText, 100),
			Context:  fmt.Sprintf("Referenced from source %d", i+1),
		})
	}

	return &Output{
		Content:        content,
		Outline:        buildOutline(project),
		Citations:      citations,
		QualityScore:   QualityScore(content, project.TargetLength),
		GenerationTime: time.Since(start).Milliseconds(),
	}
}

// extractKeyPoints keeps the first limit sentences longer than 20 characters.
func extractKeyPoints(text string, limit int) []string {
	var points []string
	for _, sentence := range strings.Split(text, ".") {
		if len(strings.TrimSpace(sentence)) > 20 {
			points = append(points, sentence)
		}
		if len(points) == limit {
			break
		}
	}
	return points
}

func buildArticle(project ProjectSpec, keyPoints []string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s is an important topic that deserves careful consideration. This %s explores the key aspects and implications based on available research.",
		project.Title, project.ContentType))

	for i, point := range keyPoints {
		sb.WriteString(fmt.Sprintf(`

Section %d: Key Insight

%s. This represents a significant finding in our analysis. When examining this data, several important patterns emerge that warrant further investigation.

The implications of this are far-reaching. According to research, this trend continues to impact various stakeholders and requires thoughtful consideration when developing strategies and solutions.

Furthermore, additional context reveals that these patterns align with broader industry trends and emerging best practices in the field.`,
			i+1, strings.TrimSpace(point)))
	}

	sb.WriteString(fmt.Sprintf(`

Conclusion

In summary, %s presents both challenges and opportunities. The evidence suggests that continued research and thoughtful implementation of solutions will be essential moving forward. Stakeholders should consider these findings when making decisions and developing future strategies.

The data presented here provides a foundation for further exploration and highlights the need for ongoing monitoring of developments in this area.`,
		project.Title))

	return sb.String()
}

func buildOutline(project ProjectSpec) Outline {
	return Outline{
		Sections: []Section{
			{Title: "Introduction", Content: fmt.Sprintf("Overview of %s and its significance", project.Title)},
			{Title: "Key Insights", Content: "Analysis of main findings and patterns"},
			{Title: "Implications", Content: "Impact and consequences of the findings"},
			{Title: "Conclusion", Content: "Summary and recommendations"},
		},
	}
}

// excerpt truncates on a rune boundary so multi-byte text stays valid UTF-8.
func excerpt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text + "..."
	}
	return string(runes[:limit]) + "..."
}

// QualityScore rates generated content by how close its word count lands to
// the target length: 1.0 within the [0.8, 1.5) ratio band, 0.8 within
// [0.5, 2.0], else 0.5, damped by 0.9 and clamped to [0.5, 1.0].
func QualityScore(content string, targetLength int) float64 {
	if targetLength <= 0 {
		return 0.5
	}

	wordCount := len(strings.Fields(content))
	ratio := float64(wordCount) / float64(targetLength)

	score := 1.0
	if ratio < 0.5 || ratio > 2 {
		score = 0.5
	} else if ratio < 0.8 || ratio > 1.5 {
		score = 0.8
	}

	score *= 0.9
	if score < 0.5 {
		return 0.5
	}
	if score > 1 {
		return 1
	}
	return score
}
