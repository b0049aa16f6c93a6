package generator

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert content writer. Generate high-quality content based on the provided sources. Return your response in JSON format with the following structure: { "content": string, "outline": { "sections": [{ "title": string, "content": string }] }, "citations": [{ "sourceId": string, "text": string, "context": string }] }`

// BuildPrompt assembles the provider prompt from the source texts and the
// project's generation parameters.
func BuildPrompt(sources []SourceInput, project ProjectSpec) Prompt {
	var texts []string
	for i, source := range sources {
		texts = append(texts, fmt.Sprintf("[Source %d - ID: %s - Type: %s]:\n%s",
			i+1, source.ID, source.SourceType, source.ExtractedText))
	}
	sourceTexts := strings.Join(texts, "\n\n---\n\n")

	user := fmt.Sprintf(`Generate a %[1]s titled %[2]q with the following requirements:

**Content Type:** %[1]s
**Tone:** %[3]s
**Target Length:** Approximately %[4]d words

**Sources to use:**
%[5]s

**Instructions:**
1. Create a well-structured %[1]s using the information from the sources
2. Use a %[3]s tone throughout
3. Include relevant citations to the sources using their IDs
4. Organize the content into clear sections
5. Maintain factual accuracy based on the sources
6. Aim for approximately %[4]d words

Return your response as JSON with the fields content, outline and citations.`,
		project.ContentType, project.Title, project.TonePreference, project.TargetLength, sourceTexts)

	return Prompt{System: systemPrompt, User: user}
}
