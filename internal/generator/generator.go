package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// SourceInput is the slice of a source the generator sees.
type SourceInput struct {
	ID            string
	SourceType    string
	OriginalPath  string
	ExtractedText string
}

// ProjectSpec carries the generation parameters of the owning project.
type ProjectSpec struct {
	Title          string
	ContentType    string
	TonePreference string
	TargetLength   int
}

type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Outline struct {
	Sections []Section `json:"sections"`
}

type Citation struct {
	SourceID string `json:"sourceId"`
	Text     string `json:"text"`
	Context  string `json:"context"`
}

// Output is the generator contract: content plus outline, citations, a quality
// score in [0,1] and the wall-clock generation time in milliseconds.
type Output struct {
	Content        string     `json:"content"`
	Outline        Outline    `json:"outline"`
	Citations      []Citation `json:"citations"`
	QualityScore   float64    `json:"qualityScore"`
	GenerationTime int64      `json:"generationTime"`
}

// Generator produces draft content from a project's sources.
type Generator interface {
	Generate(ctx context.Context, sources []SourceInput, project ProjectSpec) (*Output, error)
}

// LLM abstracts the model client so providers can be swapped or mocked.
type LLM interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Prompt is a system/user message pair.
type Prompt struct {
	System string
	User   string
}

var (
	// ErrNoContent is returned when the provider answers with an empty completion.
	ErrNoContent = errors.New("no content generated by provider")
	// ErrBadResponse is returned when the provider response does not match the
	// expected JSON structure.
	ErrBadResponse = errors.New("invalid provider response structure")
)

var _ Generator = (*Service)(nil)

// Service drives a provider LLM and falls back to the deterministic local
// generator on rate-limit or model-not-found errors. With no provider
// configured the fallback serves every call.
type Service struct {
	llm     LLM
	timeout time.Duration
}

func NewService(llm LLM, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Service{llm: llm, timeout: timeout}
}

func (s *Service) Generate(ctx context.Context, sources []SourceInput, project ProjectSpec) (*Output, error) {
	start := time.Now()

	if s.llm == nil {
		logrus.Infof("no provider configured, generating locally: %s", project.Title)
		return Fallback(sources, project, start), nil
	}

	out, err := s.generateWithProvider(ctx, sources, project, start)
	if err != nil {
		// rate-limit and model-not-found recover through the local
		// generator, everything else is fatal to the call
		if IsRetryable(err) {
			logrus.Warnf("provider failed (%v), generating locally: %s", err, project.Title)
			return Fallback(sources, project, start), nil
		}
		return nil, err
	}

	return out, nil
}

func (s *Service) generateWithProvider(ctx context.Context, sources []SourceInput, project ProjectSpec, start time.Time) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.llm.Complete(ctx, BuildPrompt(sources, project))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, ErrNoContent
	}

	parsed, err := parseProviderResponse(raw)
	if err != nil {
		return nil, err
	}

	out := &Output{
		Content:        parsed.Content,
		Outline:        parsed.Outline,
		Citations:      parsed.Citations,
		QualityScore:   QualityScore(parsed.Content, project.TargetLength),
		GenerationTime: time.Since(start).Milliseconds(),
	}
	if out.Citations == nil {
		out.Citations = make([]Citation, 0)
	}

	logrus.Infof("content generated: %s (%dms)", project.Title, out.GenerationTime)

	return out, nil
}

var codeFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// parseProviderResponse unwraps an optional markdown code fence and decodes
// the JSON payload the prompt asks for.
func parseProviderResponse(raw string) (*Output, error) {
	payload := raw
	if m := codeFenceRe.FindStringSubmatch(raw); len(m) == 2 {
		payload = m[1]
	}

	var parsed Output
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if parsed.Content == "" || len(parsed.Outline.Sections) == 0 {
		return nil, ErrBadResponse
	}

	return &parsed, nil
}
