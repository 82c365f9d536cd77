// Package analysis produces written market reports from video content
// using Gemini's multimodal understanding.
package analysis

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"portfolio-reporter/internal/logger"
)

// Analyzer sends public video URLs to Gemini together with an analysis
// prompt and returns the generated markdown.
type Analyzer struct {
	client *genai.Client
	model  string
}

func NewAnalyzer(ctx context.Context, apiKey, model string) (*Analyzer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Analyzer{client: client, model: model}, nil
}

// Analyze asks the model to watch the video at videoURL and produce the
// report the prompt describes. Long videos can take minutes to process.
func (a *Analyzer) Analyze(ctx context.Context, videoURL, prompt string) (string, error) {
	timer := logger.StartOperation(ctx, "analysis.analyze", "model", a.model, "video_url", videoURL)

	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			genai.NewPartFromURI(videoURL, "video/mp4"),
			genai.NewPartFromText(prompt),
		},
	}}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		timer.EndWithError(err)
		return "", fmt.Errorf("generate video analysis: %w", err)
	}

	text := resp.Text()
	if text == "" {
		err := fmt.Errorf("model returned an empty analysis")
		timer.EndWithError(err)
		return "", err
	}

	timer.End("response_chars", len(text))
	return text, nil
}

// Verify issues a minimal text-only generation to prove the API key works.
func (a *Analyzer) Verify(ctx context.Context) error {
	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{genai.NewPartFromText("ping")},
	}}
	if _, err := a.client.Models.GenerateContent(ctx, a.model, contents, nil); err != nil {
		return fmt.Errorf("analysis source verification: %w", err)
	}
	return nil
}
