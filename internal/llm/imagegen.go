package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	genai "google.golang.org/genai"
)

const defaultImageModel = "gemini-2.5-flash-image-preview"

// geminiImageGenerator fulfills GenerateImage through the Gemini API,
// since the text provider has no image output.
type geminiImageGenerator struct {
	cli   *genai.Client
	model string
}

func newGeminiImageGeneratorFromEnv(ctx context.Context) (*geminiImageGenerator, error) {
	if strings.TrimSpace(os.Getenv("GEMINI_API_KEY")) == "" {
		return nil, errors.New("GEMINI_API_KEY not configured")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	model := strings.TrimSpace(os.Getenv("QANOON_IMAGE_MODEL"))
	if model == "" {
		model = defaultImageModel
	}
	return &geminiImageGenerator{cli: cli, model: model}, nil
}

func (g *geminiImageGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{ResponseModalities: []string{"TEXT", "IMAGE"}},
	)
	if err != nil {
		return "", terminalError(classifyTransportError(err), err)
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
			}
		}
	}
	return "", fmt.Errorf("%w: no image in generation response", ErrInvalidResponse)
}
