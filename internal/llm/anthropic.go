package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultModel   = string(anthropic.ModelClaudeSonnet4_20250514)
	defaultTimeout = 30 * time.Second
	maxRetries     = 3
	baseBackoff    = 1 * time.Second
	maxTokens      = 4096
)

const visionSystemPrompt = "You are assisting a legal-intake service in Qatar. Describe uploaded images factually and transcribe text exactly. Do not speculate beyond what is visible."

type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicClientCreator func(apiKey string) AnthropicMessager

func defaultAnthropicCreator(apiKey string) AnthropicMessager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

var newAnthropicClient AnthropicClientCreator = defaultAnthropicCreator

// ImageGenerator produces a base64-encoded image for a prompt. The
// Anthropic API does not generate images, so this is a separate provider
// seam (Gemini in production, a fake in tests).
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client is the production Gateway: Anthropic for text and vision, an
// optional ImageGenerator for image output.
type Client struct {
	messages AnthropicMessager
	images   ImageGenerator
	model    string
	timeout  time.Duration
	backoff  time.Duration
	sleep    func(time.Duration)
}

func NewClientFromEnv(ctx context.Context) (*Client, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	model := strings.TrimSpace(os.Getenv("QANOON_LLM_MODEL"))
	if model == "" {
		model = defaultModel
	}
	c := &Client{
		messages: newAnthropicClient(apiKey),
		model:    model,
		timeout:  defaultTimeout,
		backoff:  baseBackoff,
		sleep:    time.Sleep,
	}
	if gen, err := newGeminiImageGeneratorFromEnv(ctx); err != nil {
		log.Printf("qanoon llm image_generation_disabled err=%q", err.Error())
	} else {
		c.images = gen
	}
	return c, nil
}

func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	if err := validateMessages(messages); err != nil {
		return "", err
	}
	return c.send(ctx, c.buildParams(messages))
}

func (c *Client) CompleteWithImage(ctx context.Context, imageB64, promptKey string) (string, error) {
	if strings.TrimSpace(imageB64) == "" {
		return "", fmt.Errorf("%w: empty image payload", ErrInvalidRequest)
	}
	prompt, ok := visionPrompts[promptKey]
	if !ok {
		return "", fmt.Errorf("%w: unknown vision prompt key %q", ErrInvalidRequest, promptKey)
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		System:    []anthropic.TextBlockParam{{Text: visionSystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64("image/jpeg", imageB64),
				anthropic.NewTextBlock(prompt),
			),
		},
	}
	return c.send(ctx, params)
}

func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: empty image prompt", ErrInvalidRequest)
	}
	if c.images == nil {
		return "", fmt.Errorf("%w: image generation not configured", ErrInvalidRequest)
	}
	return c.images.Generate(ctx, prompt)
}

// send performs the provider call with a bounded timeout, retrying only
// server-side failures. The backoff grows linearly with the attempt number.
func (c *Client) send(ctx context.Context, params anthropic.MessageNewParams) (string, error) {
	ctx, span := otel.Tracer("qanoon/llm").Start(ctx, "llm.complete",
		trace.WithAttributes(attribute.String("llm.model", c.model)))
	defer span.End()

	var lastErr error
	for attempt := 1; attempt <= maxRetries+1; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.messages.New(callCtx, params)
		cancel()
		if err != nil {
			class := classifyTransportError(err)
			if class.retryable() && attempt <= maxRetries {
				log.Printf("qanoon llm retry attempt=%d err=%q", attempt, err.Error())
				lastErr = err
				c.sleep(c.backoff * time.Duration(attempt))
				continue
			}
			return "", terminalError(class, err)
		}
		text := textContent(resp)
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("%w: empty completion body", ErrInvalidResponse)
		}
		return text, nil
	}
	return "", joinErr(ErrUpstreamUnavailable, lastErr)
}

func (c *Client) buildParams(messages []Message) anthropic.MessageNewParams {
	var system []anthropic.TextBlockParam
	var turns []anthropic.MessageParam
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case RoleUser:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case RoleAssistant:
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   maxTokens,
		System:      system,
		Messages:    turns,
		Temperature: anthropic.Float(0.3),
	}
}

func textContent(resp *anthropic.Message) string {
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}
