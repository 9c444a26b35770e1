package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

// GeminiProvider adapts a Gemini model to the Client interface so the
// orchestrator stays backend-agnostic. System messages become the model's
// system instruction; the remaining messages are folded into a single user
// prompt.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider dials the Gemini API. Callers own the provider and must
// Close it when done.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: api key is empty")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("gemini: model name is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiProvider{client: cl, model: strings.TrimSpace(model)}, nil
}

func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

func (p *GeminiProvider) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m := p.client.GenerativeModel(p.model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}

	var sys, user []string
	for _, msg := range request.Messages {
		if msg.Role == openai.ChatMessageRoleSystem {
			sys = append(sys, msg.Content)
			continue
		}
		user = append(user, msg.Content)
	}
	if len(sys) > 0 {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(strings.Join(sys, "\n"))},
		}
	}

	resp, err := m.GenerateContent(ctx, genai.Text(strings.Join(user, "\n")))
	if err != nil {
		return openai.ChatCompletionResponse{}, err
	}
	txt := firstText(resp)
	if txt == "" {
		return openai.ChatCompletionResponse{}, errors.New("gemini: empty response")
	}
	return openai.ChatCompletionResponse{
		Model: p.model,
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: txt,
			},
		}},
	}, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range c.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			return s
		}
	}
	return ""
}

func ptrFloat32(f float32) *float32 { return &f }
