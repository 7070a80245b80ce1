package ai

import (
	"context"
	"errors"
	"fmt"

	genai "google.golang.org/genai"
)

// Gemini completes requests through the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	// err is a client setup failure, reported by Complete.
	err error
}

// NewGemini creates a Gemini completer. model is used when a Request has no
// model of its own. A missing key or client setup failure is not reported
// here; every Complete call returns it instead. opts adjust the client
// config before it is built (base URL, HTTP client), mostly in tests.
func NewGemini(ctx context.Context, apiKey, model string, opts ...func(*genai.ClientConfig)) *Gemini {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	g := &Gemini{model: model}
	if apiKey == "" {
		g.err = errors.New("missing GEMINI_API_KEY")
		return g
	}
	cc := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	for _, opt := range opts {
		opt(cc)
	}
	g.client, g.err = genai.NewClient(ctx, cc)
	return g
}

func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	if g.err != nil {
		return "", fmt.Errorf("gemini not configured: %w", g.err)
	}
	model := req.Model
	if model == "" {
		model = g.model
	}
	conf := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(maxTokens(req)),
	}
	if req.System != "" {
		conf.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	res, err := g.client.Models.GenerateContent(ctx, model, []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}, conf)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}
	return res.Text(), nil
}
