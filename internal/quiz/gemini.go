package quiz

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

// Gemini implements Generator against the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Gemini{client: c, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, system, user string) (string, error) {
	full := user
	if system != "" {
		full = system + "\n\n" + user
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(full), nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text()), nil
}
