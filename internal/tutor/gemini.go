package tutor

import (
	"context"
	"iter"

	"google.golang.org/genai"
)

const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = 0.7
)

// Gemini streams replies from the Gemini API.
type Gemini struct {
	apiKey      string
	model       string
	temperature float32
}

func NewGemini(apiKey, model string, temperature float32) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{apiKey: apiKey, model: model, temperature: temperature}
}

func (g *Gemini) Stream(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			yield("", err)
			return
		}

		chat, err := client.Chats.Create(ctx, g.model, &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
			Temperature:       genai.Ptr(g.temperature),
		}, toContents(req.History))
		if err != nil {
			yield("", err)
			return
		}

		for resp, err := range chat.SendMessageStream(ctx, genai.Part{Text: req.Message}) {
			if err != nil {
				yield("", err)
				return
			}
			if !yield(resp.Text(), nil) {
				return
			}
		}
	}
}

// toContents maps history onto the two roles the API accepts.
func toContents(history []Turn) []*genai.Content {
	out := make([]*genai.Content, 0, len(history))
	for _, t := range history {
		role := genai.Role(genai.RoleModel)
		if t.Role == RoleUser {
			role = genai.RoleUser
		}
		out = append(out, genai.NewContentFromText(t.Text, role))
	}
	return out
}
