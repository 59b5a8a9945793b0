package responder

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

type GenAIConfig struct {
	APIKey string
	// Project and Location select the Vertex AI backend when Project is set.
	Project  string
	Location string
	Model    string
}

// GenAI talks to Gemini through google.golang.org/genai.
type GenAI struct {
	client *genai.Client
	model  string
}

func NewGenAI(ctx context.Context, cfg GenAIConfig) (*GenAI, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Project != "" {
		if cfg.Location == "" {
			return nil, errors.New("GCP_LOCATION must be set together with GCP_PROJECT")
		}
		cc = &genai.ClientConfig{
			Project:  cfg.Project,
			Location: cfg.Location,
			Backend:  genai.BackendVertexAI,
		}
	} else if cfg.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY or GCP_PROJECT must be set")
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, errors.Wrap(err, "creating genai client")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GenAI{client: client, model: model}, nil
}

func (g *GenAI) Generate(ctx context.Context, systemInstruction string, turns []Turn) (string, error) {
	contents := toContents(turns)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}

	res, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", errors.Wrap(err, "genai generate content")
	}

	text := res.Text()
	if text == "" {
		return "", errors.New("genai returned empty text")
	}
	return text, nil
}

func toContents(turns []Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		var role genai.Role = genai.RoleUser
		if t.Role == TurnModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}
	return contents
}
