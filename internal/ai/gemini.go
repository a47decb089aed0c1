package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// Gemini implements TextService on the Google Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return result.Text(), nil
}

func (g *Gemini) SubmissionFeedback(ctx context.Context, assignmentTitle, submissionContent, assignmentType string) (string, error) {
	var prompt string
	if assignmentType == "TRANSLATION" {
		prompt = fmt.Sprintf(`As a teacher, grade this translation assignment %q.
The student's answers are provided as JSON. Compare them against expected translations if possible, or judge the quality of translation.
Student Input: %s
Provide constructive feedback in Korean.`, assignmentTitle, submissionContent)
	} else {
		prompt = fmt.Sprintf(`As a teacher, review the following student submission for the vocabulary assignment %q.
The student's answers are provided as JSON (word-meaning pairs).
Student Input: %s
Provide constructive feedback on their performance in Korean.`, assignmentTitle, submissionContent)
	}
	return g.generate(ctx, prompt)
}

func (g *Gemini) BatchTranslate(ctx context.Context, sentences []string) ([]string, error) {
	if len(sentences) == 0 {
		return nil, nil
	}
	prompt := fmt.Sprintf(`Translate the following English sentences into natural Korean.
Each sentence should be on a new line. Do not add numbering or extra explanations.

Sentences to translate:
%s`, strings.Join(sentences, "\n"))

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return placeholders(len(sentences)), nil
	}

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	out := make([]string, len(sentences))
	for i := range out {
		if i < len(lines) {
			out[i] = lines[i]
		} else {
			out[i] = TranslateFailedPlaceholder
		}
	}
	return out, nil
}
