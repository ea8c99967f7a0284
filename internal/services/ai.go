package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client *openai.Client
}

type DraftedProposal struct {
	Title           string `json:"title"`
	Details         string `json:"details"`
	AmountRequested uint64 `json:"amount_requested"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// DraftProposalsFromText turns a free-form funding pitch into structured
// proposal drafts using OpenAI GPT
func (s *AIService) DraftProposalsFromText(ctx context.Context, text string) ([]DraftedProposal, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You are a drafting assistant for a member-run organization.
Extract concrete spending proposals from the text below.

Text:
%s

Return a JSON array of drafts in exactly this shape:
[
  {
    "title": "short proposal title",
    "details": "what the money is for and why",
    "amount_requested": 100
  }
]

Rules:
- Return an empty array [] when the text contains no fundable request
- amount_requested must be a non-negative integer; use 0 when no amount is stated
- Return only JSON, no explanations`, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var drafts []DraftedProposal
	if err := json.Unmarshal([]byte(content), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return drafts, nil
}
