package openai

import (
	"context"
	"fmt"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const reviewPrompt = `You are a professional portfolio analyst reviewing a self-directed equity fund that is tracked against a benchmark index. You will receive a performance summary and a metrics table.

Your response must follow this exact structure:

**Performance:**
[How the fund did against the benchmark, in plain terms]

**Risk:**
[What the Sharpe ratio, beta, volatility and drawdown say about the risk taken]

**Holdings:**
[Which positions drove the result, using alpha, beta and share of value]

**Watch Points:**
[Concentration, cash drag, or holdings whose risk looks out of line]

Guidelines:
- Use only the figures provided; do not invent prices or news
- "N/A" means not applicable and "n/c" means not computable; do not treat them as zero
- Keep it under 250 words and format with bullet points where appropriate
- Do not give buy or sell instructions`

// Reviewer asks a chat model for commentary on a fund report.
type Reviewer struct {
	cli   oa.Client
	model string
}

func NewReviewer(apiKey, model string, opts ...option.RequestOption) *Reviewer {
	if model == "" {
		model = "gpt-4"
	}
	client := oa.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &Reviewer{cli: client, model: model}
}

func (r *Reviewer) Review(ctx context.Context, metricsMarkdown, summaryMarkdown string) (string, error) {
	report := sanitize(summaryMarkdown + "\n\n" + metricsMarkdown)
	if report == "" {
		return "", fmt.Errorf("nothing to review")
	}
	resp, err := r.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: oa.ChatModel(r.model),
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(reviewPrompt),
			oa.UserMessage("Review this fund report:\n\n" + report),
		},
		MaxTokens: oa.Int(1500), // Limit response length for telegram
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
