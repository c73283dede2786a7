// Package format renders weather reports into Japanese answer text.
package format

import (
	"context"
	"encoding/json"
	"log"

	"github.com/openai/openai-go"

	"github.com/Hiro-Kanda/AeroCast-Engine/internal/weather"
)

const systemPrompt = "あなたは天気情報を分かりやすく説明するアシスタントです。" +
	"与えられた情報をそのまま説明してください。" +
	"新しい判断や推測は行わないでください。"

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4.1-mini"

// OpenAIFormatter renders reports through the chat completions API. Any API
// failure, empty response, or output-guard violation falls back to the
// deterministic formatter, so Format never fails.
type OpenAIFormatter struct {
	client openai.Client
	model  string
}

// NewOpenAIFormatter creates a formatter. The client reads its API key from
// the environment.
func NewOpenAIFormatter(model string) *OpenAIFormatter {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIFormatter{
		client: openai.NewClient(),
		model:  model,
	}
}

// Format renders the report as natural language.
func (f *OpenAIFormatter) Format(ctx context.Context, report weather.Report) string {
	payload, err := json.Marshal(report.Flatten())
	if err != nil {
		return SimpleFormat(report)
	}

	resp, err := f.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(f.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(string(payload)),
		},
		Temperature: openai.Float(0.3),
	})
	if err != nil {
		log.Printf("WARN: formatter API call failed, using fallback: %v", err)
		return SimpleFormat(report)
	}
	if len(resp.Choices) == 0 {
		log.Printf("WARN: formatter returned no choices, using fallback")
		return SimpleFormat(report)
	}

	text := resp.Choices[0].Message.Content
	if err := ValidateOutput(text); err != nil {
		log.Printf("WARN: formatter output rejected, using fallback: %v", err)
		return SimpleFormat(report)
	}
	return text
}
