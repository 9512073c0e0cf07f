package openaillm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/banglaqa/GoPDFQA/internal/config"
	"github.com/banglaqa/GoPDFQA/internal/customHttpClient"
	"github.com/banglaqa/GoPDFQA/internal/rag/llm"
	"github.com/banglaqa/GoPDFQA/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var openaiClient *llmClient
var once sync.Once

type llmClient struct {
	client    openai.Client
	modelName string
}

// GetOpenAIClient creates the completion client at most once per process.
// Returns nil when no credential is configured.
func GetOpenAIClient(apikey string, modelName string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		newOpenAIClient(apikey, modelName)
	})

	if openaiClient == nil {
		return nil
	}
	return openaiClient
}

func newOpenAIClient(apikey string, modelName string) {
	if apikey == "" {
		logger.Error("OPENAI_API_KEY is not set, answer generation disabled")
		return
	}
	c := openai.NewClient(
		option.WithAPIKey(apikey),
		option.WithHTTPClient(customHttpClient.Pooled()),
	)
	openaiClient = &llmClient{client: c, modelName: modelName}
	logger.Info("OpenAI client created", "model", modelName)
}

// Generate assembles the Bangla prompt around the retrieved context and
// submits it with a low temperature so answers stay close to the document.
func (c *llmClient) Generate(ctx context.Context, question string, contextChunks []string) (string, error) {
	prompt := buildPrompt(question, contextChunks)

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(config.ModelContext),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(config.ModelTemperature),
		MaxTokens:   openai.Int(config.ModelMaxOutputTokens),
	})
	if err != nil {
		logger.Error("Completion call failed", "error", err)
		return "", fmt.Errorf("completion service: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion service returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildPrompt(question string, contextChunks []string) string {
	contextText := strings.Join(contextChunks, "\n\n")
	return fmt.Sprintf("নিচের প্রসঙ্গ ব্যবহার করে প্রশ্নের উত্তর দাও:\n\nপ্রসঙ্গ:\n%s\n\nপ্রশ্ন: %s\nউত্তর:", contextText, question)
}
