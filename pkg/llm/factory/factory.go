package factory

import (
	"fmt"

	"turbo-notes-be/pkg/llm"
	"turbo-notes-be/pkg/llm/ollama"
	"turbo-notes-be/pkg/llm/openai"
)

// NewCompletionProvider builds a provider for one credential. The generation
// flow calls this per request so a rotated key takes effect immediately.
func NewCompletionProvider(providerType, modelName, baseURL, apiKey string) (llm.CompletionProvider, error) {
	switch providerType {
	case "openai":
		return openai.NewOpenAIProvider(apiKey, baseURL, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
