package embedder

import (
	"fmt"
	"strings"
)

// NewBackend selects an embedding backend.
// Priority:
//  1. Explicit provider name (openai, local)
//  2. OpenAI when an API key is present
//  3. Local offline backend
func NewBackend(provider, apiKey, model string) (Backend, error) {
	switch strings.ToLower(provider) {
	case ProviderOpenAI:
		return NewOpenAIBackend(apiKey, model)
	case ProviderLocal:
		return NewLocalBackend(), nil
	case "":
		if apiKey != "" {
			return NewOpenAIBackend(apiKey, model)
		}
		return NewLocalBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
}
