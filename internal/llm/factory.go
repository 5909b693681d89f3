package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a provider by name. An empty name means LLM detection
// is disabled and yields (nil, nil).
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return wrap(NewOpenAIProvider(config))
	case "anthropic", "claude":
		return wrap(NewAnthropicProvider(config))
	case "ollama":
		return wrap(NewOllamaProvider(config))
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// wrap keeps a failed constructor's nil pointer out of the interface
func wrap[P Provider](p P, err error) (Provider, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}
