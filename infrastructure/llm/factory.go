package llm

import (
	"fmt"

	"ontologykg/application/ports"
	"ontologykg/infrastructure/config"
)

// New selects the provider variant named by cfg.Provider. This is the
// only place the closed sum type is switched on by name; every caller
// downstream holds a ports.LLMProvider.
func New(cfg config.LLMConfig) (ports.LLMProvider, error) {
	switch cfg.Provider {
	case "", "mock":
		return NewMock(), nil
	case "anthropic":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("llm provider %q requires an API key", cfg.Provider)
		}
		return NewAnthropic(cfg.APIKey, cfg.Model), nil
	case "ollama":
		return NewOllama(cfg.BaseURL, cfg.Model), nil
	case "local":
		return NewLocal(cfg.BaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
