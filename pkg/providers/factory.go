package providers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/xqm32/guyubot/pkg/config"
	anthropicprovider "github.com/xqm32/guyubot/pkg/providers/anthropic"
	"github.com/xqm32/guyubot/pkg/providers/openai_sdk"
)

// ErrNoAPIKey is returned when llm.api_key is empty.
var ErrNoAPIKey = errors.New("llm.api_key is not configured")

// CreateProvider builds the provider selected by cfg.Provider. httpClient
// may be nil.
func CreateProvider(cfg config.LLMConfig, httpClient *http.Client) (LLMProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}

	switch cfg.Provider {
	case config.ProviderGateway, "":
		return openai_sdk.NewProvider(cfg.APIKey, cfg.BaseURL,
			openai_sdk.WithDefaultModel(cfg.Model),
			openai_sdk.WithHTTPClient(httpClient),
		), nil
	case config.ProviderAnthropic:
		opts := []anthropicprovider.Option{anthropicprovider.WithDefaultModel(cfg.Model)}
		if httpClient != nil {
			opts = append(opts, anthropicprovider.WithHTTPClient(httpClient))
		}
		return anthropicprovider.NewProvider(cfg.APIKey, anthropicBase(cfg.BaseURL), opts...), nil
	default:
		return nil, fmt.Errorf("unknown llm.provider: %q", cfg.Provider)
	}
}

// Serves reports whether a provider of the given kind can run ref.
// The gateway routes every vendor; the direct Anthropic API only serves its
// own models.
func Serves(providerKind string, ref ModelRef) bool {
	if providerKind != config.ProviderAnthropic {
		return true
	}
	return ref.Vendor == "" || ref.Vendor == "anthropic"
}

// anthropicBase drops the gateway default so a config that only switches
// the provider still reaches api.anthropic.com.
func anthropicBase(base string) string {
	if base == config.DefaultConfig().LLM.BaseURL {
		return ""
	}
	return base
}
