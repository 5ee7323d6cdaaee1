package main

import (
	"fmt"

	"github.com/fwojciec/scribe"
	"github.com/fwojciec/scribe/anthropic"
	"github.com/fwojciec/scribe/gemini"
	"github.com/fwojciec/scribe/openai"
	"github.com/fwojciec/scribe/yaml"
)

const (
	providerOpenAI    = "openai"
	providerAnthropic = "anthropic"
	providerGemini    = "gemini"
)

// keyEnvVar returns the environment variable holding the provider's key.
func keyEnvVar(provider string) string {
	switch provider {
	case providerAnthropic:
		return "ANTHROPIC_API_KEY"
	case providerGemini:
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// newGenerator constructs the backend for provider. Empty model and baseURL
// select the backend defaults.
func newGenerator(provider, model, baseURL string) (scribe.Generator, error) {
	switch provider {
	case providerOpenAI:
		var opts []openai.Option
		if model != "" {
			opts = append(opts, openai.WithModel(model))
		}
		if baseURL != "" {
			opts = append(opts, openai.WithBaseURL(baseURL))
		}
		return openai.New(opts...), nil
	case providerAnthropic:
		var opts []anthropic.Option
		if model != "" {
			opts = append(opts, anthropic.WithModel(model))
		}
		if baseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(baseURL))
		}
		return anthropic.New(opts...), nil
	case providerGemini:
		var opts []gemini.Option
		if model != "" {
			opts = append(opts, gemini.WithModel(model))
		}
		if baseURL != "" {
			opts = append(opts, gemini.WithBaseURL(baseURL))
		}
		return gemini.New(opts...), nil
	default:
		return nil, fmt.Errorf("unknown provider %q: must be \"openai\", \"anthropic\" or \"gemini\"", provider)
	}
}

// resolveKey picks the credential: explicit flag, then the options file,
// then the provider's environment variable value.
func resolveKey(provider, flagKey, optionsKey, envKey string) (string, error) {
	switch {
	case flagKey != "":
		return flagKey, nil
	case optionsKey != "":
		return optionsKey, nil
	case envKey != "":
		return envKey, nil
	}
	return "", fmt.Errorf("%s not set (use --api-key flag or environment variable): %w", keyEnvVar(provider), scribe.ErrMissingCredential)
}

// loadPrices overlays the price files matched by pattern on the built-in
// table.
func loadPrices(pattern string) (scribe.PriceTable, error) {
	prices := scribe.DefaultPrices()
	if pattern == "" {
		return prices, nil
	}
	overrides, err := yaml.LoadPriceGlob(pattern)
	if err != nil {
		return nil, err
	}
	return prices.Merge(overrides), nil
}
