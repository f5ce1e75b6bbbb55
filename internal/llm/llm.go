// File path: internal/llm/llm.go
package llm

import (
	"errors"
	"os"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/ametcalf/busshift/internal/common"
	"github.com/ametcalf/busshift/internal/llm/providers"
)

type Message = providers.Message

type Provider = providers.Provider

// Options overrides the environment-derived provider configuration. Zero
// values defer to AI_API_KEY, AI_ENDPOINT_URL, AI_MODEL, AI_API_VERSION and
// AI_HTTP_TIMEOUT.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	APIVersion string
}

// NewProvider selects a provider from the environment: OpenAI-compatible
// when an API key is configured, otherwise the local stub.
func NewProvider() Provider {
	return NewProviderWithOptions(Options{})
}

func NewProviderWithOptions(opts Options) Provider {
	logger := common.Logger()

	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("AI_API_KEY"))
	}
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	if apiKey == "" {
		logger.Warn("llm: no API key configured; falling back to local provider")
		return providers.NewLocalProvider()
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(apiKey)}

	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = strings.TrimSpace(os.Getenv("AI_ENDPOINT_URL"))
	}
	if baseURL != "" {
		logger.Info("llm: using custom endpoint", "endpoint", baseURL)
		clientOpts = append(clientOpts, option.WithBaseURL(baseURL))
	}

	// Azure-style proxies want the api-version on every request.
	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = strings.TrimSpace(os.Getenv("AI_API_VERSION"))
	}
	if apiVersion != "" && wantsAPIVersion(baseURL) {
		clientOpts = append(clientOpts, option.WithHeader("api-version", apiVersion))
	}

	if timeoutStr := strings.TrimSpace(os.Getenv("AI_HTTP_TIMEOUT")); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			logger.Warn("llm: invalid AI_HTTP_TIMEOUT, using default", "value", timeoutStr, "error", err)
		} else {
			clientOpts = append(clientOpts, option.WithRequestTimeout(timeout))
		}
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = strings.TrimSpace(os.Getenv("AI_MODEL"))
	}

	client := openai.NewClient(clientOpts...)
	logger.Info("llm: OpenAI provider selected")
	return providers.NewOpenAIProvider(client, model)
}

func wantsAPIVersion(baseURL string) bool {
	lower := strings.ToLower(baseURL)
	return strings.Contains(lower, "azure") || strings.Contains(lower, "epam")
}

// NormalizeMessages lowercases roles and rejects empty exchanges.
func NormalizeMessages(messages []Message) ([]Message, error) {
	if len(messages) == 0 {
		return nil, errors.New("no messages provided")
	}
	for i := range messages {
		messages[i].Role = strings.ToLower(messages[i].Role)
	}
	return messages, nil
}
