package driving

import "github.com/luminary-labs/donoriq/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLifecycleConfig overrides the lifecycle classification thresholds.
	// Threshold ordering is deliberately not cross-validated.
	SetLifecycleConfig(cfg domain.LifecycleConfig) error

	// SetDefaultOrg sets the organisation used when none is passed.
	SetDefaultOrg(orgID string) error

	// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error
}
