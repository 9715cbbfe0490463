package services

import (
	"fmt"

	"github.com/luminary-labs/donoriq/internal/core/domain"
	"github.com/luminary-labs/donoriq/internal/core/ports/driven"
	"github.com/luminary-labs/donoriq/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDefaultOrg          = "org.default"
	keyEmbedProvider       = "embedding.provider"
	keyEmbedModel          = "embedding.model"
	keyEmbedBaseURL        = "embedding.base_url"
	keyEmbedAPIKey         = "embedding.api_key"
	keyLLMProvider         = "llm.provider"
	keyLLMModel            = "llm.model"
	keyLLMBaseURL          = "llm.base_url"
	keyLLMAPIKey           = "llm.api_key"
	keyLifecycleNew        = "lifecycle.new_donor_months"
	keyLifecycleLapsed     = "lifecycle.lapsed_months"
	keyLifecycleLost       = "lifecycle.lost_months"
	keyLifecycleMajor      = "lifecycle.major_donor_threshold"
	keyAccountingRealm     = "accounting.realm_id"
	keyAccountingClientID  = "accounting.client_id"
	keyAccountingSecret    = "accounting.client_secret"
	keyAccountingRefresh   = "accounting.refresh_token"
	keyAccountingBaseURL   = "accounting.base_url"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		DefaultOrgID: s.configStore.GetString(keyDefaultOrg),
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Lifecycle: domain.LifecycleConfig{
			NewDonorMonths:      s.configStore.GetFloat(keyLifecycleNew),
			LapsedMonths:        s.configStore.GetFloat(keyLifecycleLapsed),
			LostMonths:          s.configStore.GetFloat(keyLifecycleLost),
			MajorDonorThreshold: s.configStore.GetFloat(keyLifecycleMajor),
		},
		Accounting: domain.AccountingSettings{
			RealmID:      s.configStore.GetString(keyAccountingRealm),
			ClientID:     s.configStore.GetString(keyAccountingClientID),
			ClientSecret: s.configStore.GetString(keyAccountingSecret),
			RefreshToken: s.configStore.GetString(keyAccountingRefresh),
			BaseURL:      s.configStore.GetString(keyAccountingBaseURL),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	pairs := []struct {
		key   string
		value any
	}{
		{keyDefaultOrg, settings.DefaultOrgID},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedAPIKey, settings.Embedding.APIKey},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMAPIKey, settings.LLM.APIKey},
		{keyLifecycleNew, settings.Lifecycle.NewDonorMonths},
		{keyLifecycleLapsed, settings.Lifecycle.LapsedMonths},
		{keyLifecycleLost, settings.Lifecycle.LostMonths},
		{keyLifecycleMajor, settings.Lifecycle.MajorDonorThreshold},
		{keyAccountingRealm, settings.Accounting.RealmID},
		{keyAccountingClientID, settings.Accounting.ClientID},
		{keyAccountingSecret, settings.Accounting.ClientSecret},
		{keyAccountingRefresh, settings.Accounting.RefreshToken},
		{keyAccountingBaseURL, settings.Accounting.BaseURL},
	}

	for _, pair := range pairs {
		if err := s.configStore.Set(pair.key, pair.value); err != nil {
			return fmt.Errorf("set %s: %w", pair.key, err)
		}
	}

	return s.configStore.Save()
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: provider %s requires an API key", domain.ErrInvalidInput, provider)
	}

	return s.setAll(map[string]any{
		keyEmbedProvider: provider.String(),
		keyEmbedModel:    model,
		keyEmbedAPIKey:   apiKey,
	})
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: provider %s requires an API key", domain.ErrInvalidInput, provider)
	}

	return s.setAll(map[string]any{
		keyLLMProvider: provider.String(),
		keyLLMModel:    model,
		keyLLMAPIKey:   apiKey,
	})
}

// SetLifecycleConfig overrides the lifecycle classification thresholds.
// The four thresholds are independent; ordering between them is deliberately
// not validated (the classifier's priority order governs).
func (s *SettingsService) SetLifecycleConfig(cfg domain.LifecycleConfig) error {
	if cfg.NewDonorMonths < 0 || cfg.LapsedMonths < 0 || cfg.LostMonths < 0 || cfg.MajorDonorThreshold < 0 {
		return fmt.Errorf("%w: lifecycle thresholds must not be negative", domain.ErrInvalidInput)
	}

	return s.setAll(map[string]any{
		keyLifecycleNew:    cfg.NewDonorMonths,
		keyLifecycleLapsed: cfg.LapsedMonths,
		keyLifecycleLost:   cfg.LostMonths,
		keyLifecycleMajor:  cfg.MajorDonorThreshold,
	})
}

// SetDefaultOrg sets the organisation used when none is passed.
func (s *SettingsService) SetDefaultOrg(orgID string) error {
	if orgID == "" {
		return fmt.Errorf("%w: org id must not be empty", domain.ErrInvalidInput)
	}
	return s.setAll(map[string]any{keyDefaultOrg: orgID})
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

func (s *SettingsService) setAll(pairs map[string]any) error {
	for key, value := range pairs {
		if err := s.configStore.Set(key, value); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return s.configStore.Save()
}

func (s *SettingsService) getString(key, fallback string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return fallback
}

func (s *SettingsService) getProvider(key string, fallback domain.AIProvider) domain.AIProvider {
	v := domain.AIProvider(s.configStore.GetString(key))
	if v.IsValid() {
		return v
	}
	return fallback
}
