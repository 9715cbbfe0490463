package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminary-labs/donoriq/internal/core/domain"
)

// mockConfigStore is an in-memory driven.ConfigStore.
type mockConfigStore struct {
	values  map[string]any
	setErr  error
	saveErr error
	saves   int
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if s, ok := m.values[key].(string); ok {
		return s
	}
	return ""
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	switch v := m.values[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error {
	m.saves++
	return m.saveErr
}

func (m *mockConfigStore) Load() error { return nil }

func (m *mockConfigStore) Path() string { return "/tmp/config.toml" }

// mockAIValidator records validation calls.
type mockAIValidator struct {
	embeddingErr error
	llmErr       error
	validated    []string
}

func (m *mockAIValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	m.validated = append(m.validated, "embedding")
	return m.embeddingErr
}

func (m *mockAIValidator) ValidateLLM(_ *domain.LLMSettings) error {
	m.validated = append(m.validated, "llm")
	return m.llmErr
}

func TestSettingsGet_Defaults(t *testing.T) {
	svc := NewSettingsService(newMockConfigStore(), nil)

	settings, err := svc.Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.Embedding.Model, settings.Embedding.Model)
	assert.Equal(t, defaults.LLM.Provider, settings.LLM.Provider)
	assert.Empty(t, settings.DefaultOrgID)

	// Unset lifecycle keys read back as zero and default downstream.
	assert.Zero(t, settings.Lifecycle.NewDonorMonths)
}

func TestSettingsGet_StoredValuesWin(t *testing.T) {
	store := newMockConfigStore()
	store.values["embedding.provider"] = "openai"
	store.values["embedding.model"] = "text-embedding-3-small"
	store.values["embedding.api_key"] = "sk-test"
	store.values["lifecycle.major_donor_threshold"] = 10000.0
	store.values["org.default"] = "org-7"
	svc := NewSettingsService(store, nil)

	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", settings.Embedding.Model)
	assert.Equal(t, "sk-test", settings.Embedding.APIKey)
	assert.InDelta(t, 10000, settings.Lifecycle.MajorDonorThreshold, 1e-9)
	assert.Equal(t, "org-7", settings.DefaultOrgID)
}

func TestSettingsGet_UnknownProviderFallsBack(t *testing.T) {
	store := newMockConfigStore()
	store.values["llm.provider"] = "cohere"
	svc := NewSettingsService(store, nil)

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings().LLM.Provider, settings.LLM.Provider)
}

func TestSettingsSaveRoundTrip(t *testing.T) {
	store := newMockConfigStore()
	svc := NewSettingsService(store, nil)

	in := domain.DefaultAppSettings()
	in.DefaultOrgID = "org-1"
	in.LLM.Provider = domain.AIProviderAnthropic
	in.LLM.Model = "claude-sonnet-4-20250514"
	in.LLM.APIKey = "sk-ant-test"
	in.Lifecycle = domain.LifecycleConfig{NewDonorMonths: 3, LapsedMonths: 9, LostMonths: 18, MajorDonorThreshold: 2500}
	in.Accounting.RealmID = "realm-9"

	require.NoError(t, svc.Save(in))
	assert.Equal(t, 1, store.saves)

	out, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, in.DefaultOrgID, out.DefaultOrgID)
	assert.Equal(t, in.LLM.Provider, out.LLM.Provider)
	assert.Equal(t, in.LLM.Model, out.LLM.Model)
	assert.Equal(t, in.Lifecycle, out.Lifecycle)
	assert.Equal(t, "realm-9", out.Accounting.RealmID)
}

func TestSetEmbeddingProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider domain.AIProvider
		apiKey   string
		wantErr  bool
	}{
		{"ollama without key", domain.AIProviderOllama, "", false},
		{"openai with key", domain.AIProviderOpenAI, "sk-test", false},
		{"openai without key", domain.AIProviderOpenAI, "", true},
		{"anthropic without key", domain.AIProviderAnthropic, "", true},
		{"unknown provider", domain.AIProvider("cohere"), "key", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockConfigStore()
			svc := NewSettingsService(store, nil)

			err := svc.SetEmbeddingProvider(tt.provider, "model-x", tt.apiKey)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				assert.Equal(t, 0, store.saves)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.provider.String(), store.GetString("embedding.provider"))
			assert.Equal(t, "model-x", store.GetString("embedding.model"))
			assert.Equal(t, 1, store.saves)
		})
	}
}

func TestSetLLMProviderRequiresKeyForCloud(t *testing.T) {
	svc := NewSettingsService(newMockConfigStore(), nil)

	err := svc.SetLLMProvider(domain.AIProviderAnthropic, "claude-sonnet-4-20250514", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.SetLLMProvider(domain.AIProviderAnthropic, "claude-sonnet-4-20250514", "sk-ant-test")
	assert.NoError(t, err)
}

func TestSetLifecycleConfig(t *testing.T) {
	store := newMockConfigStore()
	svc := NewSettingsService(store, nil)

	t.Run("negative threshold rejected", func(t *testing.T) {
		err := svc.SetLifecycleConfig(domain.LifecycleConfig{NewDonorMonths: -1})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("inverted ordering accepted", func(t *testing.T) {
		// Lapsed beyond lost is odd but legal; the classifier's priority
		// order decides what it means.
		err := svc.SetLifecycleConfig(domain.LifecycleConfig{
			NewDonorMonths: 6, LapsedMonths: 24, LostMonths: 12, MajorDonorThreshold: 5000,
		})
		require.NoError(t, err)
		assert.InDelta(t, 24, store.GetFloat("lifecycle.lapsed_months"), 1e-9)
	})
}

func TestSetDefaultOrg(t *testing.T) {
	store := newMockConfigStore()
	svc := NewSettingsService(store, nil)

	assert.ErrorIs(t, svc.SetDefaultOrg(""), domain.ErrInvalidInput)
	require.NoError(t, svc.SetDefaultOrg("org-3"))
	assert.Equal(t, "org-3", store.GetString("org.default"))
}

func TestValidateConfigs(t *testing.T) {
	t.Run("nil validator is a no-op", func(t *testing.T) {
		svc := NewSettingsService(newMockConfigStore(), nil)
		assert.NoError(t, svc.ValidateEmbeddingConfig())
		assert.NoError(t, svc.ValidateLLMConfig())
	})

	t.Run("validator errors surface", func(t *testing.T) {
		validator := &mockAIValidator{llmErr: errors.New("ping failed")}
		svc := NewSettingsService(newMockConfigStore(), validator)

		assert.NoError(t, svc.ValidateEmbeddingConfig())
		assert.Error(t, svc.ValidateLLMConfig())
		assert.Equal(t, []string{"embedding", "llm"}, validator.validated)
	})
}
