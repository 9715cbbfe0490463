package cli

import (
	"context"
	"errors"

	"github.com/luminary-labs/donoriq/internal/core/domain"
	"github.com/luminary-labs/donoriq/internal/core/ports/driving"
)

// setupTestServices swaps the wired services for mocks and returns a cleanup
// that restores the originals.
func setupTestServices() func() {
	oldSearch := searchService
	oldInsights := insightsService
	oldOutreach := outreachService
	oldSync := giftSyncService
	oldSettings := settingsService
	oldDirectory := donorDirectory
	oldConfig := configStore

	searchService = &mockSearchService{}
	insightsService = &mockInsightsService{}
	outreachService = &mockOutreachService{}
	giftSyncService = &mockGiftSyncService{}
	settingsService = &mockSettingsService{}
	donorDirectory = &mockDonorDirectory{}
	configStore = &mockConfigStore{values: map[string]any{"org.default": "org-1"}}

	return func() {
		searchService = oldSearch
		insightsService = oldInsights
		outreachService = oldOutreach
		giftSyncService = oldSync
		settingsService = oldSettings
		donorDirectory = oldDirectory
		configStore = oldConfig
	}
}

func fv(v float64) *float64 { return &v }

// ==================== Search ====================

type mockSearchService struct{}

func (m *mockSearchService) Search(_ context.Context, _, _ string) (*domain.DonorSearchResult, error) {
	return &domain.DonorSearchResult{
		Donors: []domain.DonorMatch{
			{
				Donor: domain.DonorSummary{
					ID:            "donor-1",
					Name:          "Ada Lovelace",
					Email:         "ada@example.org",
					LifetimeValue: fv(1200),
					LastGiftDate:  "2026-05-01",
				},
				Similarity: fv(0.91),
			},
		},
		Method:         domain.SearchMethodVector,
		VectorCount:    1,
		BestSimilarity: fv(0.91),
		Threshold:      0.3,
	}, nil
}

type mockSearchServiceError struct{}

func (m *mockSearchServiceError) Search(_ context.Context, _, _ string) (*domain.DonorSearchResult, error) {
	return nil, errors.New("mock search error")
}

// ==================== Insights ====================

type mockInsightsService struct{}

func (m *mockInsightsService) TopDonors(_ context.Context, _ string, _ domain.GivingRange) ([]domain.DonorRanking, error) {
	return []domain.DonorRanking{
		{
			Donor: domain.DonorSummary{ID: "donor-1", Name: "Ada Lovelace"},
			Total: 1200,
		},
	}, nil
}

func (m *mockInsightsService) Lifecycle(_ context.Context, _ string) (*domain.LifecycleResult, error) {
	return &domain.LifecycleResult{Stage: domain.StageActive, IsMajorDonor: true}, nil
}

// ==================== Outreach ====================

type mockOutreachService struct{}

func (m *mockOutreachService) DraftLetter(_ context.Context, donorID string, purpose driving.LetterPurpose) (*driving.DraftedLetter, error) {
	return &driving.DraftedLetter{
		DonorID: donorID,
		Purpose: purpose,
		Body:    "Dear Ada Lovelace,\n\nThank you for your generous support.",
		Stage:   domain.StageActive,
	}, nil
}

// ==================== Gift sync ====================

type mockGiftSyncService struct{}

func (m *mockGiftSyncService) Sync(_ context.Context, orgID string) (*driving.SyncReport, error) {
	return &driving.SyncReport{
		OrgID:         orgID,
		GiftsUpserted: 5,
		DonorsTouched: 3,
		DonorsIndexed: 3,
	}, nil
}

func (m *mockGiftSyncService) Reindex(_ context.Context, _ string) (int, error) {
	return 7, nil
}

// ==================== Settings ====================

type mockSettingsService struct{}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	settings.DefaultOrgID = "org-1"
	return settings, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return nil }

func (m *mockSettingsService) SetEmbeddingProvider(_ domain.AIProvider, _, _ string) error {
	return nil
}

func (m *mockSettingsService) SetLLMProvider(_ domain.AIProvider, _, _ string) error {
	return nil
}

func (m *mockSettingsService) SetLifecycleConfig(_ domain.LifecycleConfig) error { return nil }

func (m *mockSettingsService) SetDefaultOrg(_ string) error { return nil }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return nil }

func (m *mockSettingsService) ValidateLLMConfig() error { return nil }

// ==================== Donor directory ====================

type mockDonorDirectory struct{}

func (m *mockDonorDirectory) Add(_ context.Context, donor *domain.Donor) error {
	if donor.ID == "" {
		donor.ID = "donor-new"
	}
	return nil
}

func (m *mockDonorDirectory) Get(_ context.Context, id string) (*domain.Donor, error) {
	if id == "missing" {
		return nil, domain.ErrNotFound
	}
	return &domain.Donor{
		ID:            id,
		OrgID:         "org-1",
		Name:          "Ada Lovelace",
		Email:         "ada@example.org",
		City:          "London",
		LifetimeValue: fv(1200),
		LastGiftDate:  "2026-05-01",
	}, nil
}

func (m *mockDonorDirectory) LogInteraction(_ context.Context, donorID string, _ domain.InteractionKind, _ string) error {
	if donorID == "missing" {
		return domain.ErrNotFound
	}
	return nil
}

func (m *mockDonorDirectory) Timeline(_ context.Context, _ string, _ int) ([]domain.Gift, []domain.Interaction, error) {
	return []domain.Gift{
			{ID: "gift-1", GiftDate: "2026-05-01", Amount: 250, Source: domain.GiftSourceAccounting},
		}, []domain.Interaction{
			{ID: "int-1", Kind: domain.InteractionCall, Summary: "Quarterly check-in"},
		}, nil
}

// ==================== Config store ====================

type mockConfigStore struct {
	values map[string]any
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if v, ok := m.values[key].(string); ok {
		return v
	}
	return ""
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	if v, ok := m.values[key].(float64); ok {
		return v
	}
	return 0
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }

func (m *mockConfigStore) Load() error { return nil }

func (m *mockConfigStore) Path() string { return "" }
