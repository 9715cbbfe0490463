package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/luminary-labs/donoriq/internal/core/domain"
	"github.com/luminary-labs/donoriq/internal/core/ports/driven"
)

// --- Mock implementations shared across the service tests ---

// mockDonorStore implements driven.DonorStore for testing.
type mockDonorStore struct {
	mu      sync.Mutex
	donors  map[string]*domain.Donor
	derived map[string][2]any // donorID -> [lifetimeValue, lastGiftDate]

	fallbackRows []domain.DonorSummary
	fallbackErr  error
	fallbackHits int

	listIDsErr   error
	summariesErr error
	topErr       error

	summariesCalls [][]string
}

func newMockDonorStore(donors ...*domain.Donor) *mockDonorStore {
	m := &mockDonorStore{
		donors:  make(map[string]*domain.Donor),
		derived: make(map[string][2]any),
	}
	for _, d := range donors {
		m.donors[d.ID] = d
	}
	return m
}

func (m *mockDonorStore) Save(_ context.Context, donor *domain.Donor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *donor
	m.donors[donor.ID] = &copied
	return nil
}

func (m *mockDonorStore) Get(_ context.Context, id string) (*domain.Donor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	donor, ok := m.donors[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *donor
	return &copied, nil
}

func (m *mockDonorStore) ListIDs(_ context.Context, orgID string) ([]string, error) {
	if m.listIDsErr != nil {
		return nil, m.listIDsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, d := range m.donors {
		if d.OrgID == orgID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockDonorStore) Summaries(_ context.Context, ids []string) ([]domain.DonorSummary, error) {
	m.mu.Lock()
	m.summariesCalls = append(m.summariesCalls, ids)
	m.mu.Unlock()
	if m.summariesErr != nil {
		return nil, m.summariesErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DonorSummary
	for _, id := range ids {
		if d, ok := m.donors[id]; ok {
			out = append(out, d.Summary())
		}
	}
	return out, nil
}

func (m *mockDonorStore) FindByNameOrEmailLike(_ context.Context, pattern, orgID string, limit int) ([]domain.DonorSummary, error) {
	m.mu.Lock()
	m.fallbackHits++
	m.mu.Unlock()
	if m.fallbackErr != nil {
		return nil, m.fallbackErr
	}
	_ = pattern
	_ = orgID
	if limit < len(m.fallbackRows) {
		return m.fallbackRows[:limit], nil
	}
	return m.fallbackRows, nil
}

func (m *mockDonorStore) TopByLifetimeValue(_ context.Context, orgID string, limit int) ([]domain.DonorSummary, error) {
	if m.topErr != nil {
		return nil, m.topErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DonorSummary
	for _, d := range m.donors {
		if d.OrgID == orgID {
			out = append(out, d.Summary())
		}
	}
	// Lifetime value descending, unknown values last, id ascending on ties.
	sort.Slice(out, func(i, j int) bool {
		vi, vj := out[i].LifetimeValue, out[j].LifetimeValue
		switch {
		case vi == nil && vj == nil:
			return out[i].ID < out[j].ID
		case vi == nil:
			return false
		case vj == nil:
			return true
		case *vi != *vj:
			return *vi > *vj
		default:
			return out[i].ID < out[j].ID
		}
	})
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockDonorStore) UpdateDerived(_ context.Context, donorID string, lifetimeValue float64, lastGiftDate string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.derived[donorID] = [2]any{lifetimeValue, lastGiftDate}
	if d, ok := m.donors[donorID]; ok {
		v := lifetimeValue
		d.LifetimeValue = &v
		d.LastGiftDate = lastGiftDate
	}
	return nil
}

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	mu        sync.Mutex
	hits      []driven.DonorHit
	matchErr  error
	upserts   map[string][]float32
	matchHits int
}

func newMockVectorIndex(hits ...driven.DonorHit) *mockVectorIndex {
	return &mockVectorIndex{hits: hits, upserts: make(map[string][]float32)}
}

func (m *mockVectorIndex) Upsert(_ context.Context, donorID, _ string, embedding []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts[donorID] = embedding
	return nil
}

func (m *mockVectorIndex) Delete(_ context.Context, _ string) error {
	return nil
}

func (m *mockVectorIndex) MatchDonors(_ context.Context, _ []float32, _ float64, limit int, _ string) ([]driven.DonorHit, error) {
	m.mu.Lock()
	m.matchHits++
	m.mu.Unlock()
	if m.matchErr != nil {
		return nil, m.matchErr
	}
	if limit < len(m.hits) {
		return m.hits[:limit], nil
	}
	return m.hits, nil
}

func (m *mockVectorIndex) Close() error {
	return nil
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	mu        sync.Mutex
	embedding []float32
	embedErr  error
	embedHits int
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	m.mu.Lock()
	m.embedHits++
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = m.embedding
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int { return len(m.embedding) }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

// mockGiftStore implements driven.GiftStore for testing. The lookup
// behaviour is a hook so tests can fail selected batches.
type mockGiftStore struct {
	mu        sync.Mutex
	giftsFn   func(donorIDs []string, cutoff string) ([]driven.GiftRow, error)
	batches   [][]string
	upserted  []domain.Gift
	upsertErr error
	giftsList []domain.Gift
	listErr   error
}

func (m *mockGiftStore) UpsertBatch(_ context.Context, gifts []domain.Gift) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserted = append(m.upserted, gifts...)
	return nil
}

func (m *mockGiftStore) GiftsForDonors(_ context.Context, donorIDs []string, cutoff string) ([]driven.GiftRow, error) {
	m.mu.Lock()
	m.batches = append(m.batches, donorIDs)
	m.mu.Unlock()
	if m.giftsFn == nil {
		return nil, nil
	}
	return m.giftsFn(donorIDs, cutoff)
}

func (m *mockGiftStore) ListForDonor(_ context.Context, donorID string, limit int) ([]domain.Gift, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.Gift
	for _, g := range m.giftsList {
		if g.DonorID == donorID {
			out = append(out, g)
		}
	}
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// mockInteractionStore implements driven.InteractionStore for testing.
type mockInteractionStore struct {
	mu        sync.Mutex
	appended  []domain.Interaction
	appendErr error
}

func (m *mockInteractionStore) Append(_ context.Context, interaction domain.Interaction) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appended = append(m.appended, interaction)
	return nil
}

func (m *mockInteractionStore) ListForDonor(_ context.Context, donorID string, limit int) ([]domain.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Interaction
	for _, i := range m.appended {
		if i.DonorID == donorID {
			out = append(out, i)
		}
	}
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	response   string
	genErr     error
	lastPrompt string
	lastOpts   driven.GenerateOptions
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.lastPrompt = prompt
	m.lastOpts = opts
	if m.genErr != nil {
		return "", m.genErr
	}
	return m.response, nil
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
}

func newMockPromptStore() *mockPromptStore {
	return &mockPromptStore{prompts: map[string]string{
		driven.PromptLetterSystem:   "You draft donor letters.",
		driven.PromptThankYouLetter: "Write a thank-you letter.\n%s",
		driven.PromptAppealLetter:   "Write an appeal letter.\n%s",
	}}
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", domain.ErrNotFound
}

func (m *mockPromptStore) Reload() {}

// mockSyncStateStore implements driven.SyncStateStore for testing.
type mockSyncStateStore struct {
	mu     sync.Mutex
	states map[string]domain.SyncState
}

func newMockSyncStateStore() *mockSyncStateStore {
	return &mockSyncStateStore{states: make(map[string]domain.SyncState)}
}

func (m *mockSyncStateStore) Save(_ context.Context, state domain.SyncState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.OrgID] = state
	return nil
}

func (m *mockSyncStateStore) Get(_ context.Context, orgID string) (*domain.SyncState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.states[orgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &state, nil
}

// mockAccountingGateway implements driven.AccountingGateway for testing.
// Pages are keyed by the cursor that requests them; "" fetches the first.
type mockAccountingGateway struct {
	pages    map[string]*driven.GiftPage
	fetchErr error
	fetches  int
}

func (m *mockAccountingGateway) FetchGifts(_ context.Context, cursor string) (*driven.GiftPage, error) {
	m.fetches++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if page, ok := m.pages[cursor]; ok {
		return page, nil
	}
	return &driven.GiftPage{}, nil
}

func (m *mockAccountingGateway) Ping(_ context.Context) error { return nil }

// batchContains reports whether any recorded batch includes the donor id.
func batchContains(batches [][]string, id string) bool {
	for _, batch := range batches {
		for _, b := range batch {
			if strings.EqualFold(b, id) {
				return true
			}
		}
	}
	return false
}
