package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/luminary-labs/donoriq/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/luminary-labs/donoriq/internal/core/domain"
	"github.com/luminary-labs/donoriq/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all persistence interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.donoriq/data/donoriq.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".donoriq", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "donoriq.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DonorStore returns a DonorStore interface backed by this store.
func (s *Store) DonorStore() driven.DonorStore {
	return &donorStore{store: s}
}

// GiftStore returns a GiftStore interface backed by this store.
func (s *Store) GiftStore() driven.GiftStore {
	return &giftStore{store: s}
}

// InteractionStore returns an InteractionStore interface backed by this store.
func (s *Store) InteractionStore() driven.InteractionStore {
	return &interactionStore{store: s}
}

// SyncStateStore returns a SyncStateStore interface backed by this store.
func (s *Store) SyncStateStore() driven.SyncStateStore {
	return &syncStateStore{store: s}
}

// VectorIndex returns a VectorIndex interface backed by this store.
func (s *Store) VectorIndex() driven.VectorIndex {
	return &vectorIndex{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Donor Store ====================

// donorStore implements driven.DonorStore.
type donorStore struct {
	store *Store
}

var _ driven.DonorStore = (*donorStore)(nil)

// Save stores or updates a donor.
func (s *donorStore) Save(ctx context.Context, donor *domain.Donor) error {
	query := `
		INSERT INTO donors (id, org_id, name, email, address, city, state, notes,
			lifetime_value, last_gift_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			org_id = excluded.org_id,
			name = excluded.name,
			email = excluded.email,
			address = excluded.address,
			city = excluded.city,
			state = excluded.state,
			notes = excluded.notes,
			lifetime_value = excluded.lifetime_value,
			last_gift_date = excluded.last_gift_date,
			updated_at = excluded.updated_at
	`

	_, err := s.store.db.ExecContext(ctx, query,
		donor.ID, donor.OrgID, donor.Name, donor.Email, donor.Address,
		donor.City, donor.State, donor.Notes, nullFloat(donor.LifetimeValue),
		donor.LastGiftDate, donor.CreatedAt, donor.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving donor: %w", err)
	}

	return nil
}

// Get retrieves a donor by id.
func (s *donorStore) Get(ctx context.Context, id string) (*domain.Donor, error) {
	query := `
		SELECT id, org_id, name, email, address, city, state, notes,
			lifetime_value, last_gift_date, created_at, updated_at
		FROM donors WHERE id = ?
	`

	return scanDonor(s.store.db.QueryRowContext(ctx, query, id))
}

// ListIDs returns all donor ids for an organisation.
func (s *donorStore) ListIDs(ctx context.Context, orgID string) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT id FROM donors WHERE org_id = ? ORDER BY id", orgID)
	if err != nil {
		return nil, fmt.Errorf("querying donor ids: %w", err)
	}
	defer rows.Close()

	var ids []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning donor id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Summaries resolves display projections for exactly the given ids.
func (s *donorStore) Summaries(ctx context.Context, ids []string) ([]domain.DonorSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT id, name, email, lifetime_value, last_gift_date
		FROM donors WHERE id IN (%s)
	`, placeholders(len(ids)))

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying donor summaries: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// FindByNameOrEmailLike performs a case-insensitive literal substring match
// on display name or email, ordered by lifetime value descending with
// unknown values last.
func (s *donorStore) FindByNameOrEmailLike(ctx context.Context, pattern, orgID string, limit int) ([]domain.DonorSummary, error) {
	query := `
		SELECT id, name, email, lifetime_value, last_gift_date
		FROM donors
		WHERE org_id = ?
			AND (LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')
		ORDER BY lifetime_value IS NULL, lifetime_value DESC, id
		LIMIT ?
	`

	like := "%" + escapeLike(strings.ToLower(pattern)) + "%"

	rows, err := s.store.db.QueryContext(ctx, query, orgID, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("querying donors by pattern: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// TopByLifetimeValue returns the org's donors ordered by lifetime value
// descending, unknown values last.
func (s *donorStore) TopByLifetimeValue(ctx context.Context, orgID string, limit int) ([]domain.DonorSummary, error) {
	query := `
		SELECT id, name, email, lifetime_value, last_gift_date
		FROM donors WHERE org_id = ?
		ORDER BY lifetime_value IS NULL, lifetime_value DESC, id
		LIMIT ?
	`

	rows, err := s.store.db.QueryContext(ctx, query, orgID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top donors: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// UpdateDerived overwrites the denormalised lifetime value and last-gift date.
func (s *donorStore) UpdateDerived(ctx context.Context, donorID string, lifetimeValue float64, lastGiftDate string) error {
	result, err := s.store.db.ExecContext(ctx,
		"UPDATE donors SET lifetime_value = ?, last_gift_date = ?, updated_at = ? WHERE id = ?",
		lifetimeValue, lastGiftDate, time.Now().UTC(), donorID)
	if err != nil {
		return fmt.Errorf("updating derived fields: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// ==================== Gift Store ====================

// giftStore implements driven.GiftStore.
type giftStore struct {
	store *Store
}

var _ driven.GiftStore = (*giftStore)(nil)

// UpsertBatch stores gifts idempotently, keyed by external reference.
// Gifts recorded without an upstream reference use their own id as the
// reference so the UNIQUE constraint still applies.
func (s *giftStore) UpsertBatch(ctx context.Context, gifts []domain.Gift) error {
	if len(gifts) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	query := `
		INSERT INTO gifts (id, donor_id, org_id, amount, gift_date, source, external_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_ref) DO UPDATE SET
			donor_id = excluded.donor_id,
			amount = excluded.amount,
			gift_date = excluded.gift_date,
			source = excluded.source
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing gift upsert: %w", err)
	}
	defer stmt.Close()

	for _, gift := range gifts {
		ref := gift.ExternalRef
		if ref == "" {
			ref = gift.ID
		}
		if _, err := stmt.ExecContext(ctx, gift.ID, gift.DonorID, gift.OrgID,
			gift.Amount, gift.GiftDate, gift.Source, ref, gift.CreatedAt); err != nil {
			return fmt.Errorf("upserting gift %s: %w", gift.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing gift batch: %w", err)
	}

	return nil
}

// GiftsForDonors returns all gifts for the given donor id batch dated on or
// after cutoff. An empty cutoff means no date filter; DateOnly strings
// compare correctly as text.
func (s *giftStore) GiftsForDonors(ctx context.Context, donorIDs []string, cutoff string) ([]driven.GiftRow, error) {
	if len(donorIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT donor_id, amount, gift_date
		FROM gifts WHERE donor_id IN (%s)
	`, placeholders(len(donorIDs)))

	args := make([]any, 0, len(donorIDs)+1)
	for _, id := range donorIDs {
		args = append(args, id)
	}
	if cutoff != "" {
		query += " AND gift_date >= ?"
		args = append(args, cutoff)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying gifts: %w", err)
	}
	defer rows.Close()

	var result []driven.GiftRow //nolint:prealloc // size unknown from query
	for rows.Next() {
		var row driven.GiftRow
		var amount sql.NullFloat64
		if err := rows.Scan(&row.DonorID, &amount, &row.GiftDate); err != nil {
			return nil, fmt.Errorf("scanning gift row: %w", err)
		}
		if amount.Valid {
			row.Amount = amount.Float64
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// ListForDonor returns a donor's gifts, most recent first.
func (s *giftStore) ListForDonor(ctx context.Context, donorID string, limit int) ([]domain.Gift, error) {
	query := `
		SELECT id, donor_id, org_id, amount, gift_date, source, external_ref, created_at
		FROM gifts WHERE donor_id = ?
		ORDER BY gift_date DESC, created_at DESC
		LIMIT ?
	`

	rows, err := s.store.db.QueryContext(ctx, query, donorID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying donor gifts: %w", err)
	}
	defer rows.Close()

	var gifts []domain.Gift //nolint:prealloc // size unknown from query
	for rows.Next() {
		var gift domain.Gift
		var amount sql.NullFloat64
		if err := rows.Scan(&gift.ID, &gift.DonorID, &gift.OrgID, &amount,
			&gift.GiftDate, &gift.Source, &gift.ExternalRef, &gift.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning gift: %w", err)
		}
		if amount.Valid {
			gift.Amount = amount.Float64
		}
		gifts = append(gifts, gift)
	}

	return gifts, rows.Err()
}

// ==================== Interaction Store ====================

// interactionStore implements driven.InteractionStore.
type interactionStore struct {
	store *Store
}

var _ driven.InteractionStore = (*interactionStore)(nil)

// Append records an interaction.
func (s *interactionStore) Append(ctx context.Context, interaction domain.Interaction) error {
	_, err := s.store.db.ExecContext(ctx,
		"INSERT INTO interactions (id, donor_id, org_id, kind, summary, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		interaction.ID, interaction.DonorID, interaction.OrgID,
		string(interaction.Kind), interaction.Summary, interaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("appending interaction: %w", err)
	}

	return nil
}

// ListForDonor returns a donor's interactions, most recent first.
func (s *interactionStore) ListForDonor(ctx context.Context, donorID string, limit int) ([]domain.Interaction, error) {
	query := `
		SELECT id, donor_id, org_id, kind, summary, created_at
		FROM interactions WHERE donor_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := s.store.db.QueryContext(ctx, query, donorID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying interactions: %w", err)
	}
	defer rows.Close()

	var interactions []domain.Interaction //nolint:prealloc // size unknown from query
	for rows.Next() {
		var interaction domain.Interaction
		var kind string
		if err := rows.Scan(&interaction.ID, &interaction.DonorID, &interaction.OrgID,
			&kind, &interaction.Summary, &interaction.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning interaction: %w", err)
		}
		interaction.Kind = domain.InteractionKind(kind)
		interactions = append(interactions, interaction)
	}

	return interactions, rows.Err()
}

// ==================== Sync State Store ====================

// syncStateStore implements driven.SyncStateStore.
type syncStateStore struct {
	store *Store
}

var _ driven.SyncStateStore = (*syncStateStore)(nil)

// Save stores or updates sync state.
func (s *syncStateStore) Save(ctx context.Context, state domain.SyncState) error {
	query := `
		INSERT INTO sync_state (org_id, cursor, last_sync_at, gifts_synced)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(org_id) DO UPDATE SET
			cursor = excluded.cursor,
			last_sync_at = excluded.last_sync_at,
			gifts_synced = excluded.gifts_synced
	`

	var lastSync any
	if !state.LastSyncAt.IsZero() {
		lastSync = state.LastSyncAt
	}

	_, err := s.store.db.ExecContext(ctx, query,
		state.OrgID, state.Cursor, lastSync, state.GiftsSynced)
	if err != nil {
		return fmt.Errorf("saving sync state: %w", err)
	}

	return nil
}

// Get retrieves sync state for an organisation.
func (s *syncStateStore) Get(ctx context.Context, orgID string) (*domain.SyncState, error) {
	var state domain.SyncState
	var lastSync sql.NullTime

	row := s.store.db.QueryRowContext(ctx,
		"SELECT org_id, cursor, last_sync_at, gifts_synced FROM sync_state WHERE org_id = ?", orgID)
	if err := row.Scan(&state.OrgID, &state.Cursor, &lastSync, &state.GiftsSynced); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning sync state: %w", err)
	}

	if lastSync.Valid {
		state.LastSyncAt = lastSync.Time
	}

	return &state, nil
}

// ==================== Vector Index ====================

// vectorIndex implements driven.VectorIndex on top of the donor_embeddings
// table. Similarity is computed in Go over the org's embeddings; donor
// populations are small enough that a brute-force scan beats carrying a
// dedicated vector store.
type vectorIndex struct {
	store *Store
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

// Upsert inserts or replaces the embedding for a donor.
func (v *vectorIndex) Upsert(ctx context.Context, donorID, orgID string, embedding []float32) error {
	query := `
		INSERT INTO donor_embeddings (donor_id, org_id, embedding, dims, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(donor_id) DO UPDATE SET
			org_id = excluded.org_id,
			embedding = excluded.embedding,
			dims = excluded.dims,
			updated_at = excluded.updated_at
	`

	_, err := v.store.db.ExecContext(ctx, query,
		donorID, orgID, float32SliceToBytes(embedding), len(embedding), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upserting embedding: %w", err)
	}

	return nil
}

// Delete removes a donor's embedding from the index.
func (v *vectorIndex) Delete(ctx context.Context, donorID string) error {
	_, err := v.store.db.ExecContext(ctx,
		"DELETE FROM donor_embeddings WHERE donor_id = ?", donorID)
	if err != nil {
		return fmt.Errorf("deleting embedding: %w", err)
	}

	return nil
}

// MatchDonors returns donors in the org whose embedding similarity to the
// query vector is at least threshold, ordered by similarity descending.
func (v *vectorIndex) MatchDonors(ctx context.Context, query []float32, threshold float64, limit int, orgID string) ([]driven.DonorHit, error) {
	rows, err := v.store.db.QueryContext(ctx, `
		SELECT d.id, d.name, d.email, d.lifetime_value, d.last_gift_date, e.embedding
		FROM donor_embeddings e
		JOIN donors d ON d.id = e.donor_id
		WHERE e.org_id = ?
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	var hits []driven.DonorHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var summary domain.DonorSummary
		var ltv sql.NullFloat64
		var blob []byte
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Email,
			&ltv, &summary.LastGiftDate, &blob); err != nil {
			return nil, fmt.Errorf("scanning embedding row: %w", err)
		}
		if ltv.Valid {
			summary.LifetimeValue = &ltv.Float64
		}

		similarity := cosineSimilarity(query, bytesToFloat32Slice(blob))
		if similarity < threshold {
			continue
		}
		hits = append(hits, driven.DonorHit{Donor: summary, Similarity: similarity})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embeddings: %w", err)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Donor.ID < hits[j].Donor.ID
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	return hits, nil
}

// Close releases resources. The underlying database is owned by the Store.
func (v *vectorIndex) Close() error {
	return nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity computes the cosine similarity between two vectors.
// Mismatched or zero-norm vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// nullFloat converts an optional float into its nullable SQL form.
func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}

	return sql.NullFloat64{Float64: *v, Valid: true}
}

// scanDonor scans a single donor row.
func scanDonor(row *sql.Row) (*domain.Donor, error) {
	var donor domain.Donor
	var ltv sql.NullFloat64

	if err := row.Scan(&donor.ID, &donor.OrgID, &donor.Name, &donor.Email,
		&donor.Address, &donor.City, &donor.State, &donor.Notes,
		&ltv, &donor.LastGiftDate, &donor.CreatedAt, &donor.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning donor: %w", err)
	}

	if ltv.Valid {
		donor.LifetimeValue = &ltv.Float64
	}

	return &donor, nil
}

// scanSummaries scans donor summary projections from *sql.Rows.
func scanSummaries(rows *sql.Rows) ([]domain.DonorSummary, error) {
	var summaries []domain.DonorSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		var summary domain.DonorSummary
		var ltv sql.NullFloat64
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Email,
			&ltv, &summary.LastGiftDate); err != nil {
			return nil, fmt.Errorf("scanning donor summary: %w", err)
		}
		if ltv.Valid {
			summary.LifetimeValue = &ltv.Float64
		}
		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// escapeLike escapes LIKE wildcards so patterns match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
