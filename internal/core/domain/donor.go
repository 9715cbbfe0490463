package domain

import (
	"fmt"
	"strings"
	"time"
)

// Donor represents a supporter record owned by a single organisation.
// The LifetimeValue and LastGiftDate fields are denormalised from the gift
// ledger by the sync service and are read-only to everything else.
type Donor struct {
	// ID is the unique identifier for the donor.
	ID string

	// OrgID is the owning organisation. Every query touching donors is
	// pre-scoped to one org before it reaches the core services.
	OrgID string

	// Name is the display name.
	Name string

	// Email is the contact email, may be empty.
	Email string

	// Address is the postal street address, may be empty.
	Address string

	// City and State complete the postal address.
	City  string
	State string

	// Notes holds free-text relationship notes kept by the org.
	Notes string

	// LifetimeValue is the cumulative gift total. Nil means the donor has
	// never been through a gift sync; consumers coerce nil to 0.
	LifetimeValue *float64

	// LastGiftDate is the most recent gift date in DateOnly format.
	// Empty means no recorded gift.
	LastGiftDate string

	// CreatedAt is when the donor was first recorded.
	CreatedAt time.Time

	// UpdatedAt is when the donor was last updated.
	UpdatedAt time.Time
}

// Summary returns the search/ranking projection of the donor.
func (d Donor) Summary() DonorSummary {
	return DonorSummary{
		ID:            d.ID,
		Name:          d.Name,
		Email:         d.Email,
		LifetimeValue: d.LifetimeValue,
		LastGiftDate:  d.LastGiftDate,
	}
}

// Identity returns the donor's identifying fields for PII redaction.
func (d Donor) Identity() IdentityFields {
	return IdentityFields{
		Name:    d.Name,
		Email:   d.Email,
		Address: d.Address,
		City:    d.City,
		State:   d.State,
	}
}

// Facts returns the inputs the lifecycle classifier consumes.
func (d Donor) Facts() DonorFacts {
	return DonorFacts{
		LastGiftDate:  d.LastGiftDate,
		LifetimeValue: d.LifetimeValue,
	}
}

// ProfileText builds the text that gets embedded for semantic search.
// It deliberately excludes exact contact details; the embedding should
// capture who the donor is, not string-match their email.
func (d Donor) ProfileText() string {
	var b strings.Builder
	b.WriteString(d.Name)
	if d.City != "" || d.State != "" {
		b.WriteString(" from ")
		b.WriteString(strings.TrimSpace(d.City + " " + d.State))
	}
	if d.LifetimeValue != nil {
		fmt.Fprintf(&b, ". Lifetime giving $%.2f", *d.LifetimeValue)
	}
	if d.LastGiftDate != "" {
		b.WriteString(". Last gift " + d.LastGiftDate)
	}
	if d.Notes != "" {
		b.WriteString(". " + d.Notes)
	}
	return b.String()
}

// DonorSummary is the projection carried through search results and rankings.
type DonorSummary struct {
	// ID is the donor identifier.
	ID string

	// Name is the display name.
	Name string

	// Email is the contact email, may be empty.
	Email string

	// LifetimeValue is the denormalised gift total, nil when unknown.
	LifetimeValue *float64

	// LastGiftDate is the most recent gift date, empty when none.
	LastGiftDate string
}

// Gift is a single donation attributed to exactly one donor.
// Gifts are immutable once recorded by sync or timeline logging.
type Gift struct {
	// ID is the unique identifier for the gift.
	ID string

	// DonorID links to the owning Donor.
	DonorID string

	// OrgID is the owning organisation.
	OrgID string

	// Amount is the gift amount, already coerced to a finite number.
	Amount float64

	// GiftDate is the transaction date in DateOnly format.
	GiftDate string

	// Source records where the gift came from ("accounting" or "manual").
	Source string

	// ExternalRef is the upstream transaction reference, used for
	// idempotent upserts during accounting sync.
	ExternalRef string

	// CreatedAt is when the gift was recorded locally.
	CreatedAt time.Time
}

// Gift sources.
const (
	GiftSourceAccounting = "accounting"
	GiftSourceManual     = "manual"
)

// InteractionKind classifies a logged donor touchpoint.
type InteractionKind string

// Interaction kinds.
const (
	InteractionLetter InteractionKind = "letter"
	InteractionEmail  InteractionKind = "email"
	InteractionCall   InteractionKind = "call"
)

// Interaction is an append-only record of a donor touchpoint.
// Appending is the one non-idempotent write in the system.
type Interaction struct {
	// ID is the unique identifier for the interaction.
	ID string

	// DonorID links to the donor.
	DonorID string

	// OrgID is the owning organisation.
	OrgID string

	// Kind classifies the touchpoint.
	Kind InteractionKind

	// Summary is a short human-readable description.
	Summary string

	// CreatedAt is when the interaction was logged.
	CreatedAt time.Time
}

// SyncState tracks accounting sync progress for one organisation.
type SyncState struct {
	// OrgID is the organisation this state belongs to.
	OrgID string

	// Cursor is the opaque upstream pagination cursor to resume from.
	Cursor string

	// LastSyncAt is when the last successful sync completed.
	LastSyncAt time.Time

	// GiftsSynced counts gifts upserted over the lifetime of the connection.
	GiftsSynced int
}
