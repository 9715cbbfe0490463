package driven

import "context"

// ExternalGift is a gift row as delivered by the accounting system.
// Amounts arrive as strings or numbers depending on the upstream API
// version; the sync service coerces them via domain.CoerceAmount.
type ExternalGift struct {
	// TxnID is the upstream transaction id, used for idempotent upserts.
	TxnID string

	// DonorRef is the upstream customer/donor reference mapped to a local
	// donor id by the sync service.
	DonorRef string

	// DonorName is the upstream display name, used to create donors that
	// don't exist locally yet.
	DonorName string

	// DonorEmail is the upstream contact email, may be empty.
	DonorEmail string

	// Amount is the raw amount value (string, number, or nil).
	Amount any

	// TxnDate is the transaction date in domain.DateOnly format.
	TxnDate string
}

// GiftPage is one page of synced gifts plus the cursor to fetch the next.
type GiftPage struct {
	// Gifts are the rows in this page.
	Gifts []ExternalGift

	// NextCursor resumes pagination; empty means no more pages.
	NextCursor string
}

// AccountingGateway reads gift transactions from the connected accounting
// system. This is an optional service - when nil, gift sync is disabled.
//
// The OAuth token lifecycle behind the connection is the adapter's concern;
// the core only sees pages of gifts.
type AccountingGateway interface {
	// FetchGifts returns the page of gift transactions at cursor.
	// An empty cursor starts from the beginning of the ledger.
	FetchGifts(ctx context.Context, cursor string) (*GiftPage, error)

	// Ping validates the connection and credentials.
	Ping(ctx context.Context) error
}
