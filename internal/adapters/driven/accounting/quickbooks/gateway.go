package quickbooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/luminary-labs/donoriq/internal/core/ports/driven"
)

// Ensure Gateway implements the interface.
var _ driven.AccountingGateway = (*Gateway)(nil)

const (
	// DefaultBaseURL is the QuickBooks Online production API host.
	DefaultBaseURL = "https://quickbooks.api.intuit.com"

	// DefaultTokenURL is the Intuit OAuth2 token endpoint.
	DefaultTokenURL = "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer"

	// DefaultPageSize is the query page size. QuickBooks caps queries at
	// 1000 rows; 100 keeps response payloads small.
	DefaultPageSize = 100

	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// requestsPerMinute throttles below the QuickBooks per-realm limit of
	// 500 requests per minute.
	requestsPerMinute = 450
)

// Config holds QuickBooks gateway configuration.
type Config struct {
	// RealmID is the QuickBooks company id the connection is scoped to.
	RealmID string

	// ClientID and ClientSecret identify the OAuth2 application.
	ClientID     string
	ClientSecret string

	// AccessToken and RefreshToken are the current OAuth2 credentials.
	// Refresh happens transparently inside the HTTP client.
	AccessToken  string
	RefreshToken string

	// TokenExpiry is when the access token expires. Zero means the token
	// is treated as non-expiring (useful for tests).
	TokenExpiry time.Time

	// BaseURL overrides the API host. Defaults to DefaultBaseURL.
	BaseURL string

	// TokenURL overrides the OAuth2 token endpoint. Defaults to DefaultTokenURL.
	TokenURL string

	// PageSize overrides the query page size. Defaults to DefaultPageSize.
	PageSize int

	// Timeout for HTTP requests. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// Gateway reads gift transactions from QuickBooks Online sales receipts.
// Each sales receipt maps to one external gift keyed by its transaction id.
type Gateway struct {
	realmID  string
	baseURL  string
	pageSize int
	client   *http.Client
	limiter  *rate.Limiter
}

// NewGateway creates a QuickBooks gateway. The OAuth2 token lifecycle is
// handled by the underlying HTTP client; expired access tokens refresh
// automatically against the token endpoint.
func NewGateway(ctx context.Context, config Config) (*Gateway, error) {
	if config.RealmID == "" {
		return nil, fmt.Errorf("realm id is required")
	}
	if config.AccessToken == "" && config.RefreshToken == "" {
		return nil, fmt.Errorf("an access or refresh token is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.TokenURL == "" {
		config.TokenURL = DefaultTokenURL
	}
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	oauthConfig := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: config.TokenURL,
		},
	}
	token := &oauth2.Token{
		AccessToken:  config.AccessToken,
		RefreshToken: config.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       config.TokenExpiry,
	}

	client := oauthConfig.Client(ctx, token)
	client.Timeout = config.Timeout

	return &Gateway{
		realmID:  config.RealmID,
		baseURL:  config.BaseURL,
		pageSize: config.PageSize,
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), 5),
	}, nil
}

// salesReceipt is the subset of the QuickBooks SalesReceipt entity the sync
// needs. TotalAmt is decoded dynamically because the API has delivered both
// numbers and strings across versions.
type salesReceipt struct {
	ID          string `json:"Id"`
	TotalAmt    any    `json:"TotalAmt"`
	TxnDate     string `json:"TxnDate"`
	CustomerRef struct {
		Value string `json:"value"`
		Name  string `json:"name"`
	} `json:"CustomerRef"`
	BillEmail struct {
		Address string `json:"Address"`
	} `json:"BillEmail"`
}

// queryResponse is the envelope QuickBooks wraps query results in.
type queryResponse struct {
	QueryResponse struct {
		SalesReceipt  []salesReceipt `json:"SalesReceipt"`
		StartPosition int            `json:"startPosition"`
		MaxResults    int            `json:"maxResults"`
	} `json:"QueryResponse"`
}

// FetchGifts returns the page of gift transactions at cursor. The cursor is
// the 1-based query start position; an empty cursor starts from the top of
// the ledger.
func (g *Gateway) FetchGifts(ctx context.Context, cursor string) (*driven.GiftPage, error) {
	start := 1
	if cursor != "" {
		pos, err := strconv.Atoi(cursor)
		if err != nil || pos < 1 {
			return nil, fmt.Errorf("invalid cursor %q", cursor)
		}
		start = pos
	}

	query := fmt.Sprintf(
		"SELECT * FROM SalesReceipt ORDERBY Id STARTPOSITION %d MAXRESULTS %d",
		start, g.pageSize)

	var decoded queryResponse
	if err := g.get(ctx, "/v3/company/"+g.realmID+"/query", url.Values{"query": {query}}, &decoded); err != nil {
		return nil, fmt.Errorf("query sales receipts: %w", err)
	}

	receipts := decoded.QueryResponse.SalesReceipt
	gifts := make([]driven.ExternalGift, 0, len(receipts))
	for _, receipt := range receipts {
		gifts = append(gifts, driven.ExternalGift{
			TxnID:      receipt.ID,
			DonorRef:   receipt.CustomerRef.Value,
			DonorName:  receipt.CustomerRef.Name,
			DonorEmail: receipt.BillEmail.Address,
			Amount:     receipt.TotalAmt,
			TxnDate:    receipt.TxnDate,
		})
	}

	page := &driven.GiftPage{Gifts: gifts}
	if len(receipts) == g.pageSize {
		page.NextCursor = strconv.Itoa(start + g.pageSize)
	}

	return page, nil
}

// Ping validates the connection and credentials by fetching company info.
func (g *Gateway) Ping(ctx context.Context) error {
	var decoded map[string]any
	path := "/v3/company/" + g.realmID + "/companyinfo/" + g.realmID
	if err := g.get(ctx, path, nil, &decoded); err != nil {
		return fmt.Errorf("ping quickbooks: %w", err)
	}
	return nil
}

// get performs a rate-limited authenticated GET and decodes the JSON response.
func (g *Gateway) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	endpoint := g.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
