package quickbooks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gateway, err := NewGateway(context.Background(), Config{
		RealmID:     "realm-1",
		AccessToken: "test-token",
		BaseURL:     server.URL,
		TokenURL:    server.URL + "/oauth/token",
		PageSize:    2,
	})
	require.NoError(t, err)
	return gateway
}

func receiptJSON(id, amount, date, customerRef, customerName string) map[string]any {
	return map[string]any{
		"Id":          id,
		"TotalAmt":    json.RawMessage(amount),
		"TxnDate":     date,
		"CustomerRef": map[string]string{"value": customerRef, "name": customerName},
		"BillEmail":   map[string]string{"Address": customerName + "@example.org"},
	}
}

func writeQueryResponse(w http.ResponseWriter, receipts ...map[string]any) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"QueryResponse": map[string]any{
			"SalesReceipt":  receipts,
			"startPosition": 1,
			"maxResults":    len(receipts),
		},
	})
}

func TestNewGateway_Validation(t *testing.T) {
	_, err := NewGateway(context.Background(), Config{AccessToken: "tok"})
	assert.ErrorContains(t, err, "realm id")

	_, err = NewGateway(context.Background(), Config{RealmID: "realm-1"})
	assert.ErrorContains(t, err, "token is required")
}

func TestFetchGifts_FullPageHasNextCursor(t *testing.T) {
	var gotQuery, gotAuth string
	gateway := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotAuth = r.Header.Get("Authorization")
		writeQueryResponse(w,
			receiptJSON("t1", "100.50", "2025-05-01", "c1", "ada"),
			receiptJSON("t2", "50", "2025-05-02", "c2", "ben"),
		)
	})

	page, err := gateway.FetchGifts(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Contains(t, gotQuery, "STARTPOSITION 1")
	assert.Contains(t, gotQuery, "MAXRESULTS 2")

	require.Len(t, page.Gifts, 2)
	assert.Equal(t, "t1", page.Gifts[0].TxnID)
	assert.Equal(t, "c1", page.Gifts[0].DonorRef)
	assert.Equal(t, "ada", page.Gifts[0].DonorName)
	assert.Equal(t, "ada@example.org", page.Gifts[0].DonorEmail)
	assert.Equal(t, "2025-05-01", page.Gifts[0].TxnDate)

	// A full page means there may be more rows.
	assert.Equal(t, "3", page.NextCursor)
}

func TestFetchGifts_ShortPageEndsPagination(t *testing.T) {
	gateway := testGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		writeQueryResponse(w, receiptJSON("t3", "25", "2025-05-03", "c1", "ada"))
	})

	page, err := gateway.FetchGifts(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, page.Gifts, 1)
	assert.Empty(t, page.NextCursor)
}

func TestFetchGifts_ResumesFromCursor(t *testing.T) {
	var gotQuery string
	gateway := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		writeQueryResponse(w)
	})

	page, err := gateway.FetchGifts(context.Background(), "3")
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "STARTPOSITION 3")
	assert.Empty(t, page.Gifts)
	assert.Empty(t, page.NextCursor)
}

func TestFetchGifts_InvalidCursor(t *testing.T) {
	gateway := testGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		writeQueryResponse(w)
	})

	_, err := gateway.FetchGifts(context.Background(), "not-a-number")
	assert.ErrorContains(t, err, "invalid cursor")

	_, err = gateway.FetchGifts(context.Background(), "0")
	assert.ErrorContains(t, err, "invalid cursor")
}

func TestFetchGifts_AmountShapesPassThrough(t *testing.T) {
	gateway := testGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		// Older API versions delivered amounts as strings.
		writeQueryResponse(w, receiptJSON("t1", `"75.25"`, "2025-05-01", "c1", "ada"))
	})

	page, err := gateway.FetchGifts(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, page.Gifts, 1)
	assert.Equal(t, "75.25", page.Gifts[0].Amount)
}

func TestFetchGifts_APIError(t *testing.T) {
	gateway := testGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := gateway.FetchGifts(context.Background(), "")
	assert.ErrorContains(t, err, "status 401")
}

func TestPing(t *testing.T) {
	var gotPath string
	gateway := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]any{
			"CompanyInfo": map[string]string{"CompanyName": "River Trust"},
		})
	})

	require.NoError(t, gateway.Ping(context.Background()))
	assert.Equal(t, "/v3/company/realm-1/companyinfo/realm-1", gotPath)
}

func TestPing_Failure(t *testing.T) {
	gateway := testGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	assert.ErrorContains(t, gateway.Ping(context.Background()), "status 403")
}
