package hypixel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johan/skyblock-auctions/internal/nbt"
	"github.com/johan/skyblock-auctions/internal/nbt/nbttest"
)

func pageJSON(page, total int, auctions ...string) string {
	return fmt.Sprintf(`{
		"success": true,
		"page": %d,
		"totalPages": %d,
		"totalAuctions": %d,
		"lastUpdated": 1700000000000,
		"auctions": [%s]
	}`, page, total, len(auctions), joinJSON(auctions))
}

func joinJSON(items []string) string {
	out := ""
	for i, s := range items {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out
}

func auctionJSON(uuid, name string, bin bool, itemBytes string) string {
	return fmt.Sprintf(`{
		"uuid": %q,
		"auctioneer": "a1",
		"profile_id": "p1",
		"coop": ["a1", "a2"],
		"start": 1700000000000,
		"end": 1700003600000,
		"item_name": %q,
		"item_lore": "§7Damage: §c+260",
		"extra": "%s Diamond Sword",
		"category": "weapon",
		"tier": "LEGENDARY",
		"starting_bid": 1000,
		"item_bytes": %s,
		"claimed": false,
		"claimed_bidders": [],
		"highest_bid_amount": 1500,
		"last_updated": 1700000100000,
		"bin": %t,
		"bids": [{"auction_id": %q, "bidder": "b1", "profile_id": "bp1", "amount": 1500, "timestamp": 1700000050000}],
		"item_uuid": "item-1"
	}`, uuid, name, name, itemBytes, bin, uuid)
}

func TestFetchPage(t *testing.T) {
	blob := nbttest.Book(map[string]int32{"sharpness": 5})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, AuctionsPath, r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, pageJSON(3, 10,
			auctionJSON("u1", "Hyperion", true, `"`+blob+`"`),
			auctionJSON("u2", "Scylla", false, `{"type":0,"data":"`+blob+`"}`),
		))
	}))
	defer srv.Close()

	client := NewClient(&http.Client{Timeout: 5 * time.Second}).WithBaseURL(srv.URL)
	page, err := client.FetchPage(context.Background(), 3)
	require.NoError(t, err)

	assert.True(t, page.Success)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 10, page.TotalPages)
	assert.Equal(t, 2, page.TotalAuctions)
	require.Len(t, page.Auctions, 2)

	a := page.Auctions[0]
	assert.Equal(t, "u1", a.UUID)
	assert.Equal(t, "Hyperion", a.ItemName)
	assert.Equal(t, []string{"a1", "a2"}, a.Coop)
	assert.True(t, a.Bin)
	assert.Equal(t, int64(1000), a.StartingBid)
	assert.Equal(t, int64(1500), a.HighestBidAmount)
	assert.Equal(t, "item-1", a.ItemUUID)
	require.Len(t, a.Bids, 1)
	assert.Equal(t, "u1", a.Bids[0].AuctionID)
	assert.True(t, a.EndTime().After(a.StartTime()))

	for _, a := range page.Auctions {
		id, err := func() (int16, error) {
			tree, err := a.ItemBytes.Tree()
			if err != nil {
				return 0, err
			}
			return tree.ItemTypeID()
		}()
		require.NoError(t, err)
		assert.Equal(t, nbt.EnchantedBookID, id)
	}
}

func TestFetchPage_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus bool
		wantCause  string
	}{
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       `oops`,
			wantStatus: true,
		},
		{
			name:       "not found with cause",
			status:     http.StatusNotFound,
			body:       `{"success":false,"cause":"Page not found"}`,
			wantStatus: true,
			wantCause:  "Page not found",
		},
		{
			name:       "success false",
			status:     http.StatusOK,
			body:       `{"success":false,"cause":"Key throttle"}`,
			wantStatus: true,
			wantCause:  "Key throttle",
		},
		{
			name:   "invalid json",
			status: http.StatusOK,
			body:   `{"success": tru`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			client := NewClient(&http.Client{Timeout: 5 * time.Second}).WithBaseURL(srv.URL)
			_, err := client.FetchPage(context.Background(), 0)
			require.Error(t, err)

			var se *StatusError
			assert.Equal(t, tt.wantStatus, errors.As(err, &se))
			if tt.wantStatus {
				assert.Equal(t, tt.status, se.StatusCode)
				assert.Equal(t, tt.wantCause, se.Cause)
			}
		})
	}
}

func TestStatusErrorMessage(t *testing.T) {
	tests := []struct {
		err  *StatusError
		want string
	}{
		{err: &StatusError{Page: 3, StatusCode: 503}, want: "page 3: unexpected status: 503"},
		{err: &StatusError{Page: 3, StatusCode: 404, Cause: "Page not found"}, want: "page 3: status 404: Page not found"},
		{err: &StatusError{Page: 0, Cause: "Key throttle"}, want: "page 0: unsuccessful response: Key throttle"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestFetchPage_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	client := NewClient(&http.Client{Timeout: 50 * time.Millisecond}).WithBaseURL(srv.URL)
	_, err := client.FetchPage(context.Background(), 0)
	require.Error(t, err)
}

func TestAuctionJSONRoundTrip(t *testing.T) {
	blob := nbttest.Item(276, "Diamond Sword")
	var a Auction
	require.NoError(t, json.Unmarshal([]byte(auctionJSON("u9", "Sword", false, `"`+blob+`"`)), &a))

	out, err := json.Marshal(&a)
	require.NoError(t, err)

	var back Auction
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, blob, back.ItemBytes.Raw())
	assert.Equal(t, a.UUID, back.UUID)
	assert.Equal(t, int64(1500), back.Price())
}

func TestFetchPage_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	client := NewClient(&http.Client{Timeout: 30 * time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	page, err := client.FetchPage(ctx, 0)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}

	t.Logf("Page %d/%d, %d auctions (total %d)", page.Page, page.TotalPages, len(page.Auctions), page.TotalAuctions)
	for i, a := range page.Auctions {
		if i >= 5 {
			break
		}
		t.Logf("  [%d] %s (%s, bin=%v, price=%d)", i, a.ItemName, a.Tier, a.Bin, a.Price())
	}
}
