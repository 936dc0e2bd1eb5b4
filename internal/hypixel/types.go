// Package hypixel provides a client for the SkyBlock auction house API.
package hypixel

import (
	"time"

	"github.com/johan/skyblock-auctions/internal/nbt"
)

// AuctionPage is one page of the active auctions endpoint.
type AuctionPage struct {
	Success       bool      `json:"success"`
	Cause         string    `json:"cause,omitempty"` // set when success is false
	Page          int       `json:"page"`
	TotalPages    int       `json:"totalPages"`
	TotalAuctions int       `json:"totalAuctions"`
	LastUpdated   int64     `json:"lastUpdated"` // epoch millis
	Auctions      []Auction `json:"auctions"`
}

// Auction is a single listing.
type Auction struct {
	UUID       string   `json:"uuid"`
	Auctioneer string   `json:"auctioneer"`
	ProfileID  string   `json:"profile_id"`
	Coop       []string `json:"coop,omitempty"`
	Start      int64    `json:"start"` // epoch millis
	End        int64    `json:"end"`   // epoch millis

	ItemName string `json:"item_name"`
	ItemLore string `json:"item_lore"` // legacy § formatting codes
	Extra    string `json:"extra"`
	Category string `json:"category"`
	Tier     string `json:"tier"`

	StartingBid      int64 `json:"starting_bid"`
	HighestBidAmount int64 `json:"highest_bid_amount"`
	LastUpdated      int64 `json:"last_updated"` // epoch millis

	Claimed        bool     `json:"claimed"`
	ClaimedBidders []string `json:"claimed_bidders,omitempty"`
	Bin            bool     `json:"bin"`
	Bids           []Bid    `json:"bids"`
	ItemUUID       string   `json:"item_uuid,omitempty"`

	// ItemBytes is decoded on first use and cached.
	ItemBytes nbt.Blob `json:"item_bytes"`
}

// Bid is one bid placed on an auction.
type Bid struct {
	AuctionID string `json:"auction_id"`
	Bidder    string `json:"bidder"`
	ProfileID string `json:"profile_id"`
	Amount    int64  `json:"amount"`
	Timestamp int64  `json:"timestamp"` // epoch millis
}

// StartTime returns Start as a time.
func (a *Auction) StartTime() time.Time { return time.UnixMilli(a.Start) }

// EndTime returns End as a time.
func (a *Auction) EndTime() time.Time { return time.UnixMilli(a.End) }

// UpdatedAt returns LastUpdated as a time.
func (a *Auction) UpdatedAt() time.Time { return time.UnixMilli(a.LastUpdated) }

// Price is what a buyer pays right now: the bin price, the highest bid, or
// the starting bid when nobody has bid yet.
func (a *Auction) Price() int64 {
	if !a.Bin && a.HighestBidAmount > 0 {
		return a.HighestBidAmount
	}
	return a.StartingBid
}

// Time returns Timestamp as a time.
func (b *Bid) Time() time.Time { return time.UnixMilli(b.Timestamp) }

// UpdatedAt returns LastUpdated as a time.
func (p *AuctionPage) UpdatedAt() time.Time { return time.UnixMilli(p.LastUpdated) }
