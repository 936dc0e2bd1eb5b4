// Package query filters auction snapshots.
package query

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/johan/skyblock-auctions/internal/hypixel"
	"github.com/johan/skyblock-auctions/internal/nbt"
	"github.com/johan/skyblock-auctions/internal/snapshot"
)

// Filter reports whether an auction matches.
type Filter func(a *hypixel.Auction) bool

// ByName matches the display name exactly, case-sensitively.
func ByName(name string) Filter {
	return func(a *hypixel.Auction) bool { return a.ItemName == name }
}

// ByBin matches auctions whose buy-it-now flag equals bin.
func ByBin(bin bool) Filter {
	return func(a *hypixel.Auction) bool { return a.Bin == bin }
}

// ByEnchantment matches enchanted books carrying the named enchantment, at
// exactly level when level is non-nil. Auctions whose item blob cannot be
// decoded never match.
func ByEnchantment(name string, level *int32) Filter {
	return func(a *hypixel.Auction) bool {
		it, err := a.ItemBytes.Item()
		if err != nil {
			return false
		}
		id, err := it.TypeID()
		if err != nil || id != nbt.EnchantedBookID {
			return false
		}
		ench, ok := it.Enchantments()
		if !ok {
			return false
		}
		got, ok := ench[name]
		if !ok {
			return false
		}
		return level == nil || got == *level
	}
}

// And matches when every filter matches. An empty And matches everything.
func And(filters ...Filter) Filter {
	return func(a *hypixel.Auction) bool {
		for _, f := range filters {
			if !f(a) {
				return false
			}
		}
		return true
	}
}

// Predicate is the set of conditions a caller can ask for. Zero fields are
// not checked.
type Predicate struct {
	Name        string
	Bin         *bool
	Enchantment string
	Level       *int32 // only checked together with Enchantment
}

// Filter combines the predicate's conditions.
func (p Predicate) Filter() Filter {
	var fs []Filter
	if p.Name != "" {
		fs = append(fs, ByName(p.Name))
	}
	if p.Bin != nil {
		fs = append(fs, ByBin(*p.Bin))
	}
	if p.Enchantment != "" {
		fs = append(fs, ByEnchantment(p.Enchantment, p.Level))
	}
	return And(fs...)
}

func (p Predicate) String() string {
	var parts []string
	if p.Name != "" {
		parts = append(parts, fmt.Sprintf("name=%q", p.Name))
	}
	if p.Bin != nil {
		parts = append(parts, fmt.Sprintf("bin=%t", *p.Bin))
	}
	if p.Enchantment != "" {
		parts = append(parts, "enchant="+p.Enchantment)
		if p.Level != nil {
			parts = append(parts, fmt.Sprintf("level=%d", *p.Level))
		}
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, " ")
}

// Select yields matching auctions in snapshot order. A nil snapshot yields nothing.
func Select(s *snapshot.Snapshot, f Filter) iter.Seq[*hypixel.Auction] {
	return func(yield func(*hypixel.Auction) bool) {
		if s == nil {
			return
		}
		for i := range s.Auctions {
			a := &s.Auctions[i]
			if f(a) && !yield(a) {
				return
			}
		}
	}
}

// Run collects every auction in s matching p, in snapshot order.
func Run(s *snapshot.Snapshot, p Predicate) []*hypixel.Auction {
	var out []*hypixel.Auction
	for a := range Select(s, p.Filter()) {
		out = append(out, a)
	}
	return out
}

// InputError reports an operator-supplied value that cannot be used.
type InputError struct {
	Field string
	Value string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// ParseLevel parses an enchantment level.
func ParseLevel(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, &InputError{Field: "level", Value: s, Err: err}
	}
	if n < 0 {
		return 0, &InputError{Field: "level", Value: s, Err: fmt.Errorf("must not be negative")}
	}
	return int32(n), nil
}

// Undecodable counts auctions whose item blob fails to decode. Decoded blobs
// are cached, so calling this after an enchantment query costs little.
func Undecodable(s *snapshot.Snapshot) int {
	if s == nil {
		return 0
	}
	n := 0
	for i := range s.Auctions {
		if _, err := s.Auctions[i].ItemBytes.Tree(); err != nil {
			n++
		}
	}
	return n
}
