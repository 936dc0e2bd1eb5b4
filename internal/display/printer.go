package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/johan/skyblock-auctions/internal/hypixel"
	"github.com/johan/skyblock-auctions/internal/snapshot"
)

// Printer writes console output.
type Printer struct {
	w     io.Writer
	f     *Formatter
	width int
	now   func() time.Time
}

// NewPrinter creates a printer that centres text within width columns.
func NewPrinter(w io.Writer, f *Formatter, width int) *Printer {
	return &Printer{w: w, f: f, width: width, now: time.Now}
}

// Wrap breaks msg into lines of at most width columns at word boundaries.
// A single word longer than width gets a line of its own.
func Wrap(msg string, width int) []string {
	var (
		lines []string
		cur   strings.Builder
	)
	for _, word := range strings.Fields(msg) {
		if cur.Len() > 0 && lipgloss.Width(cur.String())+1+lipgloss.Width(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// Centered prints msg word-wrapped and centred.
func (p *Printer) Centered(msg string) {
	for _, line := range Wrap(msg, p.width) {
		fmt.Fprintln(p.w, strings.TrimRight(lipgloss.PlaceHorizontal(p.width, lipgloss.Center, line), " "))
	}
}

// Rule prints a horizontal separator.
func (p *Printer) Rule() {
	fmt.Fprintln(p.w, strings.Repeat("-", p.width))
}

// Line prints one plain line.
func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Auctions prints each auction as a block of name | value rows.
func (p *Printer) Auctions(auctions []*hypixel.Auction) {
	tw := tabwriter.NewWriter(p.w, 0, 0, 1, ' ', 0)
	now := p.now()
	for i, a := range auctions {
		fmt.Fprintf(tw, "-[ RECORD %d ]-\t\n", i)
		row(tw, "uuid", a.UUID)
		row(tw, "item_name", a.ItemName)
		for j, line := range strings.Split(p.f.Legacy(a.ItemLore), "\n") {
			if j == 0 {
				row(tw, "item_lore", line)
			} else {
				row(tw, "", line)
			}
		}
		row(tw, "category", a.Category)
		row(tw, "tier", a.Tier)
		row(tw, "starting_bid", formatCoins(a.StartingBid))
		row(tw, "highest_bid_amount", formatCoins(a.HighestBidAmount))
		row(tw, "bids", strconv.Itoa(len(a.Bids)))
		row(tw, "bin", strconv.FormatBool(a.Bin))
		row(tw, "ends", formatRemaining(a.EndTime().Sub(now)))
		row(tw, "last_updated", a.UpdatedAt().Format(time.DateTime))
	}
	tw.Flush()
}

// Snapshot prints snapshot metadata.
func (p *Printer) Snapshot(s *snapshot.Snapshot) {
	if s == nil {
		p.Line("no auction data loaded, run: update auctions")
		return
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 1, ' ', 0)
	row(tw, "refresh_id", s.RefreshID)
	row(tw, "pages", strconv.Itoa(s.TotalPages))
	row(tw, "auctions", fmt.Sprintf("%d (reported %d)", s.Len(), s.TotalAuctions))
	row(tw, "bin", strconv.Itoa(s.BinCount()))
	row(tw, "last_updated", s.UpdatedAt().Format(time.DateTime))
	row(tw, "fetched", fmt.Sprintf("%s (%s ago, took %s)",
		s.FetchedAt.Format(time.DateTime),
		p.now().Sub(s.FetchedAt).Round(time.Second),
		s.Duration.Round(time.Millisecond)))
	tw.Flush()
}

func row(w io.Writer, name, value string) {
	fmt.Fprintf(w, "%s\t| %s\n", name, value)
}

// formatCoins groups digits in threes: 1234567 -> 1,234,567.
func formatCoins(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var sb strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(c)
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}

func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return "ended"
	}
	return "in " + d.Round(time.Second).String()
}
