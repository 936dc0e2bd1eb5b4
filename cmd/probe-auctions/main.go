// Command probe-auctions fetches auction pages and prints them.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/johan/skyblock-auctions/internal/config"
	"github.com/johan/skyblock-auctions/internal/display"
	"github.com/johan/skyblock-auctions/internal/hypixel"
	"github.com/johan/skyblock-auctions/internal/logging"
	"github.com/johan/skyblock-auctions/internal/snapshot"
)

func main() {
	page := flag.Int("page", -1, "Fetch a single zero-based page")
	all := flag.Bool("all", false, "Fetch every page and merge them")
	baseURL := flag.String("base-url", hypixel.DefaultBaseURL, "API base URL")
	concurrency := flag.Int("concurrency", 0, "Maximum in-flight requests with -all (0 = one per page)")
	limit := flag.Int("limit", 20, "Maximum number of rows in table output (0 = all)")
	output := flag.String("output", "table", "Output format: table or json")
	timeout := flag.Duration("timeout", 30*time.Second, "Request timeout")
	verbose := flag.Bool("v", false, "Log page progress")

	flag.Parse()

	if *page < 0 && !*all {
		fmt.Println("Usage: probe-auctions [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  probe-auctions -page 0")
		fmt.Println("  probe-auctions -page 3 -output json")
		fmt.Println("  probe-auctions -all -concurrency 8 -v")
		os.Exit(1)
	}

	client := hypixel.NewClient(&http.Client{Timeout: *timeout}).WithBaseURL(*baseURL)

	if *all {
		level := "warn"
		if *verbose {
			level = "info"
		}
		logger, err := logging.New(config.LoggingConfig{Level: level, Format: "text"})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		asm := snapshot.NewAssembler(client,
			snapshot.WithLogger(logger),
			snapshot.WithConcurrency(*concurrency),
		)
		snap, err := asm.Refresh(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		outputAuctions(snap.Auctions, *output, *limit)
		fmt.Fprintf(os.Stderr, "\n%d pages, %d auctions (reported %d) in %s\n",
			snap.TotalPages, snap.Len(), snap.TotalAuctions, snap.Duration.Round(time.Millisecond))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	p, err := client.FetchPage(ctx, *page)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	outputAuctions(p.Auctions, *output, *limit)
	fmt.Fprintf(os.Stderr, "\nPage %d of %d, %d auctions total, updated %s\n",
		p.Page, p.TotalPages, p.TotalAuctions, p.UpdatedAt().Format(time.DateTime))
}

func outputAuctions(auctions []hypixel.Auction, format string, limit int) {
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(auctions)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "UUID\tITEM\tTIER\tBIN\tPRICE\tENDS\tENCHANTS")
	for i := range auctions {
		if limit > 0 && i == limit {
			break
		}
		a := &auctions[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%d\t%s\t%s\n",
			a.UUID, truncate(a.ItemName, 32), a.Tier, a.Bin, a.Price(),
			a.EndTime().Format(time.DateTime), enchants(a))
	}
	w.Flush()
	fmt.Printf("\nTotal: %d auctions\n", len(auctions))
}

func enchants(a *hypixel.Auction) string {
	it, err := a.ItemBytes.Item()
	if err != nil {
		return "?"
	}
	ench, ok := it.Enchantments()
	if !ok {
		return "-"
	}
	names := make([]string, 0, len(ench))
	for name, level := range ench {
		names = append(names, fmt.Sprintf("%s %d", name, level))
	}
	slices.Sort(names)
	return truncate(strings.Join(names, ", "), 48)
}

func truncate(s string, maxLen int) string {
	s = display.StripLegacy(s)
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
