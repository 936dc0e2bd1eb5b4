// Package session runs the interactive auction checker.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/johan/skyblock-auctions/internal/config"
	"github.com/johan/skyblock-auctions/internal/display"
	"github.com/johan/skyblock-auctions/internal/hypixel"
	"github.com/johan/skyblock-auctions/internal/snapshot"
)

const prompt = "=>"

// Service is one interactive session. It owns the current snapshot.
type Service struct {
	config    *config.Config
	source    snapshot.PageSource
	assembler *snapshot.Assembler
	holder    snapshot.Holder
	printer   *display.Printer
	log       logrus.FieldLogger

	in  io.Reader
	out io.Writer
}

// Option configures a Service.
type Option func(*Service)

// WithIO sets where commands are read from and output is written to.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(s *Service) {
		s.in = in
		s.out = out
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) { s.log = l }
}

// WithSource replaces the HTTP client as the page source.
func WithSource(src snapshot.PageSource) Option {
	return func(s *Service) { s.source = src }
}

// NewService creates a new session.
func NewService(cfg *config.Config, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &Service{
		config: cfg,
		log:    logrus.StandardLogger(),
		in:     os.Stdin,
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.source == nil {
		httpClient := &http.Client{Timeout: cfg.API.Timeout}
		s.source = hypixel.NewClient(httpClient).
			WithBaseURL(cfg.API.BaseURL).
			WithUserAgent(cfg.API.UserAgent)
	}

	s.assembler = snapshot.NewAssembler(s.source,
		snapshot.WithLogger(s.log),
		snapshot.WithConcurrency(cfg.API.MaxConcurrency),
	)

	f := display.NewFormatter(lipgloss.NewRenderer(s.out), cfg.Display.Color)
	s.printer = display.NewPrinter(s.out, f, cfg.Display.Width)

	return s, nil
}

// Snapshot returns the current snapshot, or nil if none has loaded yet.
func (s *Service) Snapshot() *snapshot.Snapshot {
	return s.holder.Load()
}

// Run loads the first snapshot and then reads commands until exit, end of
// input or ctx cancellation. A failed first load leaves the session running
// without data.
func (s *Service) Run(ctx context.Context) error {
	s.log.Info("Starting auction checker...")

	if err := s.update(ctx); err != nil && ctx.Err() != nil {
		return nil
	}
	s.banner()

	lines, errc := s.readLines(ctx)
	for {
		fmt.Fprint(s.out, prompt)

		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			s.log.Info("Shutting down auction checker...")
			return nil

		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.out)
				return <-errc
			}
			if s.Execute(ctx, line) {
				return nil
			}
		}
	}
}

// readLines feeds input lines to a channel so the loop can also watch ctx.
func (s *Service) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(s.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		if err := sc.Err(); err != nil {
			errc <- fmt.Errorf("reading input: %w", err)
			return
		}
		errc <- nil
	}()

	return lines, errc
}

// update replaces the snapshot. On failure the previous one stays active.
func (s *Service) update(ctx context.Context) error {
	started := time.Now()
	snap, err := s.holder.Update(ctx, s.assembler)
	if err != nil {
		s.log.WithError(err).Error("Auction refresh failed")
		if s.holder.Load() != nil {
			s.printer.Line("update failed, keeping previous data: %v", err)
		} else {
			s.printer.Line("could not load auctions: %v", err)
			s.printer.Line("run: update auctions")
		}
		return err
	}

	s.printer.Rule()
	s.printer.Line("got %d auctions in %.2f seconds", snap.Len(), time.Since(started).Seconds())
	s.printer.Rule()
	return nil
}

func (s *Service) banner() {
	s.printer.Rule()
	s.printer.Centered("Welcome to the Hypixel SkyBlock Auction Checker")
	s.printer.Centered("Queries run against an in-memory copy of the auction house. Run update auctions to refresh it.")
	s.printer.Centered("Type help for a list of commands")
	s.printer.Rule()
}
