package session

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/johan/skyblock-auctions/internal/hypixel"
	"github.com/johan/skyblock-auctions/internal/query"
	"github.com/johan/skyblock-auctions/internal/storage"
)

var helpLines = []string{
	"help - Shows this help menu",
	"exit - exit the application",
	"update [auctions] - update data",
	"stats - show what the loaded data covers",
	"get [-b] [-o file] <item name> - gets all items on auction with that name, -b for bin items",
	"get_book [-b] [-o file] <enchant name> [enchant level] - get a book with that enchantment on it and optionally that level",
	"-o writes the matches to a JSON lines file",
}

// Execute runs one command line and reports whether the session should end.
func (s *Service) Execute(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	s.log.WithFields(logrus.Fields{"command": name, "args": args}).Debug("Command")

	switch name {
	case "exit", "quit":
		return true
	case "help":
		s.help()
	case "update":
		if len(args) > 0 && !strings.EqualFold(args[0], "auctions") {
			s.printer.Line("nothing to update named %s", args[0])
			return false
		}
		if err := s.update(ctx); err == nil {
			s.printer.Line("updated data successfully!")
		}
	case "stats":
		s.printer.Snapshot(s.holder.Load())
	case "get":
		s.get(args)
	case "get_book":
		s.getBook(args)
	default:
		s.printer.Line("could not find command %s", name)
	}
	return false
}

func (s *Service) help() {
	rule := strings.Repeat("=", 38)
	s.printer.Centered(rule)
	for _, l := range helpLines {
		s.printer.Centered(l)
	}
	s.printer.Centered(rule)
}

func (s *Service) get(args []string) {
	qa, err := parseQueryArgs("get", args)
	if err != nil {
		s.printer.Line("%v", err)
		return
	}
	if len(qa.operands) == 0 {
		s.printer.Line("usage: get [-b] [-o file] <item name>")
		return
	}

	p := query.Predicate{Name: strings.Join(qa.operands, " "), Bin: qa.bin()}
	s.printer.Line("getting %s", p.Name)
	s.show(p, qa.output)
}

func (s *Service) getBook(args []string) {
	qa, err := parseQueryArgs("get_book", args)
	if err != nil {
		s.printer.Line("%v", err)
		return
	}
	if len(qa.operands) == 0 || len(qa.operands) > 2 {
		s.printer.Line("usage: get_book [-b] [-o file] <enchant name> [enchant level]")
		return
	}

	p := query.Predicate{Enchantment: qa.operands[0], Bin: qa.bin()}
	if len(qa.operands) == 2 {
		level, err := query.ParseLevel(qa.operands[1])
		if err != nil {
			s.printer.Line("%v", err)
			return
		}
		p.Level = &level
	}

	s.printer.Line("getting %s", p.Enchantment)
	s.show(p, qa.output)

	if n := query.Undecodable(s.holder.Load()); n > 0 {
		s.log.WithField("undecodable", n).Debug("Skipped auctions with unreadable item data")
	}
}

// show prints the auctions matching p and exports them when output is set.
func (s *Service) show(p query.Predicate, output string) {
	snap := s.holder.Load()
	if snap == nil {
		s.printer.Line("no auction data loaded, run: update auctions")
		return
	}

	matches := query.Run(snap, p)
	s.printer.Auctions(matches)
	s.printer.Line("%d matching auctions (%s)", len(matches), p)

	if output != "" {
		path, err := s.export(output, matches)
		if err != nil {
			s.log.WithError(err).Error("Export failed")
			s.printer.Line("export failed: %v", err)
			return
		}
		if path == "" {
			s.printer.Line("export disabled, set export.output_dir to write %d auctions", len(matches))
			return
		}
		s.printer.Line("wrote %d auctions to %s", len(matches), path)
	}
}

// export writes auctions to name, resolved against the export directory.
// With no export directory configured the auctions are discarded and the
// returned path is empty.
func (s *Service) export(name string, auctions []*hypixel.Auction) (string, error) {
	st, path, err := s.openExport(name)
	if err != nil {
		return "", err
	}
	if err := storage.WriteAll(st, auctions); err != nil {
		return "", fmt.Errorf("exporting to %s: %w", name, err)
	}
	return path, nil
}

func (s *Service) openExport(name string) (storage.Storage, string, error) {
	dir := s.config.Export.OutputDir
	if dir == "" {
		return storage.NewNullStorage(), "", nil
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	st, err := storage.NewFileStorage(path, s.config.Export.Gzip)
	if err != nil {
		return nil, "", err
	}
	return st, st.Path(), nil
}

type queryArgs struct {
	binOnly  bool
	output   string
	operands []string
}

func (q *queryArgs) bin() *bool {
	if !q.binOnly {
		return nil
	}
	b := true
	return &b
}

// parseQueryArgs accepts flags before, between and after the operands.
func parseQueryArgs(command string, args []string) (*queryArgs, error) {
	var q queryArgs
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&q.binOnly, "b", false, "only buy-it-now auctions")
	fs.StringVar(&q.output, "o", "", "export matches to this file")

	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				err = errors.New("flags are -b and -o <file>")
			}
			return nil, &query.InputError{Field: "flags", Value: strings.Join(args, " "), Err: err}
		}
		args = fs.Args()
		if len(args) == 0 {
			return &q, nil
		}
		q.operands = append(q.operands, args[0])
		args = args[1:]
	}
}
