package storage

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/johan/skyblock-auctions/internal/hypixel"
)

// FileStorage writes auctions to a JSONL file, optionally gzip compressed.
type FileStorage struct {
	mu        sync.Mutex
	file      *os.File
	gzWriter  *gzip.Writer
	bufWriter *bufio.Writer
	enc       *json.Encoder
	path      string
	count     int64
}

// NewFileStorage creates path, and its directory if needed. Output is gzip
// compressed when useGzip is set or the name ends in ".gz".
func NewFileStorage(path string, useGzip bool) (*FileStorage, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}
	if useGzip && !strings.HasSuffix(path, ".gz") {
		path += ".gz"
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}

	s := &FileStorage{file: f, path: path}
	if strings.HasSuffix(path, ".gz") {
		s.gzWriter = gzip.NewWriter(f)
		s.bufWriter = bufio.NewWriter(s.gzWriter)
	} else {
		s.bufWriter = bufio.NewWriter(f)
	}
	s.enc = json.NewEncoder(s.bufWriter)
	s.enc.SetEscapeHTML(false)

	return s, nil
}

// Write appends one auction as a JSON line.
func (s *FileStorage) Write(a *hypixel.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return fmt.Errorf("writing %s: storage closed", s.path)
	}
	if err := s.enc.Encode(a); err != nil {
		return fmt.Errorf("writing auction %s: %w", a.UUID, err)
	}
	s.count++
	return nil
}

// Close flushes buffers and closes the file.
func (s *FileStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	f := s.file
	s.file = nil

	if err := s.bufWriter.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if s.gzWriter != nil {
		if err := s.gzWriter.Close(); err != nil {
			f.Close()
			return fmt.Errorf("closing gzip writer: %w", err)
		}
	}
	return f.Close()
}

// Path returns the path of the output file.
func (s *FileStorage) Path() string {
	return s.path
}

// Count returns the number of auctions written.
func (s *FileStorage) Count() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
