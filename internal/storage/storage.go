// Package storage provides export targets for query results.
package storage

import (
	"github.com/johan/skyblock-auctions/internal/hypixel"
)

// Storage defines the interface for writing auctions.
type Storage interface {
	// Write writes one auction.
	Write(a *hypixel.Auction) error

	// Close flushes and closes the storage backend.
	Close() error
}

// NullStorage is a no-op storage that discards all data.
type NullStorage struct{}

// NewNullStorage creates a new null storage.
func NewNullStorage() *NullStorage {
	return &NullStorage{}
}

// Write does nothing.
func (s *NullStorage) Write(a *hypixel.Auction) error {
	return nil
}

// Close does nothing.
func (s *NullStorage) Close() error {
	return nil
}

// WriteAll writes every auction and closes s. The first error stops writing.
func WriteAll(s Storage, auctions []*hypixel.Auction) error {
	for _, a := range auctions {
		if err := s.Write(a); err != nil {
			s.Close()
			return err
		}
	}
	return s.Close()
}
