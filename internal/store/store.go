// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

// Package store provides the document store adapter on BadgerDB.
//
// Three logical collections share one keyspace, separated by prefix:
//
//	cache:<platform>:<identifier>  -> models.CacheEntry
//	company:<name>                 -> models.CompanyRecord
//	history:<platform>:<identifier> -> []models.HistoryPoint
//
// The store exposes plain get/upsert/delete operations; freshness policy
// and history math live in the cache and history packages.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/jpcarmona/socialpulse/internal/config"
	"github.com/jpcarmona/socialpulse/internal/models"
)

// Key prefixes for the logical collections.
const (
	cacheKeyPrefix   = "cache:"
	companyKeyPrefix = "company:"
	historyKeyPrefix = "history:"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is a BadgerDB-backed document store.
// All methods are safe for concurrent use; writes have upsert semantics,
// so concurrent refreshes for the same key race to overwrite rather than
// corrupt (last writer wins).
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the store at the configured path.
// With cfg.InMemory set, the store lives entirely in memory; used in tests.
func Open(cfg config.StoreConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	// Badger logs through its own logger by default; silence it and rely
	// on our own structured logs at the call sites.
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the store is usable. Used by the health endpoint.
func (s *Store) Ping() bool {
	return s.db != nil && !s.db.IsClosed()
}

// get unmarshals the value at key into out, mapping missing keys to
// ErrNotFound.
func (s *Store) get(key string, out any) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	return err
}

// put marshals v and upserts it at key.
func (s *Store) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// GetEntry returns the cache entry stored under key, or ErrNotFound.
func (s *Store) GetEntry(key string) (*models.CacheEntry, error) {
	var entry models.CacheEntry
	if err := s.get(cacheKeyPrefix+key, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// PutEntry upserts a cache entry. Exactly one live entry exists per key.
func (s *Store) PutEntry(entry *models.CacheEntry) error {
	return s.put(cacheKeyPrefix+entry.Key, entry)
}

// DeleteEntry removes the cache entry for key. Missing keys are a no-op.
func (s *Store) DeleteEntry(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(cacheKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// DeleteEntriesWithPrefix removes every cache entry whose key starts with
// the given prefix, returning the number of rows removed. Used to purge
// legacy timestamp-suffixed keys from the previous key-naming scheme.
func (s *Store) DeleteEntriesWithPrefix(prefix string) (int, error) {
	var keys [][]byte

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(cacheKeyPrefix + prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan cache prefix %s: %w", prefix, err)
	}

	count := 0
	err = s.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete(key); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("delete cache prefix %s: %w", prefix, err)
	}
	return count, nil
}

// GetCompany returns the registered company record, or ErrNotFound.
func (s *Store) GetCompany(name string) (*models.CompanyRecord, error) {
	var rec models.CompanyRecord
	if err := s.get(companyKeyPrefix+normalizeCompany(name), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// PutCompany upserts a company record.
func (s *Store) PutCompany(rec *models.CompanyRecord) error {
	if rec.Name == "" {
		return fmt.Errorf("company record requires a name")
	}
	return s.put(companyKeyPrefix+normalizeCompany(rec.Name), rec)
}

// ListCompanies returns all registered company records.
func (s *Store) ListCompanies() ([]models.CompanyRecord, error) {
	var companies []models.CompanyRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(companyKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec models.CompanyRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				// Skip undecodable rows rather than failing the sweep
				// enumeration for everyone.
				continue
			}
			companies = append(companies, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

// GetHistory returns the follower-history series for seriesKey.
// A missing series is an empty slice, not an error: "no history yet" is a
// normal state for new identifiers.
func (s *Store) GetHistory(seriesKey string) ([]models.HistoryPoint, error) {
	var points []models.HistoryPoint
	err := s.get(historyKeyPrefix+seriesKey, &points)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return points, nil
}

// PutHistory replaces the follower-history series for seriesKey.
func (s *Store) PutHistory(seriesKey string, points []models.HistoryPoint) error {
	return s.put(historyKeyPrefix+seriesKey, points)
}

// normalizeCompany canonicalizes company names for keying.
func normalizeCompany(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
