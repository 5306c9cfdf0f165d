// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package studentstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/coursepath/internal/metrics"
)

// DefaultPageSize is the page size used by QueryAll.
const DefaultPageSize = 1000

// keySep joins partition and sort keys into one Badger key.
const keySep = "#"

// Errors
var (
	// ErrNotFound is returned when no item exists under the requested key.
	ErrNotFound = errors.New("item not found")

	// ErrInvalidToken is returned when a continuation token cannot be decoded
	// or does not belong to the queried key range.
	ErrInvalidToken = errors.New("invalid continuation token")

	// ErrStoreClosed is returned by every operation after Close.
	ErrStoreClosed = errors.New("student store is closed")

	// ErrInvalidKey is returned when a partition or sort key is empty.
	ErrInvalidKey = errors.New("partition and sort keys are required")
)

// Options configures a Store.
type Options struct {
	// Path is the Badger data directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in memory. Used by tests and throwaway runs.
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool

	// GCRatio is the value log discard ratio used by RunGC (default 0.5).
	GCRatio float64

	// Logger receives store events. The zero value disables logging.
	Logger zerolog.Logger
}

// Store is a key-value store of student records, plans and recommendation
// logs, laid out by partition key (degree) and sort key (item).
type Store struct {
	db       *badger.DB
	logger   zerolog.Logger
	gcRatio  float64
	inMemory bool

	mu     sync.RWMutex
	closed bool
}

// Item is one raw stored value with its keys.
type Item struct {
	PK    string
	SK    string
	Value []byte
}

// Decode unmarshals the item value into target. Numbers decode as json.Number.
func (it Item) Decode(target any) error {
	return decode(it.Value, target)
}

// Page is one page of a Query.
type Page struct {
	Items []Item

	// NextToken resumes the query after the last item. Empty on the last page.
	NextToken string
}

// Open opens (or creates) the store.
//
//nolint:gocritic // Options passed by value, read once
func Open(opts Options) (*Store, error) {
	if !opts.InMemory && opts.Path == "" {
		return nil, errors.New("student store path is required unless in-memory")
	}

	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.SyncWrites = opts.SyncWrites

	// Reduce logging verbosity
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	gcRatio := opts.GCRatio
	if gcRatio <= 0 || gcRatio >= 1 {
		gcRatio = 0.5
	}

	s := &Store{
		db:       db,
		logger:   opts.Logger.With().Str("component", "studentstore").Logger(),
		gcRatio:  gcRatio,
		inMemory: opts.InMemory,
	}
	s.logger.Info().
		Str("path", opts.Path).
		Bool("in_memory", opts.InMemory).
		Bool("sync_writes", opts.SyncWrites).
		Msg("student store opened")
	return s, nil
}

// Close closes the underlying database. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	s.logger.Info().Msg("student store closed")
	return nil
}

// Ping reports whether the store accepts operations.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// Get decodes the item stored under pk and sk into target.
// It returns ErrNotFound when no such item exists.
func (s *Store) Get(ctx context.Context, pk, sk string, target any) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("get", time.Since(start), ignoreNotFound(err)) }()

	if err := s.guard(ctx, pk, sk); err != nil {
		return err
	}
	defer s.mu.RUnlock()

	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(joinKey(pk, sk))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s %s: %w", pk, sk, err)
		}
		return item.Value(func(val []byte) error {
			return decode(val, target)
		})
	})
}

// Put stores value as JSON under pk and sk, replacing any previous item.
func (s *Store) Put(ctx context.Context, pk, sk string, value any) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("put", time.Since(start), err) }()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	if err := s.guard(ctx, pk, sk); err != nil {
		return err
	}
	defer s.mu.RUnlock()

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(joinKey(pk, sk), data)
	})
}

// Delete removes the item under pk and sk. Missing items are not an error.
func (s *Store) Delete(ctx context.Context, pk, sk string) error {
	if err := s.guard(ctx, pk, sk); err != nil {
		return err
	}
	defer s.mu.RUnlock()

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(joinKey(pk, sk)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete %s %s: %w", pk, sk, err)
		}
		return nil
	})
}

// Query returns up to limit items of partition pk whose sort key starts with
// skPrefix, in key order. token is the NextToken of a previous page, or empty
// to start from the beginning.
func (s *Store) Query(ctx context.Context, pk, skPrefix string, limit int, token string) (page Page, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("query", time.Since(start), err) }()

	if limit <= 0 {
		limit = DefaultPageSize
	}
	if pk == "" {
		return Page{}, ErrInvalidKey
	}
	if err := s.acquire(ctx); err != nil {
		return Page{}, err
	}
	defer s.mu.RUnlock()

	prefix := joinKey(pk, skPrefix)
	seek := prefix
	var after []byte
	if token != "" {
		after, err = decodeToken(token, prefix)
		if err != nil {
			return Page{}, err
		}
		seek = after
	}

	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		var last []byte
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			key := item.KeyCopy(nil)
			if after != nil && bytes.Equal(key, after) {
				continue
			}
			if len(page.Items) == limit {
				page.NextToken = encodeToken(last)
				return nil
			}
			val, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("read %s: %w", key, err)
			}
			page.Items = append(page.Items, Item{PK: pk, SK: strings.TrimPrefix(string(key), pk+keySep), Value: val})
			last = key
		}
		return nil
	})
	if err != nil {
		return Page{}, err
	}
	return page, nil
}

// QueryAll follows continuation tokens until the whole key range is read.
func (s *Store) QueryAll(ctx context.Context, pk, skPrefix string) ([]Item, error) {
	start := time.Now()
	var items []Item
	token := ""
	for {
		page, err := s.Query(ctx, pk, skPrefix, DefaultPageSize, token)
		if err != nil {
			metrics.RecordStoreOperation("query_all", time.Since(start), err)
			return nil, err
		}
		items = append(items, page.Items...)
		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}
	metrics.RecordStoreOperation("query_all", time.Since(start), nil)
	return items, nil
}

// RunGC reclaims value log space until Badger reports nothing to rewrite.
func (s *Store) RunGC() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	// In-memory stores have no value log to collect
	if s.inMemory {
		return nil
	}
	for {
		err := s.db.RunValueLogGC(s.gcRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// guard checks the keys and acquires the store.
func (s *Store) guard(ctx context.Context, pk, sk string) error {
	if pk == "" || sk == "" {
		return ErrInvalidKey
	}
	return s.acquire(ctx)
}

// acquire checks the context and takes the read lock. The caller must release
// it when acquire returns nil.
func (s *Store) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrStoreClosed
	}
	return nil
}

func joinKey(pk, sk string) []byte {
	return []byte(pk + keySep + sk)
}

func encodeToken(key []byte) string {
	return base64.RawURLEncoding.EncodeToString(key)
}

func decodeToken(token string, prefix []byte) ([]byte, error) {
	key, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !bytes.HasPrefix(key, prefix) {
		return nil, ErrInvalidToken
	}
	return key, nil
}

func decode(data []byte, target any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("decode item: %w", err)
	}
	return nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
