// Package recordstore persists the whole record collection as one JSON array
// under a single key of a kvstore.Store. There are no partial writes: every
// save serializes and overwrites the complete collection.
package recordstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-json-experiment/json"

	"github.com/fulldump/calorietracker/kvstore"
)

const DefaultKey = "items"

// ErrMalformed is returned when the stored value cannot be decoded.
var ErrMalformed = errors.New("recordstore: malformed stored value")

type Record struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

type Store struct {
	kv  kvstore.Store
	key string
}

func New(kv kvstore.Store, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		kv:  kv,
		key: key,
	}
}

func (s *Store) Key() string {
	return s.key
}

// Load returns the stored sequence, or an empty one when nothing is stored.
func (s *Store) Load(ctx context.Context) ([]*Record, error) {
	value, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("get '%s': %w", s.key, err)
	}
	if !ok {
		return []*Record{}, nil
	}

	records := []*Record{}
	err = json.Unmarshal([]byte(value), &records)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if records == nil { // stored 'null'
		records = []*Record{}
	}
	for i, record := range records {
		if record == nil {
			return nil, fmt.Errorf("%w: null record at position %d", ErrMalformed, i)
		}
	}

	return records, nil
}

// SaveAppend reads the stored sequence, appends record and writes it back.
// Ids are not checked here.
func (s *Store) SaveAppend(ctx context.Context, record *Record) error {
	records, err := s.Load(ctx)
	if err != nil {
		return err
	}
	return s.SaveReplaceAll(ctx, append(records, record))
}

// SaveReplaceAll overwrites the stored value with records.
func (s *Store) SaveReplaceAll(ctx context.Context, records []*Record) error {
	if records == nil {
		records = []*Record{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("json encode records: %w", err)
	}
	err = s.kv.Set(ctx, s.key, string(payload))
	if err != nil {
		return fmt.Errorf("set '%s': %w", s.key, err)
	}
	return nil
}

// Clear removes the key. The next Load returns an empty sequence.
func (s *Store) Clear(ctx context.Context) error {
	err := s.kv.Remove(ctx, s.key)
	if err != nil {
		return fmt.Errorf("remove '%s': %w", s.key, err)
	}
	return nil
}
