// Package memory provides an in-process Store for tests and local
// development. State lives in mutex-guarded maps and disappears on
// restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/zodiacal/horoscope-api/internal/contracts"
)

type mapKey struct {
	signID int
	date   string
}

// Store keeps one map per kind, keyed by (sign id, date). The mutex
// makes each upsert atomic, so concurrent writers to one key serialize
// to a single winner's full field set.
type Store struct {
	mu      sync.RWMutex
	records map[contracts.Kind]map[mapKey]contracts.Record
}

// New returns an empty Store with both kind buckets initialized.
func New() *Store {
	return &Store{
		records: map[contracts.Kind]map[mapKey]contracts.Record{
			contracts.KindDaily:  {},
			contracts.KindWeekly: {},
		},
	}
}

func keyOf(key contracts.Key) mapKey {
	return mapKey{signID: key.SignID, date: key.Date.Format(contracts.DateLayout)}
}

func (s *Store) Upsert(_ context.Context, kind contracts.Kind, key contracts.Key, fields contracts.Fields) (contracts.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.records[kind]
	mk := keyOf(key)
	_, exists := bucket[mk]

	bucket[mk] = contracts.Record{
		SignID:   key.SignID,
		SignName: fields.SignName,
		Symbol:   fields.Symbol,
		Text:     fields.Text,
		Date:     key.Date,
	}

	if exists {
		return contracts.OutcomeUpdated, nil
	}
	return contracts.OutcomeCreated, nil
}

func (s *Store) Get(_ context.Context, kind contracts.Kind, key contracts.Key) (*contracts.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[kind][keyOf(key)]
	if !ok {
		return nil, contracts.NewNotFoundError(kind, key.SignID, key.Date.Format(contracts.DateLayout))
	}
	return &rec, nil
}

func (s *Store) ListByPeriod(_ context.Context, kind contracts.Kind, period time.Time) ([]contracts.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	date := period.Format(contracts.DateLayout)

	out := make([]contracts.Record, 0)
	for mk, rec := range s.records[kind] {
		if mk.date == date {
			out = append(out, rec)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].SignID < out[j].SignID })
	return out, nil
}

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Close() {}
