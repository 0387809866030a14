package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pyhub-apps/rfbdebt-golang/pkg/extract"
	"github.com/pyhub-apps/rfbdebt-golang/pkg/report"
)

// Batch is one processed upload kept around for downloads
type Batch struct {
	ID        string
	Records   []extract.Record
	Rows      []report.Row
	Warnings  []string
	Addressee string
	Created   time.Time
}

// Store keeps batches in memory until they expire
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	batches map[string]*Batch
}

// NewStore creates a Store whose batches live for ttl
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		batches: make(map[string]*Batch),
	}
}

// Put stores b under a fresh id and returns it
func (s *Store) Put(b *Batch) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	b.ID = uuid.NewString()
	b.Created = s.now()
	s.batches[b.ID] = b
	return b.ID
}

// Get returns a live batch
func (s *Store) Get(id string) (*Batch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	b, ok := s.batches[id]
	return b, ok
}

// Len is the number of live batches
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	return len(s.batches)
}

func (s *Store) sweep() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, b := range s.batches {
		if b.Created.Before(cutoff) {
			delete(s.batches, id)
		}
	}
}
