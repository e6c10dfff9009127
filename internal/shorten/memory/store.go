// In-memory mapping store with the same contract as the postgres
// implementation. Used when the service runs without a database DSN
// and by handler tests.
package memory

import (
	"context"
	"sync"

	"github.com/avdcouto/photoapp/internal/shorten"
)

type link struct {
	longURL     string
	lookupCount int64
}

type Store struct {
	mux   sync.Mutex
	links map[string]*link
}

func NewStore() *Store {
	return &Store{
		links: make(map[string]*link),
	}
}

func (s *Store) Lookup(ctx context.Context, shortURL string) string {
	s.mux.Lock()
	defer s.mux.Unlock()

	l, ok := s.links[shortURL]
	if !ok {
		return ""
	}
	l.lookupCount++
	return l.longURL
}

func (s *Store) Stats(ctx context.Context, shortURL string) int64 {
	s.mux.Lock()
	defer s.mux.Unlock()

	l, ok := s.links[shortURL]
	if !ok {
		return shorten.StatsNotFound
	}
	return l.lookupCount
}

func (s *Store) Put(ctx context.Context, shortURL, longURL string) bool {
	s.mux.Lock()
	defer s.mux.Unlock()

	if l, ok := s.links[shortURL]; ok {
		return l.longURL == longURL
	}
	s.links[shortURL] = &link{longURL: longURL}
	return true
}

func (s *Store) Reset(ctx context.Context) bool {
	s.mux.Lock()
	defer s.mux.Unlock()

	s.links = make(map[string]*link)
	return true
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

var _ shorten.Store = (*Store)(nil)
