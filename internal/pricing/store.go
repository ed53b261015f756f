package pricing

import (
	"sync"
	"time"

	"cryptostore/internal/domain"
)

// Quote is one refreshed price observation keyed by provider id.
type Quote struct {
	PriceUSD  float64
	Change24h float64
}

// Store holds the coin catalog and its last-known quotes. Any number of
// request handlers read it; the refresher is the only writer. Reads return
// value copies, so a coin update is visible to readers as a whole-record
// replace.
type Store struct {
	mu    sync.RWMutex
	coins map[string]domain.Coin
	order []string

	lastRefresh time.Time
}

func NewStore(catalog []domain.Coin) *Store {
	s := &Store{
		coins: make(map[string]domain.Coin, len(catalog)),
		order: make([]string, 0, len(catalog)),
	}
	for _, c := range catalog {
		s.coins[c.Symbol] = c
		s.order = append(s.order, c.Symbol)
	}
	return s
}

// Get returns the coin for symbol, or false if it is not in the catalog.
func (s *Store) Get(symbol string) (domain.Coin, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.coins[symbol]
	return c, ok
}

// Snapshot returns all coins in catalog order.
func (s *Store) Snapshot() []domain.Coin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Coin, 0, len(s.order))
	for _, sym := range s.order {
		out = append(out, s.coins[sym])
	}
	return out
}

// ProviderIDs returns the quote-feed identifiers for every catalog coin.
func (s *Store) ProviderIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.order))
	for _, sym := range s.order {
		ids = append(ids, s.coins[sym].ProviderID)
	}
	return ids
}

// Apply overwrites price and 24h change for every coin present in quotes,
// keyed by provider id. Coins missing from quotes keep their prior values.
func (s *Store) Apply(quotes map[string]Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sym, coin := range s.coins {
		q, ok := quotes[coin.ProviderID]
		if !ok {
			continue
		}
		coin.Price = q.PriceUSD
		coin.Change24h = q.Change24h
		s.coins[sym] = coin
	}
	s.lastRefresh = time.Now()
}

// LastRefresh reports when Apply last ran; zero before the first success.
func (s *Store) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}
