package folio

import (
	"errors"
	"slices"
	"sync"

	"github.com/etnz/folio/date"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when no holding has the requested ID.
var ErrNotFound = errors.New("holding not found")

// Snapshot is a consistent view of the store: the holdings and the
// aggregate computed from them.
type Snapshot struct {
	Holdings  []Holding `json:"holdings"`
	Aggregate Aggregate `json:"aggregate"`
	Version   uint64    `json:"version"`
}

// Store owns the holdings collection and keeps its aggregate up to date.
//
// Every mutation recomputes the whole aggregate and atomically replaces the
// current snapshot. A Store is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	holdings  []Holding
	aggregate Aggregate
	version   uint64

	listeners map[int]func(Snapshot)
	nextID    int

	// pubMu serializes publication. published is the version of the last
	// snapshot delivered to listeners.
	pubMu     sync.Mutex
	pubCond   *sync.Cond
	published uint64

	today func() date.Date
	newID func() string
	log   zerolog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock sets the function returning the as-of date of the aggregate.
func WithClock(today func() date.Date) StoreOption {
	return func(s *Store) { s.today = today }
}

// WithLogger sets the store logger.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) { s.log = log.With().Str("component", "store").Logger() }
}

// WithIDGenerator sets the function generating holding IDs.
func WithIDGenerator(newID func() string) StoreOption {
	return func(s *Store) { s.newID = newID }
}

// NewStore creates a store seeded with holdings. Seed holdings without an
// ID get one.
func NewStore(seed []Holding, opts ...StoreOption) *Store {
	s := &Store{
		listeners: make(map[int]func(Snapshot)),
		today:     date.Today,
		newID:     uuid.NewString,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.holdings = make([]Holding, 0, len(seed))
	for _, h := range seed {
		if h.ID == "" {
			h.ID = s.newID()
		}
		s.holdings = append(s.holdings, h)
	}
	s.recompute()
	s.pubCond = sync.NewCond(&s.pubMu)
	s.published = s.version
	s.log.Debug().Int("holdings", len(s.holdings)).Msg("store seeded")
	return s
}

// recompute must be called with the write lock held.
func (s *Store) recompute() Snapshot {
	s.aggregate = Compute(s.holdings, s.today())
	s.version++
	return s.snapshot()
}

// snapshot must be called with a lock held.
func (s *Store) snapshot() Snapshot {
	return Snapshot{
		Holdings:  slices.Clone(s.holdings),
		Aggregate: s.aggregate,
		Version:   s.version,
	}
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.holdings, func(h Holding) bool { return h.ID == id })
}

// Add appends h with a freshly generated ID, ignoring h.ID, and returns
// that ID. Add does not validate h.
func (s *Store) Add(h Holding) string {
	s.mu.Lock()
	h.ID = s.newID()
	s.holdings = append(s.holdings, h)
	snap := s.recompute()
	s.mu.Unlock()

	s.log.Debug().Str("id", h.ID).Str("ticker", h.Ticker).Msg("holding added")
	s.publish(snap)
	return h.ID
}

// Edit replaces every field of the holding id with h's, keeping the ID.
// It returns ErrNotFound and changes nothing if id is unknown.
func (s *Store) Edit(id string, h Holding) error {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	h.ID = id
	s.holdings[i] = h
	snap := s.recompute()
	s.mu.Unlock()

	s.log.Debug().Str("id", id).Str("ticker", h.Ticker).Msg("holding edited")
	s.publish(snap)
	return nil
}

// Update applies f to the holding id under the store lock, so that f sees
// the latest state of the holding. f must not change the ID nor use the
// store. Update returns ErrNotFound and does not call f if id is unknown.
func (s *Store) Update(id string, f func(*Holding)) error {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	h := s.holdings[i]
	f(&h)
	h.ID = id
	s.holdings[i] = h
	snap := s.recompute()
	s.mu.Unlock()

	s.log.Debug().Str("id", id).Str("ticker", h.Ticker).Msg("holding updated")
	s.publish(snap)
	return nil
}

// Delete removes the holding id. It returns ErrNotFound and changes nothing
// if id is unknown.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.holdings = slices.Delete(s.holdings, i, i+1)
	snap := s.recompute()
	s.mu.Unlock()

	s.log.Debug().Str("id", id).Msg("holding deleted")
	s.publish(snap)
	return nil
}

// Get returns a copy of the holding id.
func (s *Store) Get(id string) (Holding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(id)
	if i < 0 {
		return Holding{}, false
	}
	return s.holdings[i], true
}

// Snapshot returns the current holdings and aggregate.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// Recompute recomputes the aggregate for the current date without changing
// the holdings, for instance after a change of year.
func (s *Store) Recompute() {
	s.mu.Lock()
	snap := s.recompute()
	s.mu.Unlock()
	s.publish(snap)
}

// Subscribe registers f to be called with the new snapshot after every
// mutation. Snapshots are delivered one at a time in version order. f is
// called synchronously, outside of the store lock, and may read the store
// but must not mutate it. The returned function cancels the subscription.
func (s *Store) Subscribe(f func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = f
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// publish delivers snap once every older snapshot has been delivered.
func (s *Store) publish(snap Snapshot) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	for s.published+1 < snap.Version {
		s.pubCond.Wait()
	}
	defer func() {
		s.published = snap.Version
		s.pubCond.Broadcast()
	}()

	s.mu.RLock()
	listeners := make([]func(Snapshot), 0, len(s.listeners))
	for _, f := range s.listeners {
		listeners = append(listeners, f)
	}
	s.mu.RUnlock()
	for _, f := range listeners {
		f(snap)
	}
}
