package deck

import (
	"log/slog"
	"sync"

	"github.com/phrazzld/pairmatch/internal/domain"
)

// Catalog holds the identities available for building decks.
// It is safe for concurrent use.
type Catalog struct {
	mu         sync.RWMutex
	identities []domain.CardIdentity
	logger     *slog.Logger
}

// NewCatalog creates a catalog seeded with identities. Identities whose
// id is already present are skipped.
func NewCatalog(logger *slog.Logger, identities ...domain.CardIdentity) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Catalog{
		identities: make([]domain.CardIdentity, 0, len(identities)),
		logger:     logger.With(slog.String("component", "card_catalog")),
	}
	for _, identity := range identities {
		c.Add(identity)
	}
	return c
}

// All returns a copy of every identity in insertion order.
func (c *Catalog) All() []domain.CardIdentity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.CardIdentity, len(c.identities))
	copy(out, c.identities)
	return out
}

// Len returns the number of identities.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.identities)
}

// Get returns the identity at index.
func (c *Catalog) Get(index int) (domain.CardIdentity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if index < 0 || index >= len(c.identities) {
		c.logger.Warn("requested card index is out of range",
			slog.Int("index", index),
			slog.Int("size", len(c.identities)))
		return domain.CardIdentity{}, false
	}
	return c.identities[index], true
}

// GetByID returns the identity with the given pairing id.
func (c *Catalog) GetByID(id int) (domain.CardIdentity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, identity := range c.identities {
		if identity.ID == id {
			return identity, true
		}
	}
	return domain.CardIdentity{}, false
}

// Add appends identity unless one with the same id exists.
// It reports whether the identity was added.
func (c *Catalog) Add(identity domain.CardIdentity) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.identities {
		if existing.ID == identity.ID {
			c.logger.Debug("skipping duplicate card identity", slog.Int("card_id", identity.ID))
			return false
		}
	}
	c.identities = append(c.identities, identity)
	return true
}
