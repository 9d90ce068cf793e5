// Package deck builds shuffled, pair-complete decks of card instances and
// keeps the catalog of identities a deck is drawn from.
package deck

import (
	"fmt"

	"github.com/phrazzld/pairmatch/internal/domain"
	"github.com/phrazzld/pairmatch/internal/domain/shuffle"
)

// Build produces 2*pairCount face-down card instances, two per chosen
// identity, shuffled with s. Identities are taken from pool in order and
// reused cyclically when pairCount exceeds the pool size, so small art
// sets still fill large grids. Instance ids equal the final grid slot.
//
// Returns an error wrapping domain.ErrInvalidConfig if pairCount is not
// positive, the deck would exceed domain.MaxCards or pool is empty.
func Build(pool []domain.CardIdentity, pairCount int, s *shuffle.Shuffler) ([]domain.CardInstance, error) {
	if pairCount <= 0 {
		return nil, fmt.Errorf("%w: pair count must be positive, got %d", domain.ErrInvalidConfig, pairCount)
	}
	if pairCount > domain.MaxCards/2 {
		return nil, fmt.Errorf("%w: %d pairs exceed %d cards", domain.ErrInvalidConfig, pairCount, domain.MaxCards)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: card pool is empty", domain.ErrInvalidConfig)
	}

	identities := make([]domain.CardIdentity, 0, 2*pairCount)
	for i := 0; i < pairCount; i++ {
		identity := pool[i%len(pool)]
		identities = append(identities, identity, identity)
	}

	shuffle.Shuffle(s, identities)

	cards := make([]domain.CardInstance, len(identities))
	for slot, identity := range identities {
		cards[slot] = domain.NewCardInstance(slot, identity)
	}
	return cards, nil
}

// ForLevel builds a deck sized for level.
func ForLevel(level domain.LevelConfig, pool []domain.CardIdentity, s *shuffle.Shuffler) ([]domain.CardInstance, error) {
	if err := level.Validate(); err != nil {
		return nil, err
	}
	return Build(pool, level.PairCount(), s)
}
