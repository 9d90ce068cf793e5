// Package service contains the application-level use cases of the game.
// It sits between the round engine and the storage backends defined in
// internal/store.
//
// Key components:
//
// 1. ResultService:
//   - Implements round.PersistenceGateway, folding won rounds into the
//     per-level best results and the global totals in one atomic update
//   - Exposes typed reads for level select screens (GetBest, Totals)
//   - Saves and loads the player's current level, and resets all data
//
// 2. Error Handling:
//   - Store sentinels are translated to service-level errors
//   - Unexpected failures are wrapped in ResultServiceError with the
//     failing operation
//
// The service depends on the store.ResultStore interface only, never on a
// specific backend.
package service
