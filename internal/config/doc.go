// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, files). It provides type-safe
// access to the settings needed by the storage backends, the presenter
// timing hints, the audio mixer and the level catalog while keeping
// configuration details separate from game logic.
package config
