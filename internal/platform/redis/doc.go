// Package redis implements store.ResultStore on Redis. Results are kept as
// flat preference-style keys (BestScore_<level>, HighScore, TotalGames, ...)
// under a configurable prefix, and Update uses WATCH/MULTI optimistic
// transactions.
package redis
