// Package postgres provides the PostgreSQL implementation of
// store.ResultStore. It handles connection setup, embedded schema
// migrations, query execution and the mapping of database errors onto the
// store error taxonomy.
package postgres
