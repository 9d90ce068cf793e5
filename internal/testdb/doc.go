// Package testdb gates integration tests on external databases.
//
// The Postgres and Redis result stores are tested against real servers
// named by environment variables. When a variable is unset the test is
// skipped, unless PAIRMATCH_REQUIRE_INTEGRATION is set in a CI
// environment, in which case the test fails so a misconfigured pipeline
// cannot silently pass.
//
// # Basic Usage
//
//	func TestPostgresStore(t *testing.T) {
//	    url := testdb.PostgresURL(t)
//	    s, err := postgres.Open(context.Background(), url, nil)
//	    require.NoError(t, err)
//	    ...
//	}
package testdb
