package testdb

import (
	"os"
	"testing"

	"github.com/phrazzld/pairmatch/internal/redact"
)

// Environment variables read by this package.
const (
	EnvPostgresURL        = "PAIRMATCH_TEST_POSTGRES_URL"
	EnvRedisAddr          = "PAIRMATCH_TEST_REDIS_ADDR"
	EnvRequireIntegration = "PAIRMATCH_REQUIRE_INTEGRATION"
)

// IsCIEnvironment returns true if running in any type of CI environment.
// It checks for common CI environment variables across multiple platforms.
func IsCIEnvironment() bool {
	ciVars := []string{
		"CI",             // Generic
		"GITHUB_ACTIONS", // GitHub Actions
		"GITLAB_CI",      // GitLab CI
		"JENKINS_URL",    // Jenkins
		"CIRCLECI",       // Circle CI
	}

	for _, envVar := range ciVars {
		if os.Getenv(envVar) != "" {
			return true
		}
	}
	return false
}

// integrationRequired reports whether a missing server must fail the test.
func integrationRequired() bool {
	return IsCIEnvironment() && os.Getenv(EnvRequireIntegration) != ""
}

// PostgresURL returns the test database URL, skipping t when it is unset.
func PostgresURL(t testing.TB) string {
	t.Helper()
	return lookup(t, EnvPostgresURL, "PostgreSQL")
}

// RedisAddr returns the test Redis address, skipping t when it is unset.
func RedisAddr(t testing.TB) string {
	t.Helper()
	return lookup(t, EnvRedisAddr, "Redis")
}

func lookup(t testing.TB, envVar, server string) string {
	t.Helper()

	value := os.Getenv(envVar)
	if value != "" {
		t.Logf("using %s at %s", server, redact.URL(value))
		return value
	}
	if integrationRequired() {
		t.Fatalf("%s must be set when %s is set in CI", envVar, EnvRequireIntegration)
	}
	t.Skipf("%s not set; skipping %s integration test", envVar, server)
	return ""
}
