package server

import (
	"testing"

	"github.com/bwmarrin/snowflake"
)

func TestLoginLimiterKeyPerTenant(t *testing.T) {
	// Id-based logins for different tenants must not share a bucket.
	a := loginLimiterKey("", snowflake.ID(101), "Alice@Example.com")
	b := loginLimiterKey("", snowflake.ID(202), "alice@example.com")
	if a == b {
		t.Fatalf("tenants share limiter bucket: %q", a)
	}
	if a != "101:alice@example.com" {
		t.Fatalf("key = %q", a)
	}

	if got := loginLimiterKey("  Acme  ", 0, " ALICE@example.com "); got != "acme:alice@example.com" {
		t.Fatalf("key = %q", got)
	}

	// The tenant id wins when both identifiers are present.
	if got := loginLimiterKey("acme", snowflake.ID(101), "alice@example.com"); got != "101:alice@example.com" {
		t.Fatalf("key = %q", got)
	}
}
