package guardkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPrincipalContext validates principal storage and retrieval.
func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()

	_, ok := GetPrincipal(ctx)
	assert.False(t, ok)

	p := Principal{ID: "u-1", Role: RoleEditor}
	ctx = WithPrincipal(ctx, p)

	got, ok := GetPrincipal(ctx)
	assert.True(t, ok)
	assert.Equal(t, p, got)
	assert.Equal(t, p, MustGetPrincipal(ctx))
}

// TestMustGetPrincipalPanics validates the panic on a missing principal.
func TestMustGetPrincipalPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustGetPrincipal(context.Background())
	})
}

// TestRequestMetadataContext validates IP, user agent and request ID
// round-trips.
func TestRequestMetadataContext(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetIPAddress(ctx))
	assert.Empty(t, GetUserAgent(ctx))
	assert.Empty(t, GetRequestID(ctx))

	ctx = WithIPAddress(ctx, "10.0.0.1")
	ctx = WithUserAgent(ctx, "test-agent/1.0")
	ctx = WithRequestID(ctx, "req-42")

	assert.Equal(t, "10.0.0.1", GetIPAddress(ctx))
	assert.Equal(t, "test-agent/1.0", GetUserAgent(ctx))
	assert.Equal(t, "req-42", GetRequestID(ctx))
}

// TestCheckerContext validates checker storage and retrieval.
func TestCheckerContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetChecker(ctx))
	assert.Nil(t, FromContext(ctx))

	checker := NewChecker(Principal{ID: "u-1", Role: RoleAdmin})
	ctx = WithChecker(ctx, checker)

	assert.Same(t, checker, GetChecker(ctx))
	assert.Same(t, checker, FromContext(ctx))
}

// TestAuditContext validates the bundled audit metadata helpers.
func TestAuditContext(t *testing.T) {
	ctx := WithPrincipal(context.Background(), Principal{ID: "u-9", Role: RoleMember})
	ctx = WithAuditContext(ctx, AuditContext{
		IPAddress: "192.168.1.5",
		UserAgent: "browser",
		RequestID: "req-9",
	})

	ac := GetAuditContext(ctx)
	assert.Equal(t, "u-9", ac.ActorID)
	assert.Equal(t, "192.168.1.5", ac.IPAddress)
	assert.Equal(t, "browser", ac.UserAgent)
	assert.Equal(t, "req-9", ac.RequestID)
}
