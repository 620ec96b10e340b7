package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionIDFromContext_Empty(t *testing.T) {
	require.Equal(t, "", SessionIDFromContext(context.Background()))
	//nolint:staticcheck // a nil context is tolerated
	require.Equal(t, "", SessionIDFromContext(nil))
}

func TestContextWithSessionID(t *testing.T) {
	ctx := ContextWithSessionID(context.Background(), "abc")
	require.Equal(t, "abc", SessionIDFromContext(ctx))

	ctx = ContextWithSessionID(ctx, "def")
	require.Equal(t, "def", SessionIDFromContext(ctx))
}

func TestContextWithSessionID_EmptyIsNoop(t *testing.T) {
	base := context.Background()
	require.Equal(t, base, ContextWithSessionID(base, ""))
}
