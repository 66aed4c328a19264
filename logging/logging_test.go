package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFromContext(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))

	l := zap.NewExample()
	ctx := NewContext(context.Background(), l)
	require.Same(t, l, FromContext(ctx))
}
