package id

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUUIDFromString(t *testing.T) {
	a := UUIDFromString("liquidate")
	assert.Equal(t, a, UUIDFromString("liquidate"))
	assert.NotEqual(t, a, UUIDFromString("seize"))

	_, err := uuid.FromString(a)
	assert.NoError(t, err)
}

func TestTrace(t *testing.T) {
	ctx := WithTrace(context.Background(), "request-1")
	trace := Trace(ctx)
	assert.Equal(t, TraceIDFrom("request-1"), trace)

	assert.Equal(t, SubTrace(ctx, "seize"), SubTrace(ctx, "seize"))
	assert.NotEqual(t, SubTrace(ctx, "seize"), SubTrace(ctx, "repay"))

	fresh := GenTraceID()
	assert.Equal(t, fresh, Trace(WithTrace(context.Background(), fresh)))
}
