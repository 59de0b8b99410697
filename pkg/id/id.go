package id

import (
	"context"
	"crypto/md5"
	"io"

	foxuuid "github.com/fox-one/pkg/uuid"
	"github.com/gofrs/uuid"
)

type traceKey struct{}

// GenTraceID new normal traceID
func GenTraceID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// TraceIDFrom new traceID from text
func TraceIDFrom(text string) string {
	return UUIDFromString(text)
}

// UUIDFromString  new uuid string from string
func UUIDFromString(text string) string {
	h := md5.New()
	io.WriteString(h, text)
	sum := h.Sum(nil)
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80
	return uuid.FromBytesOrNil(sum).String()
}

// WithTrace binds the trace id of the current action to ctx. Texts that
// are not uuids are hashed into one.
func WithTrace(ctx context.Context, trace string) context.Context {
	if trace == "" {
		trace = GenTraceID()
	} else if _, err := uuid.FromString(trace); err != nil {
		trace = TraceIDFrom(trace)
	}

	return context.WithValue(ctx, traceKey{}, trace)
}

// Trace trace id bound to ctx, a fresh one when absent
func Trace(ctx context.Context) string {
	if trace, ok := ctx.Value(traceKey{}).(string); ok {
		return trace
	}

	return GenTraceID()
}

// SubTrace derives a stable trace id for a step of the current action
func SubTrace(ctx context.Context, name string) string {
	return foxuuid.Modify(Trace(ctx), name)
}
