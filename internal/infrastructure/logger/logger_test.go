package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("ERROR"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("unknown"))
}

func TestNew(t *testing.T) {
	l, err := New(DefaultConfig())
	assert.NoError(t, err)
	assert.NotNil(t, l)

	l, err = New(ProductionConfig())
	assert.NoError(t, err)
	assert.NotNil(t, l)
}

func TestContextRoundTrip(t *testing.T) {
	l := zap.NewNop()

	ctx := WithContext(context.Background(), l)
	assert.Equal(t, l, FromContext(ctx))

	// Missing logger falls back to no-op
	assert.NotNil(t, FromContext(context.Background()))

	ctx, _ = WithRequestID(ctx, l, "req-1")
	ctx, _ = WithTenantID(ctx, l, "tenant-1")
	ctx, _ = WithUserID(ctx, l, "user-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "tenant-1", GetTenantID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestContextLogger_EnrichesFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	l := zap.New(core)

	ctx := WithContext(context.Background(), l)
	ctx, _ = WithRequestID(ctx, l, "req-42")
	ctx, _ = WithTenantID(ctx, l, "tenant-7")

	L(ctx).Info("hello")

	entries := observed.All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "tenant-7", fields["tenant_id"])
}

func TestContextLogger_NilSafe(t *testing.T) {
	cl := &ContextLogger{ctx: context.Background()}
	assert.NotPanics(t, func() {
		cl.Info("no logger set")
	})
}
