package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestStartAndEnd(t *testing.T) {
	tr := New("")
	ctx, end := tr.Start(context.Background(), SpanFlush, attribute.Int("tether.watchers", 2))
	assert.NotNil(t, ctx)
	end(nil, attribute.Int("tether.ran", 2))

	_, end = tr.Start(ctx, SpanPatch)
	end(errors.New("x"))
}

func TestNilSafety(t *testing.T) {
	var tr *Tracer
	ctx, end := tr.Start(nil, SpanPatch) //nolint:staticcheck
	assert.NotNil(t, ctx)
	end(errors.New("boom"))

	assert.NotNil(t, FromTracer(nil))
}
