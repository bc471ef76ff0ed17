package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	shutdown := install(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = shutdown(context.Background()) })
	return recorder
}

func TestInitTracer(t *testing.T) {
	// 导出器惰性连接，收集器不在线也能初始化成功
	shutdown, err := InitTracer("library-test", "localhost:4317")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestStartSpan_ParentChild(t *testing.T) {
	recorder := setupRecorder(t)

	ctx, root := StartSpan(context.Background(), "library/test", "UpdateBook")
	_, child := StartSpan(ctx, "library/test", "SaveCover")
	child.SetAttributes(attribute.Int64("book.isbn", 9781234567897))
	EndSpan(child, nil)
	EndSpan(root, nil)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "SaveCover", spans[0].Name())
	assert.Equal(t, spans[1].SpanContext().TraceID(), spans[0].SpanContext().TraceID())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
}

func TestEndSpan_RecordsError(t *testing.T) {
	recorder := setupRecorder(t)

	_, span := StartSpan(context.Background(), "library/test", "DeleteBook")
	EndSpan(span, errors.New("cover storage failed"))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "cover storage failed", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestExtractTraceID(t *testing.T) {
	setupRecorder(t)

	assert.Empty(t, ExtractTraceID(context.Background()))

	ctx, span := StartSpan(context.Background(), "library/test", "GetBook")
	defer span.End()
	assert.Equal(t, span.SpanContext().TraceID().String(), ExtractTraceID(ctx))
	assert.Len(t, ExtractTraceID(ctx), 32)
}
