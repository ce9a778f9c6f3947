package obs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
)

type recordingExporter struct {
	names []string
}

func (r *recordingExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		r.names = append(r.names, s.Name())
	}
	return nil
}

func (r *recordingExporter) Shutdown(context.Context) error { return nil }

func restore() {
	grpcNewClient = grpc.NewClient
	newExporter = defaultExporter
}

func TestInitTracerDisabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), "vidly", "")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitTracerExporterError(t *testing.T) {
	t.Cleanup(restore)
	newExporter = func(context.Context, *grpc.ClientConn) (sdktrace.SpanExporter, error) {
		return nil, errors.New("exporter")
	}
	_, err := InitTracer(context.Background(), "vidly", "localhost:4317")
	require.ErrorContains(t, err, "otlp exporter")
}

func TestInitTracerDialError(t *testing.T) {
	t.Cleanup(restore)
	grpcNewClient = func(string, ...grpc.DialOption) (*grpc.ClientConn, error) {
		return nil, errors.New("dial")
	}
	_, err := InitTracer(context.Background(), "vidly", "localhost:4317")
	require.ErrorContains(t, err, "otlp dial")
}

func TestInitTracerExportsSpans(t *testing.T) {
	t.Cleanup(restore)
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	exp := &recordingExporter{}
	newExporter = func(context.Context, *grpc.ClientConn) (sdktrace.SpanExporter, error) {
		return exp, nil
	}
	shutdown, err := InitTracer(context.Background(), "vidly", "localhost:4317")
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "checkout")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	require.Equal(t, []string{"checkout"}, exp.names)
}
