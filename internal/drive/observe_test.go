package drive

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/teemow/drivecheck/internal/drive/drivetest"
	"github.com/teemow/drivecheck/internal/instrumentation"
	"github.com/teemow/drivecheck/internal/logging"
)

func TestClient_LogsAPICalls(t *testing.T) {
	client, srv := newTestClient(t)
	srv.Fail(drivetest.OpGetFile, http.StatusNotFound, "File not found: x.")

	var buf bytes.Buffer
	client.SetLogger(logging.NewLogger(&buf, slog.LevelDebug))

	_, _, err := client.ListFiles(context.Background(), nil)
	require.NoError(t, err)
	_, err = client.GetFile(context.Background(), "x")
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "service=drive operation=list status=success")
	assert.Contains(t, out, "service=drive operation=get status=error")
	assert.Contains(t, out, "File not found")
}

func TestClient_SetLoggerIgnoresNil(t *testing.T) {
	client, _ := newTestClient(t)
	client.SetLogger(nil)

	_, err := client.About(context.Background())
	assert.NoError(t, err)
}

func TestCreateFolder_SpanCarriesNewID(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	client, _ := newTestClient(t)
	folder, err := client.CreateFolder(context.Background(), "Span Test", nil)
	require.NoError(t, err)

	attrs := map[string]string{}
	for _, span := range recorder.Ended() {
		if span.Name() != "google.drive.create" {
			continue
		}
		for _, kv := range span.Attributes() {
			attrs[string(kv.Key)] = kv.Value.Emit()
		}
	}
	assert.Equal(t, "folder", attrs[instrumentation.SpanAttrResourceType])
	assert.Equal(t, folder.ID, attrs[instrumentation.SpanAttrResourceID])
}
