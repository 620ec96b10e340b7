package tracing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SpanRecord is one surface call as written by FileExporter. The handles a
// call touched are lifted out of the attributes so a session can be followed
// with jq, e.g. select(.window == 1000).
type SpanRecord struct {
	TraceID    string         `json:"trace_id"`
	SpanID     string         `json:"span_id"`
	ParentID   string         `json:"parent_id,omitempty"`
	Name       string         `json:"name"`
	Op         string         `json:"op,omitempty"`
	Session    string         `json:"session,omitempty"`
	Content    *int64         `json:"content,omitempty"`
	Namespace  *int64         `json:"namespace,omitempty"`
	Window     *int64         `json:"window,omitempty"`
	Start      time.Time      `json:"start"`
	DurationMs float64        `json:"duration_ms"`
	Error      string         `json:"error,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// newSpanRecord converts a finished span. Attributes promoted to fields are
// not repeated in Attributes.
func newSpanRecord(span sdktrace.ReadOnlySpan) SpanRecord {
	rec := SpanRecord{
		TraceID:    span.SpanContext().TraceID().String(),
		SpanID:     span.SpanContext().SpanID().String(),
		Name:       span.Name(),
		Start:      span.StartTime().UTC(),
		DurationMs: float64(span.EndTime().Sub(span.StartTime()).Microseconds()) / 1000,
	}
	if parent := span.Parent(); parent.IsValid() {
		rec.ParentID = parent.SpanID().String()
	}
	if status := span.Status(); status.Code == codes.Error {
		rec.Error = status.Description
		if rec.Error == "" {
			rec.Error = "error"
		}
	}

	for _, kv := range span.Attributes() {
		switch kv.Key {
		case AttrOp:
			rec.Op = kv.Value.AsString()
		case AttrSessionID:
			rec.Session = kv.Value.AsString()
		case AttrContentID:
			rec.Content = handle(kv)
		case AttrNamespaceID:
			rec.Namespace = handle(kv)
		case AttrWindowID:
			rec.Window = handle(kv)
		default:
			if rec.Attributes == nil {
				rec.Attributes = make(map[string]any)
			}
			rec.Attributes[string(kv.Key)] = kv.Value.AsInterface()
		}
	}
	return rec
}

func handle(kv attribute.KeyValue) *int64 {
	v := kv.Value.AsInt64()
	return &v
}

// FileExporter appends SpanRecords to a JSONL file. It implements
// sdktrace.SpanExporter.
type FileExporter struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

var _ sdktrace.SpanExporter = (*FileExporter)(nil)

// NewFileExporter opens path for appending, creating it and its parent
// directories as needed.
func NewFileExporter(path string) (*FileExporter, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create trace directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) // #nosec G304 -- path comes from the user's config
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	return &FileExporter{file: file, enc: json.NewEncoder(file)}, nil
}

// ExportSpans writes one line per span.
func (e *FileExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return fmt.Errorf("export spans: exporter is shut down")
	}
	for _, span := range spans {
		if err := e.enc.Encode(newSpanRecord(span)); err != nil {
			return fmt.Errorf("encode span %s: %w", span.Name(), err)
		}
	}
	return nil
}

// Shutdown closes the file. Later calls are no-ops.
func (e *FileExporter) Shutdown(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return nil
	}
	err := e.file.Close()
	e.file = nil
	return err
}
