package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/compleet/internal/surface"
)

// Surface decorates a surface.Surface with one span per host call. Span
// names are SpanPrefixSurface followed by the operation name; failed calls
// record the error and set an error status.
type Surface struct {
	next   surface.Surface
	tracer trace.Tracer
}

var _ surface.Surface = (*Surface)(nil)

// NewSurface wraps next. A nil tracer returns next unchanged.
func NewSurface(next surface.Surface, tracer trace.Tracer) surface.Surface {
	if tracer == nil {
		return next
	}
	return &Surface{next: next, tracer: tracer}
}

func (s *Surface) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String(AttrOp, op))
	if id := SessionIDFromContext(ctx); id != "" {
		attrs = append(attrs, attribute.String(AttrSessionID, id))
	}
	return s.tracer.Start(ctx, SpanPrefixSurface+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (s *Surface) CreateContentStore(ctx context.Context, listed, scratch bool) (surface.Content, error) {
	ctx, span := s.start(ctx, surface.OpCreateContentStore,
		attribute.Bool("content.listed", listed),
		attribute.Bool("content.scratch", scratch),
	)
	content, err := s.next.CreateContentStore(ctx, listed, scratch)
	if err == nil {
		span.SetAttributes(attribute.Int(AttrContentID, int(content)))
	}
	finish(span, err)
	return content, err
}

func (s *Surface) CreateHighlightNamespace(ctx context.Context, name string) (surface.Namespace, error) {
	ctx, span := s.start(ctx, surface.OpCreateHighlightNamespace, attribute.String(AttrNamespace, name))
	ns, err := s.next.CreateHighlightNamespace(ctx, name)
	if err == nil {
		span.SetAttributes(attribute.Int(AttrNamespaceID, int(ns)))
	}
	finish(span, err)
	return ns, err
}

func (s *Surface) ReplaceLines(ctx context.Context, content surface.Content, start, end int, lines []string) error {
	ctx, span := s.start(ctx, surface.OpReplaceLines,
		attribute.Int(AttrContentID, int(content)),
		attribute.Int(AttrLineStart, start),
		attribute.Int(AttrLineEnd, end),
		attribute.Int(AttrLineCount, len(lines)),
	)
	err := s.next.ReplaceLines(ctx, content, start, end, lines)
	finish(span, err)
	return err
}

func (s *Surface) ClearNamespace(ctx context.Context, content surface.Content, ns surface.Namespace, start, end int) error {
	ctx, span := s.start(ctx, surface.OpClearNamespace,
		attribute.Int(AttrContentID, int(content)),
		attribute.Int(AttrNamespaceID, int(ns)),
		attribute.Int(AttrLineStart, start),
		attribute.Int(AttrLineEnd, end),
	)
	err := s.next.ClearNamespace(ctx, content, ns, start, end)
	finish(span, err)
	return err
}

func (s *Surface) SetHighlightMark(ctx context.Context, content surface.Content, ns surface.Namespace, row, col int, opts surface.MarkOptions) error {
	ctx, span := s.start(ctx, surface.OpSetHighlightMark,
		attribute.Int(AttrContentID, int(content)),
		attribute.Int(AttrNamespaceID, int(ns)),
		attribute.Int(AttrMarkID, opts.ID),
		attribute.Int(AttrMarkRow, row),
		attribute.String(AttrMarkGroup, opts.Group),
	)
	err := s.next.SetHighlightMark(ctx, content, ns, row, col, opts)
	finish(span, err)
	return err
}

func (s *Surface) OpenWindow(ctx context.Context, content surface.Content, enter bool, cfg surface.WindowConfig) (surface.Window, error) {
	border := "none"
	if b, ok := cfg.Border.(surface.Bordered); ok {
		border = b.Style.String()
	}
	ctx, span := s.start(ctx, surface.OpOpenWindow,
		attribute.Int(AttrContentID, int(content)),
		attribute.Bool(AttrWindowEnter, enter),
		attribute.Int(AttrWindowRow, cfg.Row),
		attribute.Int(AttrWindowCol, cfg.Col),
		attribute.Int(AttrWindowWidth, cfg.Width),
		attribute.Int(AttrWindowHeight, cfg.Height),
		attribute.String(AttrWindowBorder, border),
	)
	win, err := s.next.OpenWindow(ctx, content, enter, cfg)
	if err == nil {
		span.SetAttributes(attribute.Int(AttrWindowID, int(win)))
	}
	finish(span, err)
	return win, err
}

func (s *Surface) SetWindowOption(ctx context.Context, win surface.Window, name string, value any) error {
	ctx, span := s.start(ctx, surface.OpSetWindowOption,
		attribute.Int(AttrWindowID, int(win)),
		attribute.String(AttrOptionName, name),
	)
	err := s.next.SetWindowOption(ctx, win, name, value)
	finish(span, err)
	return err
}

func (s *Surface) SetWindowConfig(ctx context.Context, win surface.Window, cfg surface.WindowConfig) error {
	ctx, span := s.start(ctx, surface.OpSetWindowConfig,
		attribute.Int(AttrWindowID, int(win)),
		attribute.Int(AttrWindowRow, cfg.Row),
		attribute.Int(AttrWindowCol, cfg.Col),
		attribute.Int(AttrWindowWidth, cfg.Width),
		attribute.Int(AttrWindowHeight, cfg.Height),
	)
	err := s.next.SetWindowConfig(ctx, win, cfg)
	finish(span, err)
	return err
}

func (s *Surface) SetWindowCursor(ctx context.Context, win surface.Window, row, col int) error {
	ctx, span := s.start(ctx, surface.OpSetWindowCursor,
		attribute.Int(AttrWindowID, int(win)),
		attribute.Int(AttrCursorRow, row),
		attribute.Int(AttrCursorCol, col),
	)
	err := s.next.SetWindowCursor(ctx, win, row, col)
	finish(span, err)
	return err
}

func (s *Surface) HideWindow(ctx context.Context, win surface.Window) error {
	ctx, span := s.start(ctx, surface.OpHideWindow, attribute.Int(AttrWindowID, int(win)))
	err := s.next.HideWindow(ctx, win)
	finish(span, err)
	return err
}
