package tracing

// Span attribute keys for display surface calls.
const (
	AttrSessionID = "session.id"
	AttrOp        = "surface.op"

	AttrContentID   = "content.id"
	AttrNamespaceID = "namespace.id"
	AttrNamespace   = "namespace.name"
	AttrWindowID    = "window.id"

	AttrLineStart = "lines.start"
	AttrLineEnd   = "lines.end"
	AttrLineCount = "lines.count"

	AttrMarkID    = "mark.id"
	AttrMarkRow   = "mark.row"
	AttrMarkGroup = "mark.group"

	AttrWindowRow    = "window.row"
	AttrWindowCol    = "window.col"
	AttrWindowWidth  = "window.width"
	AttrWindowHeight = "window.height"
	AttrWindowBorder = "window.border"
	AttrWindowEnter  = "window.enter"

	AttrOptionName = "option.name"
	AttrCursorRow  = "cursor.row"
	AttrCursorCol  = "cursor.col"

	AttrErrorType = "error.type"
)

// SpanPrefixSurface prefixes the span name of every surface call.
const SpanPrefixSurface = "surface."
