package surface

// Operation names, used in errors, logs, span names and failure injection.
const (
	OpCreateContentStore       = "create_content_store"
	OpCreateHighlightNamespace = "create_highlight_namespace"
	OpReplaceLines             = "replace_lines"
	OpClearNamespace           = "clear_namespace"
	OpSetHighlightMark         = "set_highlight_mark"
	OpOpenWindow               = "open_window"
	OpSetWindowOption          = "set_window_option"
	OpSetWindowConfig          = "set_window_config"
	OpSetWindowCursor          = "set_window_cursor"
	OpHideWindow               = "hide_window"
)
