package nvim

import "github.com/zjrosen/compleet/internal/surface"

func toBytes(lines []string) [][]byte {
	out := make([][]byte, len(lines))
	for i, line := range lines {
		out[i] = []byte(line)
	}
	return out
}

// extmarkOptions builds the opts argument of nvim_buf_set_extmark.
func extmarkOptions(opts surface.MarkOptions) map[string]any {
	m := map[string]any{
		"end_row":  opts.EndRow,
		"end_col":  opts.EndCol,
		"hl_group": opts.Group,
	}
	if opts.ID > 0 {
		m["id"] = opts.ID
	}
	if opts.Priority > 0 {
		m["priority"] = opts.Priority
	}
	return m
}

// borderValue converts b to the border key of a float config.
func borderValue(b surface.Border) any {
	if bordered, ok := b.(surface.Bordered); ok {
		return bordered.Style.Value()
	}
	return "none"
}

// openConfig builds the config argument of nvim_open_win.
func openConfig(cfg surface.WindowConfig) map[string]any {
	m := moveConfig(cfg)
	m["focusable"] = cfg.Focusable
	m["border"] = borderValue(cfg.Border)
	if cfg.Style != "" {
		m["style"] = cfg.Style
	}
	if cfg.NoAutocmd {
		m["noautocmd"] = true
	}
	return m
}

// moveConfig builds the config argument of nvim_win_set_config. Neovim
// rejects style and noautocmd on existing windows, so only geometry is sent.
func moveConfig(cfg surface.WindowConfig) map[string]any {
	return map[string]any{
		"relative": cfg.Relative,
		"row":      cfg.Row,
		"col":      cfg.Col,
		"width":    cfg.Width,
		"height":   cfg.Height,
	}
}
