package render

import (
	"strings"

	"github.com/diogo/streamchat/internal/config"
)

// Markdown renders markdown content for terminal display.
// Uses a pooled renderer for better performance and thread safety.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// Func is the injected render capability: markdown in, displayable
// text out. Implementations never fail; conversion errors fall back to
// the raw input text.
type Func func(content string, width int) string

// Capability builds a Func over the given options. Render failure
// degrades to the raw, unconverted text so a bad document never blocks
// the rest of the flow.
func Capability(opts Options) Func {
	return func(content string, width int) string {
		rendered, err := Markdown(content, opts.WithWidth(width))
		if err != nil {
			return content
		}
		return strings.TrimRight(rendered, "\n")
	}
}

// LoadOptionsFromConfig derives render options from user configuration.
func LoadOptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()

	if config.ValidTheme(cfg.Theme) {
		opts.Style = cfg.Theme
	}
	opts.EnableEmoji = cfg.Markdown.EnableEmoji
	opts.PreserveNewLines = cfg.Markdown.PreserveNewLines
	opts.TableWrap = cfg.Markdown.TableWrap
	opts.InlineTableLinks = cfg.Markdown.InlineTableLinks

	return opts
}
