// Package markdown renders assistant replies as styled terminal text.
package markdown

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/zjrosen/airdesk/internal/cachemanager"
	"github.com/zjrosen/airdesk/internal/log"
)

// noMarginStyle drops glamour's document margin so replies line up with
// the bubble border.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps a glamour renderer at a fixed wrap width.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a renderer. style is "dark" or "light" and defaults to dark.
// A fixed style path is used instead of WithAutoStyle, which queries the
// terminal and leaks the OSC reply into the input stream.
func New(width int, style string) (*Renderer, error) {
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render converts markdown to styled output without trailing blank lines.
func (r *Renderer) Render(md string) (string, error) {
	out, err := r.renderer.Render(md)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}

type cacheKey string

type renderInput struct {
	text  string
	width int
}

const renderTTL = 10 * time.Minute

// Cache renders messages once per (message id, width). Resizing the window
// produces new keys; old widths age out.
type Cache struct {
	style string

	mu        sync.Mutex
	renderers map[int]*Renderer

	rt *cachemanager.ReadThroughCache[cacheKey, string, renderInput]
}

// NewCache creates a render cache for the given glamour style.
func NewCache(style string) *Cache {
	c := &Cache{style: style, renderers: make(map[int]*Renderer)}
	store := cachemanager.NewInMemoryCacheManager[cacheKey, string](
		"markdown", renderTTL, cachemanager.DefaultCleanupInterval)
	c.rt = cachemanager.NewReadThroughCache[cacheKey, string, renderInput](store, c.render, false)
	return c
}

// Render returns the styled form of text for message id at width. Render
// failures fall back to the raw text.
func (c *Cache) Render(id, text string, width int) string {
	if width < 1 {
		return text
	}
	key := cacheKey(fmt.Sprintf("%s:%d", id, width))
	out, err := c.rt.Get(context.Background(), key, renderInput{text: text, width: width}, renderTTL)
	if err != nil {
		log.ErrorErr(log.CatUI, "markdown render failed", err, "id", id)
		return text
	}
	return out
}

func (c *Cache) render(_ context.Context, in renderInput) (string, error) {
	r, err := c.rendererFor(in.width)
	if err != nil {
		return "", err
	}
	return r.Render(in.text)
}

func (c *Cache) rendererFor(width int) (*Renderer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.renderers[width]; ok {
		return r, nil
	}
	r, err := New(width, c.style)
	if err != nil {
		return nil, err
	}
	c.renderers[width] = r
	return r, nil
}
