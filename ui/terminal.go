package ui

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/hvppyflow/hfnodes/builtin"
)

// Payload keys the terminal knows how to draw.
const (
	TextKey     = "text"
	MarkdownKey = "markdown"
)

// Terminal draws UI events on a terminal. Text items are paged, except for
// the debug node whose items are drawn joined. Markdown items are rendered
// with glamour.
type Terminal struct {
	out      io.Writer
	noColor  bool
	width    int
	mu       sync.Mutex
	renderer *glamour.TermRenderer
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithNoColor forces plain ASCII output.
func WithNoColor(noColor bool) TerminalOption {
	return func(t *Terminal) { t.noColor = noColor }
}

// WithWordWrap sets the markdown wrap width.
func WithWordWrap(width int) TerminalOption {
	return func(t *Terminal) { t.width = width }
}

// NewTerminal creates a terminal sink writing to out.
func NewTerminal(out io.Writer, opts ...TerminalOption) (*Terminal, error) {
	t := &Terminal{out: out, width: 80}
	for _, opt := range opts {
		opt(t)
	}

	output := termenv.NewOutput(out)
	profile := output.EnvColorProfile()
	if t.noColor {
		profile = termenv.Ascii
	}

	style := "dark"
	switch {
	case profile == termenv.Ascii:
		style = "ascii"
	case !output.HasDarkBackground():
		style = "light"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(t.width),
	)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	t.renderer = r
	return t, nil
}

// Deliver implements Sink.
func (t *Terminal) Deliver(_ context.Context, ev Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "── %s", ev.Node)
	if ev.NodeID != "" {
		fmt.Fprintf(&sb, " (%s)", ev.NodeID)
	}
	sb.WriteString(" ──\n")

	for _, key := range sortedKeys(ev.Payload) {
		items := ev.Payload[key]
		if key == TextKey && ev.Node == builtin.DebugID {
			// The debug panel shows one widget with the items concatenated.
			sb.WriteString(joinText(items))
			sb.WriteString("\n")
			continue
		}
		for _, page := range Pages(items) {
			if page.Label != "" {
				fmt.Fprintf(&sb, "[%s]\n", page.Label)
			}
			if key == MarkdownKey {
				rendered, err := t.renderer.Render(page.Text)
				if err != nil {
					return fmt.Errorf("render markdown: %w", err)
				}
				sb.WriteString(rendered)
				continue
			}
			sb.WriteString(page.Text)
			sb.WriteString("\n")
		}
	}

	_, err := io.WriteString(t.out, sb.String())
	return err
}

func joinText(items []any) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(toText(item))
	}
	return sb.String()
}

func sortedKeys(m map[string][]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
