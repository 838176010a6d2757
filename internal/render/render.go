// Package render holds the error-renderer registry. A run names its
// renderer; resolution happens before any test executes so a missing or
// misregistered renderer fails the run immediately instead of surfacing
// halfway through.
package render

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/lattice-dev/lattice/internal/result"
)

// DefaultName is the renderer used when a run names none.
const DefaultName = "default"

var (
	mu       sync.RWMutex
	registry = map[string]result.RenderFunc{}

	colored = term.IsTerminal(int(os.Stderr.Fd()))
)

func init() {
	Register(DefaultName, Error)
}

// Register adds a named renderer. Registering a name twice panics: the
// registry is populated from init functions and a collision is a
// programming error.
func Register(name string, fn result.RenderFunc) {
	mu.Lock()
	defer mu.Unlock()
	if name == "" {
		panic("render: renderer name must not be empty")
	}
	if fn == nil {
		panic(fmt.Sprintf("render: renderer %q is nil", name))
	}
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("render: renderer %q already registered", name))
	}
	registry[name] = fn
}

// Resolve looks up a renderer by name. An empty name resolves to the
// default renderer.
func Resolve(name string) (result.RenderFunc, error) {
	if name == "" {
		name = DefaultName
	}
	mu.RLock()
	defer mu.RUnlock()
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("render: no renderer registered under %q", name)
	}
	return fn, nil
}

// SetColored overrides TTY detection for styled output. Rendering
// happens once at result creation, so tests and non-terminal runs
// disable color before executing.
func SetColored(on bool) {
	mu.Lock()
	defer mu.Unlock()
	colored = on
}

var (
	pathStyle   = lipgloss.NewStyle().Bold(true)
	markStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	detailStyle = lipgloss.NewStyle().Faint(true)
)

// Error is the default renderer: the declaration path, the mark
// annotation when explicit, the failure message, and a detail block for
// error values whose full rendering carries more than the message.
func Error(name []string, err any, mark result.Mark, filename string) string {
	mu.RLock()
	styled := colored
	mu.RUnlock()

	style := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	b.WriteString(style(pathStyle, strings.Join(name, " > ")))
	switch mark {
	case result.MarkOnly:
		b.WriteString(" " + style(markStyle, "(.only)"))
	case result.MarkSkip:
		b.WriteString(" " + style(markStyle, "(.skip)"))
	}
	b.WriteString("\n")

	message := messageOf(err)
	b.WriteString("  " + style(failStyle, message) + "\n")

	if detail := detailOf(err, message); detail != "" {
		for _, line := range strings.Split(detail, "\n") {
			b.WriteString("  " + style(detailStyle, line) + "\n")
		}
	}
	if filename != "" {
		b.WriteString("  " + style(detailStyle, "in "+filename) + "\n")
	}
	return b.String()
}

func messageOf(err any) string {
	switch v := err.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// detailOf returns the long form of a thrown value when it adds anything
// beyond the message (wrapped errors, structured values).
func detailOf(err any, message string) string {
	switch v := err.(type) {
	case error:
		full := fmt.Sprintf("%+v", v)
		if full == message {
			return ""
		}
		return full
	case string:
		return ""
	default:
		return fmt.Sprintf("%#v", v)
	}
}
