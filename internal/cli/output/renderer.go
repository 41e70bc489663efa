// Package output renders command results for humans and machines.
// Text mode styles output for terminals, markdown mode targets piped
// and scripted consumers, JSON mode targets tooling. Auto picks text
// on a TTY and markdown otherwise.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// OutputMode selects how command results are rendered.
type OutputMode string

const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Mode parses a mode name, defaulting to auto for anything unknown.
func Mode(s string) OutputMode {
	switch OutputMode(strings.ToLower(s)) {
	case ModeText, ModeMarkdown, ModeJSON:
		return OutputMode(strings.ToLower(s))
	default:
		return ModeAuto
	}
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

// rendererKey is used to store a renderer in the command context.
type rendererKey struct{}

// IntoContext stores the renderer in a context.
func IntoContext(ctx context.Context, r *Renderer) context.Context {
	return context.WithValue(ctx, rendererKey{}, r)
}

// FromContext retrieves the renderer from the command context, falling
// back to an auto-mode renderer on the standard streams.
func FromContext(ctx context.Context) *Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*Renderer); ok {
		return r
	}
	return NewRenderer(os.Stdout, os.Stderr, ModeAuto)
}

// Renderer writes mode-aware command output.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool
}

// NewRenderer creates a renderer, detecting TTY state from the output
// writer.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	return NewRendererWithTTY(out, errOut, detectTTY(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
// Tests use this to pin mode resolution.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	return &Renderer{out: out, errOut: errOut, mode: mode, isTTY: isTTY}
}

func detectTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EffectiveMode resolves auto to a concrete mode.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

func (r *Renderer) styled() bool {
	return r.EffectiveMode() == ModeText && r.isTTY
}

// Println writes a line to stdout.
func (r *Renderer) Println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

// Printf writes formatted output to stdout.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Header writes a section header at the given level.
func (r *Renderer) Header(level int, s string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatHeader(level, s))
		return
	}
	if r.styled() {
		r.Println(headerStyle.Render(s))
		return
	}
	r.Println(s)
}

// Success writes a success line.
func (r *Renderer) Success(s string) {
	if r.styled() {
		r.Println(successStyle.Render("✓ " + s))
		return
	}
	r.Println(s)
}

// Error writes an error line to stderr.
func (r *Renderer) Error(s string) {
	if r.styled() {
		_, _ = fmt.Fprintln(r.errOut, errorStyle.Render("✗ "+s))
		return
	}
	_, _ = fmt.Fprintln(r.errOut, s)
}

// Muted writes a low-emphasis line.
func (r *Renderer) Muted(s string) {
	if r.styled() {
		r.Println(mutedStyle.Render(s))
		return
	}
	r.Println(s)
}

// StatusLine writes a name with a status marker and optional detail.
func (r *Renderer) StatusLine(name, status, detail string) {
	marker := "-"
	switch status {
	case "success":
		marker = "✓"
		if r.styled() {
			marker = successStyle.Render("✓")
		}
	case "failed":
		marker = "✗"
		if r.styled() {
			marker = errorStyle.Render("✗")
		}
	}

	line := fmt.Sprintf("  %s %s", marker, name)
	if detail != "" {
		line += "  " + detail
		if r.styled() {
			line = fmt.Sprintf("  %s %s  %s", marker, name, mutedStyle.Render(detail))
		}
	}
	r.Println(line)
}

// KeyValue writes a "key: value" line appropriate to the mode.
func (r *Renderer) KeyValue(key, value string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatKeyValue(key, value))
		return
	}
	r.Printf("%-14s %s\n", key+":", value)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
