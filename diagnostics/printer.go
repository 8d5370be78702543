package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ColorMode selects when the printer styles its output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode accepts "auto", "always" or "never"; the empty string means
// auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(s) {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways, ColorNever:
		return ColorMode(s), nil
	}
	return "", fmt.Errorf("invalid color mode %q: expected auto, always or never", s)
}

// Printer writes diagnostics for humans.
type Printer struct {
	w     io.Writer
	color bool

	location lipgloss.Style
	err      lipgloss.Style
	note     lipgloss.Style
	code     lipgloss.Style
}

// NewPrinter returns a Printer writing to w. With ColorAuto, output is styled
// only when w is a terminal.
func NewPrinter(w io.Writer, mode ColorMode) *Printer {
	color := mode == ColorAlways
	if mode == ColorAuto || mode == "" {
		color = isTerminal(w)
	}
	r := lipgloss.NewRenderer(w)
	if mode == ColorAlways {
		r.SetColorProfile(termenv.ANSI256)
	}
	return &Printer{
		w:        w,
		color:    color,
		location: r.NewStyle().Bold(true),
		err:      r.NewStyle().Foreground(lipgloss.Color("#F87171")).Bold(true),
		note:     r.NewStyle().Foreground(lipgloss.Color("#64748B")).Italic(true),
		code:     r.NewStyle().Foreground(lipgloss.Color("#FBBF24")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) style(s lipgloss.Style, text string) string {
	if !p.color || text == "" {
		return text
	}
	return s.Render(text)
}

// Print writes d and its notes.
func (p *Printer) Print(d Diagnostic) error {
	line := p.style(p.location, location(d.File, d.Line)) + p.style(p.err, "error:") + " " + d.Message
	if d.Code != "" {
		line += " " + p.style(p.code, "["+string(d.Code)+"]")
	}
	if _, err := fmt.Fprintln(p.w, line); err != nil {
		return err
	}
	for _, n := range d.Notes {
		if _, err := fmt.Fprintln(p.w, p.style(p.location, strings.TrimRight(location(n.File, n.Line), " "))+"    "+p.style(p.note, n.Message)); err != nil {
			return err
		}
	}
	return nil
}

// PrintErr prints every diagnostic carried by err, or err itself when it is
// not a diagnostic. It returns the number of entries printed.
func (p *Printer) PrintErr(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	ds, ok := As(err)
	if !ok {
		ds = []Diagnostic{{Message: err.Error()}}
	}
	for _, d := range ds {
		if perr := p.Print(d); perr != nil {
			return 0, perr
		}
	}
	return len(ds), nil
}
