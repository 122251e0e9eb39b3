// Package pprint provides rich terminal output formatting for the apiprobe CLI:
// status lines, key/value rows, section headers, a spinner and a countdown bar.
package pprint

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ─────────────────────────────────────────────────────────────────────────────
// Colour palette
// ─────────────────────────────────────────────────────────────────────────────

var (
	ColorPrimary = lipgloss.Color("#7B8CDE") // blue-purple
	ColorAccent  = lipgloss.Color("#56E0C8") // Teal
	ColorSuccess = lipgloss.Color("#48BB78") // Green
	ColorWarning = lipgloss.Color("#F6AD55") // Amber
	ColorError   = lipgloss.Color("#FC8181") // Red
	ColorMuted   = lipgloss.Color("#4A5568") // Grey
	ColorText    = lipgloss.Color("#E2E8F0") // Off-white
)

// labelWidth is the column keys are padded to by KV.
const labelWidth = 28

// ─────────────────────────────────────────────────────────────────────────────
// Printer
// ─────────────────────────────────────────────────────────────────────────────

// Printer renders styled output to a pair of writers. Styles are bound to a
// renderer for out, so colour is dropped automatically when out is not a
// terminal.
type Printer struct {
	out    io.Writer
	errOut io.Writer

	interactive bool

	success lipgloss.Style
	warning lipgloss.Style
	errStyl lipgloss.Style
	muted   lipgloss.Style
	accent  lipgloss.Style
	primary lipgloss.Style
	text    lipgloss.Style
}

// New creates a Printer writing regular output to out and errors to errOut.
func New(out, errOut io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:         out,
		errOut:      errOut,
		interactive: isTerminal(out),
		success:     r.NewStyle().Foreground(ColorSuccess).Bold(true),
		warning:     r.NewStyle().Foreground(ColorWarning).Bold(true),
		errStyl:     r.NewStyle().Foreground(ColorError).Bold(true),
		muted:       r.NewStyle().Foreground(ColorMuted),
		accent:      r.NewStyle().Foreground(ColorAccent).Bold(true),
		primary:     r.NewStyle().Foreground(ColorPrimary).Bold(true),
		text:        r.NewStyle().Foreground(ColorText),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Success prints a green ✓ success line.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.out, p.success.Render("✓ ")+p.text.Render(fmt.Sprintf(format, args...)))
}

// Warn prints an amber ⚠ warning line.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.out, p.warning.Render("⚠ ")+p.text.Render(fmt.Sprintf(format, args...)))
}

// Error prints a red ✗ error line to the error writer.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.errOut, p.errStyl.Render("✗ ")+p.text.Render(fmt.Sprintf(format, args...)))
}

// Fail prints a red ✗ line to the regular writer, for probe verdicts that
// belong in the run transcript.
func (p *Printer) Fail(format string, args ...any) {
	fmt.Fprintln(p.out, p.errStyl.Render("✗ ")+p.text.Render(fmt.Sprintf(format, args...)))
}

// Info prints a dimmed info line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.out, p.muted.Render("  "+fmt.Sprintf(format, args...)))
}

// Step prints a step with an index indicator.
func (p *Printer) Step(n int, total int, format string, args ...any) {
	idx := p.primary.Render(fmt.Sprintf("[%d/%d]", n, total))
	fmt.Fprintln(p.out, idx+" "+p.text.Render(fmt.Sprintf(format, args...)))
}

// Header prints a section header.
func (p *Printer) Header(title string) {
	bar := strings.Repeat("─", 60)
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.primary.Render(bar))
	fmt.Fprintln(p.out, p.primary.Render(" ◉ "+strings.ToUpper(title)))
	fmt.Fprintln(p.out, p.primary.Render(bar))
}

// KV prints a labelled key-value pair.
func (p *Printer) KV(key, value string) {
	fmt.Fprintln(p.out, p.primary.Render(fmt.Sprintf("%-*s ", labelWidth, key))+p.text.Render(value))
}

// Verdict prints key followed by OK or FALLO.
func (p *Printer) Verdict(key string, ok bool) {
	label := p.primary.Render(fmt.Sprintf("%-*s ", labelWidth, key))
	if ok {
		fmt.Fprintln(p.out, label+p.success.Render("✓ OK"))
		return
	}
	fmt.Fprintln(p.out, label+p.errStyl.Render("✗ FALLO"))
}

// Raw prints body verbatim, unstyled. Used for response previews.
func (p *Printer) Raw(label, body string) {
	fmt.Fprintln(p.out, p.primary.Render(label))
	fmt.Fprintln(p.out, body)
}

// Println writes an empty line.
func (p *Printer) Println() {
	fmt.Fprintln(p.out)
}
