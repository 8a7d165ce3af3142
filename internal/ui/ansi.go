// Package ui renders todos and status lines for the command-line surface.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	reset = "\033[0m"
	bold  = "\033[1m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

// Printer writes themed output. Color is on only when out is a terminal,
// the theme has colors and the caller did not disable it.
type Printer struct {
	out   io.Writer
	err   io.Writer
	theme Theme
	color bool
}

// NewPrinter returns a Printer for out and errOut.
func NewPrinter(out, errOut io.Writer, theme string, noColor bool) *Printer {
	t := ThemeByName(theme)
	return &Printer{
		out:   out,
		err:   errOut,
		theme: t,
		color: !noColor && t.Name != "mono" && isTerminal(out),
	}
}

// SetColor forces color on or off.
func (p *Printer) SetColor(on bool) { p.color = on }

// Theme returns the active theme.
func (p *Printer) Theme() Theme { return p.theme }

// C wraps s in color when color output is enabled.
func (p *Printer) C(color, s string) string {
	if !p.color || color == "" {
		return s
	}
	return color + s + reset
}

// OK prints a success line to out.
func (p *Printer) OK(msg string) {
	fmt.Fprintln(p.out, p.C(p.theme.Success, symCheck+" "+msg))
}

// Fail prints an error line to the error writer.
func (p *Printer) Fail(msg string) {
	fmt.Fprintln(p.err, p.C(p.theme.Error, symCross+" "+msg))
}

// Println writes a plain line to out.
func (p *Printer) Println(s string) { fmt.Fprintln(p.out, s) }

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
