package cli

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// palette colours status marks when writing to a terminal.
type palette struct {
	ok   *color.Color
	fail *color.Color
	warn *color.Color
}

func newPalette(w io.Writer) *palette {
	p := &palette{
		ok:   color.New(color.FgGreen),
		fail: color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow),
	}
	enable := isTerminal(w) && !color.NoColor
	for _, c := range []*color.Color{p.ok, p.fail, p.warn} {
		if enable {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// mark returns a coloured ✓ or ✗.
func (p *palette) mark(pass bool) string {
	if pass {
		return p.ok.Sprint("✓")
	}
	return p.fail.Sprint("✗")
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
