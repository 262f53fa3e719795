package ui

import (
	"fmt"
	"io"
	"strings"
)

const ruleWidth = 60

// Printer writes the framed sections of the interactive flow.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Rule() {
	fmt.Fprintln(p.w, strings.Repeat("=", ruleWidth))
}

// Section prints title between two rules.
func (p *Printer) Section(title string) {
	p.Rule()
	fmt.Fprintln(p.w, title)
	p.Rule()
}

// Block prints body framed by rules under a heading.
func (p *Printer) Block(heading, body string) {
	fmt.Fprintf(p.w, "\n%s\n", heading)
	p.Rule()
	fmt.Fprint(p.w, body)
	if !strings.HasSuffix(body, "\n") {
		fmt.Fprintln(p.w)
	}
	p.Rule()
}

func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.w, "✓ "+format+"\n", args...)
}

func (p *Printer) Failure(format string, args ...any) {
	fmt.Fprintf(p.w, "✗ "+format+"\n", args...)
}

func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.w, "Warning: "+format+"\n", args...)
}

func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}
