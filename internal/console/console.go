// Package console formats operator-facing terminal output. It holds no
// state beyond the destination writer.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// Printer writes styled status lines.
type Printer struct {
	out io.Writer
}

func New(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out}
}

// Writer returns the destination for unstyled output such as payload lines.
func (p *Printer) Writer() io.Writer {
	return p.out
}

func (p *Printer) Success(format string, a ...interface{}) {
	fmt.Fprint(p.out, pterm.Success.Sprintfln(format, a...))
}

func (p *Printer) Info(format string, a ...interface{}) {
	fmt.Fprint(p.out, pterm.Info.Sprintfln(format, a...))
}

func (p *Printer) Warn(format string, a ...interface{}) {
	fmt.Fprint(p.out, pterm.Warning.Sprintfln(format, a...))
}

func (p *Printer) Error(format string, a ...interface{}) {
	fmt.Fprint(p.out, pterm.Error.Sprintfln(format, a...))
}

// Stage announces a collector phase.
func (p *Printer) Stage(title string) {
	fmt.Fprint(p.out, pterm.DefaultSection.Sprintln(title))
}

// Item prints one indented list entry.
func (p *Printer) Item(format string, a ...interface{}) {
	fmt.Fprintf(p.out, "  %s %s\n", pterm.FgGreen.Sprint(">"), fmt.Sprintf(format, a...))
}

// Heading prints a bracketed category label, e.g. "[UNION]".
func (p *Printer) Heading(label string) {
	fmt.Fprintf(p.out, "\n%s\n", pterm.FgCyan.Sprintf("[%s]", strings.ToUpper(label)))
}

// Table renders rows under a header line.
func (p *Printer) Table(header []string, rows [][]string) error {
	data := pterm.TableData{header}
	data = append(data, rows...)
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	fmt.Fprintln(p.out, s)
	return nil
}

// DisableStyling strips colors, for non-interactive output.
func DisableStyling() {
	pterm.DisableStyling()
}
