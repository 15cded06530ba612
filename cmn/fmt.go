package cmn

import (
	"fmt"
	"io"
	"os"
)

const (
	MediumMark        = "✓"
	MediumX           = "✕"
	MediumBulletPoint = "•"
)

/*
	Printer writes user facing output: statements, progress marks and errors.
	With Raw set no escape sequences or marks are written,
	which keeps the output usable as a script.
*/
type Printer struct {
	Out io.Writer
	Err io.Writer
	Raw bool
}

func PrinterNew(raw bool) *Printer {
	return &Printer{Out: os.Stdout, Err: os.Stderr, Raw: raw}
}

func (p *Printer) mark(w io.Writer, seq AnsiFlag, mark, prefix, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if p.Raw {
		fmt.Fprintf(w, "%s\n", msg)
		return
	}
	fmt.Fprintf(w, "%s%v%s%v %s\n", prefix, seq, mark, AttrOff, msg)
}

func (p *Printer) Success(prefix, format string, args ...interface{}) {
	p.mark(p.Err, ForeGreen, MediumMark, prefix, format, args...)
}

func (p *Printer) Warn(prefix, format string, args ...interface{}) {
	p.mark(p.Err, ForeYellow, MediumX, prefix, format, args...)
}

func (p *Printer) Notify(prefix, format string, args ...interface{}) {
	p.mark(p.Out, ForeBlue, MediumBulletPoint, prefix, format, args...)
}

func (p *Printer) Error(err error) {
	if p.Raw {
		fmt.Fprintf(p.Err, "%s\n", err)
		return
	}
	fmt.Fprintf(p.Err, "%v%s%v\n", ForeRed, err, AttrOff)
}

// Statement prints stmt terminated the way cqlsh expects it.
func (p *Printer) Statement(stmt string) {
	fmt.Fprintf(p.Out, "%s;\n", stmt)
}
