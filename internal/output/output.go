package output

import "io"

// Result is a command result that can be written as text or JSON.
type Result interface {
	Text(w io.Writer) error
	JSON() interface{}
}

// Output writes a Result in the formatter's format.
func (f *Formatter) Output(r Result) error {
	if f.IsJSON() {
		return f.JSON(r.JSON())
	}
	return r.Text(f.writer)
}

// DefaultFormatter returns a formatter based on the JSON flag and the
// environment.
func DefaultFormatter(jsonFlag bool) *Formatter {
	return New(WithJSON(DetectFormat(jsonFlag) == FormatJSON))
}
