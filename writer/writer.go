// Package writer is the file-output half of the G-code backend boundary
// (spec.md §1): it only knows how to persist already-rendered text.
package writer

import "os"

// GCodeWriter writes rendered G-code text to a file.
type GCodeWriter interface {
	Write(gcode string, filename string) error
}

type writer struct{}

// Writer returns the default file-based GCodeWriter.
func Writer() GCodeWriter {
	return &writer{}
}

func (w writer) Write(gcode string, filename string) error {
	buf, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer buf.Close()

	_, err = buf.WriteString(gcode)
	return err
}
