package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/achilleasa/rt/types"
)

// A PixelWriter streams rows as raw binary PPM (P6) pixel data. The header
// is optional so that partial frames rendered by separate processes can be
// concatenated by an external gatherer.
type PixelWriter struct {
	w      *bufio.Writer
	width  int
	height int

	header        bool
	headerWritten bool

	buf []byte
}

// Create a writer for a width x height frame. If header is false only the
// pixel data is emitted.
func NewPixelWriter(w io.Writer, width, height int, header bool) *PixelWriter {
	return &PixelWriter{
		w:      bufio.NewWriter(w),
		width:  width,
		height: height,
		header: header,
		buf:    make([]byte, 3*width),
	}
}

// Write the PPM header for a width x height frame.
func WriteHeader(w io.Writer, width, height int) error {
	_, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", width, height)
	return err
}

// Tone-map and append a row of pixels. The row is flushed to the underlying
// writer before returning.
func (pw *PixelWriter) WriteRow(y int, row []types.Color) error {
	if y < 0 || y >= pw.height {
		return fmt.Errorf("%w: row %d; frame height %d", ErrRowOutOfRange, y, pw.height)
	}
	if len(row) != pw.width {
		return fmt.Errorf("%w: got %d pixels; expected %d", ErrRowWidth, len(row), pw.width)
	}

	if err := pw.writeHeader(); err != nil {
		return err
	}

	for x, c := range row {
		rgb := Bytes(ToneMap(c))
		copy(pw.buf[3*x:], rgb[:])
	}
	if _, err := pw.w.Write(pw.buf); err != nil {
		return err
	}
	return pw.w.Flush()
}

// Flush any buffered output. A frame with no rows still gets its header.
func (pw *PixelWriter) Flush() error {
	if err := pw.writeHeader(); err != nil {
		return err
	}
	return pw.w.Flush()
}

func (pw *PixelWriter) writeHeader() error {
	if !pw.header || pw.headerWritten {
		return nil
	}
	pw.headerWritten = true
	return WriteHeader(pw.w, pw.width, pw.height)
}
