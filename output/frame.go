package output

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/achilleasa/rt/types"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

type Format uint8

const (
	PPM Format = iota
	PNG
	BMP
	TIFF
)

func (f Format) String() string {
	switch f {
	case PPM:
		return "ppm"
	case PNG:
		return "png"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	}
	return fmt.Sprintf("format(%d)", uint8(f))
}

// Select an image format based on the file extension. Paths without an
// extension (and "-" for stdout) map to PPM.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case "", ".ppm":
		return PPM, nil
	case ".png":
		return PNG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	}
	return PPM, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// A Frame accumulates tone-mapped rows into an in-memory image so it can be
// encoded once rendering completes.
type Frame struct {
	img *image.NRGBA
}

// Create an empty frame.
func NewFrame(width, height int) *Frame {
	return &Frame{
		img: image.NewNRGBA(image.Rect(0, 0, width, height)),
	}
}

// Store a row of pixels.
func (f *Frame) WriteRow(y int, row []types.Color) error {
	bounds := f.img.Bounds()
	if y < 0 || y >= bounds.Dy() {
		return fmt.Errorf("%w: row %d; frame height %d", ErrRowOutOfRange, y, bounds.Dy())
	}
	if len(row) != bounds.Dx() {
		return fmt.Errorf("%w: got %d pixels; expected %d", ErrRowWidth, len(row), bounds.Dx())
	}

	for x, c := range row {
		rgb := Bytes(ToneMap(c))
		f.img.SetNRGBA(x, y, color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255})
	}
	return nil
}

// Get the frame image.
func (f *Frame) Image() image.Image {
	return f.img
}

// Encode the frame using the given format.
func (f *Frame) Encode(w io.Writer, format Format) error {
	switch format {
	case PPM:
		return f.encodePPM(w)
	case PNG:
		return png.Encode(w, f.img)
	case BMP:
		return bmp.Encode(w, f.img)
	case TIFF:
		return tiff.Encode(w, f.img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

func (f *Frame) encodePPM(w io.Writer) error {
	bounds := f.img.Bounds()
	if err := WriteHeader(w, bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}

	row := make([]byte, 3*bounds.Dx())
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			off := f.img.PixOffset(x, y)
			copy(row[3*x:3*x+3], f.img.Pix[off:off+3])
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
