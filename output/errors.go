package output

import "errors"

var (
	ErrUnsupportedFormat = errors.New("output: unsupported image format")
	ErrRowOutOfRange     = errors.New("output: row outside frame")
	ErrRowWidth          = errors.New("output: row width does not match frame width")
)
