package reader

import "errors"

var (
	ErrUnexpectedEOF        = errors.New("reader: unexpected end of file")
	ErrNoSurface            = errors.New("reader: primitive defined before any surface")
	ErrNestedInstance       = errors.New("reader: instance definitions cannot be nested")
	ErrTooManyInstances     = errors.New("reader: too many instances defined")
	ErrUnknownInstance      = errors.New("reader: instance was never defined")
	ErrUnterminatedInstance = errors.New("reader: missing end_instance")
	ErrNoResolution         = errors.New("reader: no resolution record found")
)
