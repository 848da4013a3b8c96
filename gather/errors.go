package gather

import "errors"

var (
	ErrNoHosts       = errors.New("gather: no hosts specified")
	ErrTooManyHosts  = errors.New("gather: too many hosts")
	ErrTooFewRows    = errors.New("gather: image has fewer rows than hosts")
	ErrWorkerOutput  = errors.New("gather: worker reported an error")
	ErrShortFragment = errors.New("gather: worker fragment is incomplete")
	ErrFragmentSize  = errors.New("gather: fragment sizes do not match the row layout")
)
