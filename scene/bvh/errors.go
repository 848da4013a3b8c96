package bvh

import "errors"

var (
	ErrNoObjects        = errors.New("bvh: no objects to partition")
	ErrCapacityExceeded = errors.New("bvh: too many primitives")
	ErrStackCapacity    = errors.New("bvh: hierarchy exceeds traversal stack capacity")
)
