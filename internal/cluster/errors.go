package cluster

import "errors"

var (
	// ErrEmptyInput is returned when clustering is requested over zero colours.
	ErrEmptyInput = errors.New("no colours to cluster")

	// ErrInvalidThreshold is returned when a cut threshold is negative or NaN.
	ErrInvalidThreshold = errors.New("invalid threshold")
)
