package dataset

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrUnknownMetric = errors.New("unknown metric")
	ErrNotLoaded     = errors.New("dataset not loaded")
	ErrEmptyDataset  = errors.New("dataset has no records")
)
