package histogram

import "errors"

// Sentinel kinds for binning errors.
var (
	ErrNoData = errors.New("no finite values to bin")
)
