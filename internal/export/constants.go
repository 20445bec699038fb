package export

// HTTP status code constants.
const (
	StatusOK = 200
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Statistics constants.
const (
	PercentageMultiplier = 100
)
