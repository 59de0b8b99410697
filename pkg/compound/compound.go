package compound

var (
	// SecondsPerBlock default seconds per block
	SecondsPerBlock int64 = 15
	// BlocksPerYear blocks per year at 15 seconds per block
	BlocksPerYear uint64 = 2102400
)
