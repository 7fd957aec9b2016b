package reputation

// Withdrawal limits are expressed in basis points of the pool balance
// (1000 = 10%). ScaleDenominator converts a limit into an amount.
const (
	BaseLimit uint32 = 1000
	MaxLimit  uint32 = 2000
	MinLimit  uint32 = 500

	ScaleDenominator int64 = 10000

	// Like ratio is per mille of total votes; outside the (lowBand, highBand)
	// window the limit is pinned to the extremes.
	ratioScale uint64 = 1000
	highBand   uint64 = 800
	lowBand    uint64 = 200
)

// Limit maps vote counters to a withdrawal limit in basis points.
// All arithmetic uses truncating integer division; the piecewise shape is
// flat at the extremes and linear in the middle band.
func Limit(likes, dislikes uint64) uint32 {
	total := likes + dislikes
	if total == 0 {
		// No votes recorded yet. Normal flow never reaches this branch since
		// a vote always precedes recomputation.
		return BaseLimit
	}

	ratio := likes * ratioScale / total
	switch {
	case ratio >= highBand:
		return MaxLimit
	case ratio <= lowBand:
		return MinLimit
	default:
		return MinLimit + uint32((ratio-lowBand)*uint64(MaxLimit-MinLimit)/(highBand-lowBand))
	}
}
