package models

// DominancePoint is one day in the centralized-vs-decentralized share series.
// Centralized and Decentralized are percentages of that day's total volume
// and always sum to 100.
type DominancePoint struct {
	Date          string
	Centralized   float64
	Decentralized float64
}

// DominanceStats summarizes a dominance series.
//
// Volatility is the population standard deviation of the centralized-share
// series (divide by N), not a returns-based measure.
type DominanceStats struct {
	Current    float64
	Average    float64
	Max        float64
	Min        float64
	Volatility float64
}

// DominanceReport is the full aggregation output: the ordered daily series
// plus its summary statistics.
type DominanceReport struct {
	Series []DominancePoint
	Stats  DominanceStats
}

// DailyVolumePoint is one day of total traded volume converted to USD.
type DailyVolumePoint struct {
	Date      string
	VolumeUSD float64
}
