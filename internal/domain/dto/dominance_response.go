package dto

// DominancePointResponse is one day of the CEX/DEX market-share series.
type DominancePointResponse struct {
	Date          string  `json:"date" example:"2025-06-01"`
	Centralized   float64 `json:"centralized" example:"91.42"`
	Decentralized float64 `json:"decentralized" example:"8.58"`
}

// DominanceStatsResponse summarizes the dominance series returned alongside it.
type DominanceStatsResponse struct {
	Current    float64 `json:"current" example:"90.17"`
	Average    float64 `json:"average" example:"91.03"`
	Max        float64 `json:"max" example:"93.55"`
	Min        float64 `json:"min" example:"88.21"`
	Volatility float64 `json:"volatility" example:"1.12"`
}

// DominanceResponse is the JSON structure returned by GET /api/v1/dominance.
//
// Fields match the API contract and may differ from internal domain models.
// This ensures loose coupling between the API surface and business logic.
type DominanceResponse struct {
	Series []DominancePointResponse `json:"series"`
	Stats  DominanceStatsResponse   `json:"stats"`
}

// VolumePointResponse is one day of USD-converted total volume.
type VolumePointResponse struct {
	Date      string  `json:"date" example:"2025-06-01"`
	VolumeUSD float64 `json:"volume_usd" example:"183422011.55"`
}

// VolumeResponse is the JSON structure returned by GET /api/v1/volume.
type VolumeResponse struct {
	Series []VolumePointResponse `json:"series"`
}
