package models

import "time"

// VolumeRecord is one day of trading volume for one exchange.
//
// Date carries day granularity only (UTC midnight). Volume is in the
// upstream's native unit and is not normalized across exchanges; USD
// conversion happens at aggregation time against a price table.
type VolumeRecord struct {
	ExchangeID string
	Date       time.Time
	Volume     float64
}

// VolumeWithExchange is a volume record joined with its owning exchange,
// as returned by the store for aggregation (which needs the Centralized flag).
type VolumeWithExchange struct {
	Record   VolumeRecord
	Exchange Exchange
}
