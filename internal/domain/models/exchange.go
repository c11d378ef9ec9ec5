package models

// Exchange is a trading venue as reported by the upstream market-data API.
//
// Fields:
//   - ID: stable upstream identifier (e.g., "binance", "uniswap_v3").
//   - Name: human-readable display name.
//   - Centralized: upstream classification flag (CEX vs DEX). Sourced, not computed.
//
// Rows are created once per upstream identifier on first sighting and never
// mutated or deleted afterwards.
type Exchange struct {
	ID          string
	Name        string
	Centralized bool
}
