// Package service holds the aggregation business logic on top of the store.
package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/SmoothBot/exchange-volume/internal/domain/models"
	"github.com/SmoothBot/exchange-volume/internal/logger"
	"github.com/SmoothBot/exchange-volume/internal/storage"
)

const dateLayout = "2006-01-02"

// DominanceService computes market-share aggregates over persisted volumes.
type DominanceService interface {
	DominanceReport(ctx context.Context) (*models.DominanceReport, error)
	DailyVolumeUSD(ctx context.Context, prices PriceTable) ([]models.DailyVolumePoint, error)
}

type dominanceService struct {
	repo storage.Repository
}

func NewDominanceService(repo storage.Repository) DominanceService {
	return &dominanceService{repo: repo}
}

func (s *dominanceService) DominanceReport(_ context.Context) (*models.DominanceReport, error) {
	rows, err := s.repo.AllVolumesWithExchanges()
	if err != nil {
		return nil, fmt.Errorf("load volume records: %w", err)
	}
	return Aggregate(rows), nil
}

func (s *dominanceService) DailyVolumeUSD(_ context.Context, prices PriceTable) ([]models.DailyVolumePoint, error) {
	rows, err := s.repo.AllVolumesWithExchanges()
	if err != nil {
		return nil, fmt.Errorf("load volume records: %w", err)
	}
	return AggregateVolumeUSD(rows, prices), nil
}

// Aggregate buckets volume records by UTC calendar date and computes the
// daily centralized-exchange share of total volume, plus summary statistics.
//
// Days whose total volume is zero carry no share information (0/0) and are
// dropped from the series rather than emitted as NaN.
func Aggregate(rows []models.VolumeWithExchange) *models.DominanceReport {
	type bucket struct {
		centralized float64
		total       float64
	}
	buckets := make(map[string]*bucket)

	for _, r := range rows {
		key := r.Record.Date.UTC().Format(dateLayout)
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.total += r.Record.Volume
		if r.Exchange.Centralized {
			b.centralized += r.Record.Volume
		}
	}

	dates := make([]string, 0, len(buckets))
	for d, b := range buckets {
		if b.total == 0 {
			logger.L().Debug().Str("date", d).Msg("dropping zero-volume day from dominance series")
			continue
		}
		dates = append(dates, d)
	}
	// Lexicographic order equals chronological order for zero-padded dates.
	sort.Strings(dates)

	series := make([]models.DominancePoint, 0, len(dates))
	for _, d := range dates {
		b := buckets[d]
		dominance := b.centralized / b.total * 100
		series = append(series, models.DominancePoint{
			Date:          d,
			Centralized:   dominance,
			Decentralized: 100 - dominance,
		})
	}

	return &models.DominanceReport{Series: series, Stats: summarize(series)}
}

// summarize computes the scalar statistics over the centralized-share series.
func summarize(series []models.DominancePoint) models.DominanceStats {
	if len(series) == 0 {
		return models.DominanceStats{}
	}

	stats := models.DominanceStats{
		Current: series[len(series)-1].Centralized,
		Max:     math.Inf(-1),
		Min:     math.Inf(1),
	}

	var sum float64
	for _, p := range series {
		sum += p.Centralized
		if p.Centralized > stats.Max {
			stats.Max = p.Centralized
		}
		if p.Centralized < stats.Min {
			stats.Min = p.Centralized
		}
	}
	n := float64(len(series))
	stats.Average = sum / n

	var sq float64
	for _, p := range series {
		d := p.Centralized - stats.Average
		sq += d * d
	}
	// Population standard deviation: divide by N, not N-1.
	stats.Volatility = math.Sqrt(sq / n)

	return stats
}

// AggregateVolumeUSD converts each day's native-unit volumes to USD against
// the supplied price table and sums them per date.
//
// A date missing from the price table contributes zero volume for that day;
// the day still appears in the output and the gap is logged so it is visible
// rather than silently trusted.
func AggregateVolumeUSD(rows []models.VolumeWithExchange, prices PriceTable) []models.DailyVolumePoint {
	totals := make(map[string]float64)
	missing := make(map[string]struct{})

	for _, r := range rows {
		key := r.Record.Date.UTC().Format(dateLayout)
		price, ok := prices[key]
		if !ok {
			missing[key] = struct{}{}
			totals[key] += 0
			continue
		}
		totals[key] += r.Record.Volume * price
	}

	if len(missing) > 0 {
		logger.L().Warn().
			Int("missing_price_days", len(missing)).
			Msg("days without price data contributed zero USD volume")
	}

	dates := make([]string, 0, len(totals))
	for d := range totals {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]models.DailyVolumePoint, 0, len(dates))
	for _, d := range dates {
		out = append(out, models.DailyVolumePoint{Date: d, VolumeUSD: totals[d]})
	}
	return out
}
