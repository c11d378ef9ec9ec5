// Package ingestion drives the two-phase pipeline that pulls exchange
// metadata and volume history from the upstream API into the store.
//
// Failure handling is deliberately asymmetric. The metadata phase fails fast:
// an incomplete exchange catalog would skew every downstream aggregate, so
// any error aborts the run. The volume phase isolates failures per exchange:
// a broken series for one venue does not invalidate the rest, so errors are
// logged and the loop moves on.
package ingestion

import (
	"context"
	"fmt"

	"github.com/SmoothBot/exchange-volume/internal/coingecko"
	"github.com/SmoothBot/exchange-volume/internal/domain/models"
	"github.com/SmoothBot/exchange-volume/internal/logger"
	"github.com/SmoothBot/exchange-volume/internal/storage"
)

// MarketDataClient is the slice of the upstream client the orchestrator needs.
type MarketDataClient interface {
	ListExchanges(ctx context.Context) ([]coingecko.ExchangeListing, error)
	GetExchange(ctx context.Context, id string) (*coingecko.ExchangeDetail, error)
	GetVolumeChart(ctx context.Context, id string) ([]coingecko.VolumePoint, error)
}

// Summary holds per-run counters, logged at completion.
type Summary struct {
	ExchangesDiscovered int
	ExchangesInserted   int
	ExchangesSkipped    int
	ExchangesExcluded   int
	SeriesStored        int
	SeriesSkipped       int
	SeriesFailed        int
	RecordsStored       int
}

// Orchestrator composes the upstream client and the store into the
// ingestion pipeline. It holds no state between runs; all idempotence
// derives from store existence checks.
type Orchestrator struct {
	client MarketDataClient
	repo   storage.Repository
	skip   map[string]struct{}
}

// NewOrchestrator builds an Orchestrator. skipIDs lists upstream exchange
// identifiers that must never be persisted or fetched for volume.
func NewOrchestrator(client MarketDataClient, repo storage.Repository, skipIDs []string) *Orchestrator {
	skip := make(map[string]struct{}, len(skipIDs))
	for _, id := range skipIDs {
		skip[id] = struct{}{}
	}
	return &Orchestrator{client: client, repo: repo, skip: skip}
}

// Run executes the metadata phase followed by the volume phase and returns
// the run summary. Re-running against unchanged upstream data is a no-op:
// known exchanges and already-ingested volume series are skipped.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	sum := &Summary{}

	if err := o.syncExchanges(ctx, sum); err != nil {
		return sum, fmt.Errorf("metadata phase: %w", err)
	}
	if err := o.syncVolumes(ctx, sum); err != nil {
		return sum, fmt.Errorf("volume phase: %w", err)
	}

	logger.L().Info().
		Int("exchanges_discovered", sum.ExchangesDiscovered).
		Int("exchanges_inserted", sum.ExchangesInserted).
		Int("exchanges_skipped", sum.ExchangesSkipped).
		Int("exchanges_excluded", sum.ExchangesExcluded).
		Int("series_stored", sum.SeriesStored).
		Int("series_skipped", sum.SeriesSkipped).
		Int("series_failed", sum.SeriesFailed).
		Int("records_stored", sum.RecordsStored).
		Msg("ingestion run complete")

	return sum, nil
}

// syncExchanges is the metadata phase: walk the upstream listing and persist
// every exchange not yet known and not excluded. Any failure aborts the run.
func (o *Orchestrator) syncExchanges(ctx context.Context, sum *Summary) error {
	listings, err := o.client.ListExchanges(ctx)
	if err != nil {
		return fmt.Errorf("list exchanges: %w", err)
	}
	sum.ExchangesDiscovered = len(listings)
	logger.L().Info().Int("exchanges", len(listings)).Msg("upstream listing collected")

	for _, l := range listings {
		if _, excluded := o.skip[l.ID]; excluded {
			sum.ExchangesExcluded++
			logger.L().Debug().Str("exchange", l.ID).Msg("excluded by skip list")
			continue
		}

		// Exists check runs before resolve to avoid a wasted upstream call.
		exists, err := o.repo.ExchangeExists(l.ID)
		if err != nil {
			return fmt.Errorf("exists check %s: %w", l.ID, err)
		}
		if exists {
			sum.ExchangesSkipped++
			logger.L().Debug().Str("exchange", l.ID).Msg("exchange already stored")
			continue
		}

		detail, err := o.client.GetExchange(ctx, l.ID)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", l.ID, err)
		}
		ex := models.Exchange{ID: l.ID, Name: detail.Name, Centralized: detail.Centralized}
		if err := o.repo.InsertExchange(ex); err != nil {
			return fmt.Errorf("insert exchange %s: %w", l.ID, err)
		}
		sum.ExchangesInserted++
		logger.L().Info().Str("exchange", l.ID).Bool("centralized", ex.Centralized).Msg("exchange stored")
	}

	return nil
}

// syncVolumes is the volume phase: for every stored exchange, in name order,
// fetch and persist its volume window unless it already has records. Errors
// are contained per exchange; only a cancelled context aborts the loop.
func (o *Orchestrator) syncVolumes(ctx context.Context, sum *Summary) error {
	exchanges, err := o.repo.ListExchanges()
	if err != nil {
		return fmt.Errorf("list stored exchanges: %w", err)
	}

	for _, ex := range exchanges {
		if err := ctx.Err(); err != nil {
			return err
		}

		has, err := o.repo.HasVolumeRecords(ex.ID)
		if err != nil {
			sum.SeriesFailed++
			logger.L().Error().Str("exchange", ex.ID).Err(err).Msg("volume presence check failed")
			continue
		}
		if has {
			sum.SeriesSkipped++
			logger.L().Debug().Str("exchange", ex.ID).Msg("volume series already ingested")
			continue
		}

		points, err := o.client.GetVolumeChart(ctx, ex.ID)
		if err != nil {
			sum.SeriesFailed++
			logger.L().Error().Str("exchange", ex.ID).Err(err).Msg("volume fetch failed")
			continue
		}
		if len(points) == 0 {
			logger.L().Warn().Str("exchange", ex.ID).Msg("upstream returned empty volume series")
			continue
		}

		records := make([]models.VolumeRecord, 0, len(points))
		for _, p := range points {
			records = append(records, models.VolumeRecord{
				ExchangeID: ex.ID,
				Date:       p.Date,
				Volume:     p.Volume,
			})
		}
		if err := o.repo.InsertVolumeBatch(records); err != nil {
			sum.SeriesFailed++
			logger.L().Error().Str("exchange", ex.ID).Err(err).Msg("volume batch insert failed")
			continue
		}

		sum.SeriesStored++
		sum.RecordsStored += len(records)
		logger.L().Info().Str("exchange", ex.ID).Int("records", len(records)).Msg("volume series stored")
	}

	return nil
}
