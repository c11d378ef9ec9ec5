package ingestion

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/SmoothBot/exchange-volume/internal/coingecko"
	"github.com/SmoothBot/exchange-volume/internal/domain/models"
)

// fakeClient implements MarketDataClient with canned responses and call counters.
type fakeClient struct {
	listings []coingecko.ExchangeListing
	listErr  error

	details   map[string]*coingecko.ExchangeDetail
	detailErr map[string]error

	charts   map[string][]coingecko.VolumePoint
	chartErr map[string]error

	listCalls    int
	resolveCalls map[string]int
	chartCalls   map[string]int
}

func (f *fakeClient) ListExchanges(context.Context) ([]coingecko.ExchangeListing, error) {
	f.listCalls++
	return f.listings, f.listErr
}

func (f *fakeClient) GetExchange(_ context.Context, id string) (*coingecko.ExchangeDetail, error) {
	if f.resolveCalls == nil {
		f.resolveCalls = map[string]int{}
	}
	f.resolveCalls[id]++
	if err := f.detailErr[id]; err != nil {
		return nil, err
	}
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return nil, coingecko.ErrNotFound
}

func (f *fakeClient) GetVolumeChart(_ context.Context, id string) ([]coingecko.VolumePoint, error) {
	if f.chartCalls == nil {
		f.chartCalls = map[string]int{}
	}
	f.chartCalls[id]++
	if err := f.chartErr[id]; err != nil {
		return nil, err
	}
	return f.charts[id], nil
}

// fakeRepo implements storage.Repository in memory.
type fakeRepo struct {
	exchanges map[string]models.Exchange
	volumes   map[string][]models.VolumeRecord

	existsErr error
	insertErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		exchanges: map[string]models.Exchange{},
		volumes:   map[string][]models.VolumeRecord{},
	}
}

func (f *fakeRepo) ExchangeExists(id string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.exchanges[id]
	return ok, nil
}

func (f *fakeRepo) InsertExchange(ex models.Exchange) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.exchanges[ex.ID] = ex
	return nil
}

func (f *fakeRepo) ListExchanges() ([]models.Exchange, error) {
	out := make([]models.Exchange, 0, len(f.exchanges))
	for _, ex := range f.exchanges {
		out = append(out, ex)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRepo) HasVolumeRecords(exchangeID string) (bool, error) {
	return len(f.volumes[exchangeID]) > 0, nil
}

func (f *fakeRepo) InsertVolumeBatch(records []models.VolumeRecord) error {
	for _, r := range records {
		f.volumes[r.ExchangeID] = append(f.volumes[r.ExchangeID], r)
	}
	return nil
}

func (f *fakeRepo) AllVolumesWithExchanges() ([]models.VolumeWithExchange, error) {
	var out []models.VolumeWithExchange
	for id, recs := range f.volumes {
		for _, r := range recs {
			out = append(out, models.VolumeWithExchange{Record: r, Exchange: f.exchanges[id]})
		}
	}
	return out, nil
}

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func twoExchangeClient() *fakeClient {
	return &fakeClient{
		listings: []coingecko.ExchangeListing{
			{ID: "binance", Name: "Binance"},
			{ID: "uniswap_v3", Name: "Uniswap V3"},
		},
		details: map[string]*coingecko.ExchangeDetail{
			"binance":    {Name: "Binance", Centralized: true},
			"uniswap_v3": {Name: "Uniswap V3", Centralized: false},
		},
		charts: map[string][]coingecko.VolumePoint{
			"binance":    {{Date: day(1), Volume: 100}, {Date: day(2), Volume: 110}},
			"uniswap_v3": {{Date: day(1), Volume: 300}},
		},
	}
}

func TestRun_FirstRunIngestsEverything(t *testing.T) {
	client := twoExchangeClient()
	repo := newFakeRepo()

	sum, err := NewOrchestrator(client, repo, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sum.ExchangesDiscovered != 2 || sum.ExchangesInserted != 2 {
		t.Fatalf("unexpected metadata counters: %+v", sum)
	}
	if sum.SeriesStored != 2 || sum.RecordsStored != 3 {
		t.Fatalf("unexpected volume counters: %+v", sum)
	}
	if !repo.exchanges["binance"].Centralized || repo.exchanges["uniswap_v3"].Centralized {
		t.Fatalf("centralized flags not taken from resolved detail")
	}
	if len(repo.volumes["binance"]) != 2 || len(repo.volumes["uniswap_v3"]) != 1 {
		t.Fatalf("unexpected stored volumes: %+v", repo.volumes)
	}
}

func TestRun_SecondRunIsNoop(t *testing.T) {
	client := twoExchangeClient()
	repo := newFakeRepo()
	orch := NewOrchestrator(client, repo, nil)

	if _, err := orch.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	sum, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if sum.ExchangesInserted != 0 || sum.ExchangesSkipped != 2 {
		t.Fatalf("second run inserted exchanges: %+v", sum)
	}
	if sum.SeriesStored != 0 || sum.SeriesSkipped != 2 {
		t.Fatalf("second run stored series: %+v", sum)
	}
	// No repeat resolve or chart calls for already-ingested exchanges.
	if client.resolveCalls["binance"] != 1 || client.resolveCalls["uniswap_v3"] != 1 {
		t.Fatalf("detail re-resolved on second run: %+v", client.resolveCalls)
	}
	if client.chartCalls["binance"] != 1 || client.chartCalls["uniswap_v3"] != 1 {
		t.Fatalf("chart re-fetched on second run: %+v", client.chartCalls)
	}
}

func TestRun_SkipListNeverPersistedOrFetched(t *testing.T) {
	client := twoExchangeClient()
	// The skipped id appears in the listing on every run.
	client.listings = append(client.listings, coingecko.ExchangeListing{ID: "magicsea-v2.1-iota-evm", Name: "MagicSea"})
	repo := newFakeRepo()
	orch := NewOrchestrator(client, repo, []string{"magicsea-v2.1-iota-evm"})

	for i := 0; i < 2; i++ {
		if _, err := orch.Run(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}

	if _, ok := repo.exchanges["magicsea-v2.1-iota-evm"]; ok {
		t.Fatalf("excluded exchange was persisted")
	}
	if client.resolveCalls["magicsea-v2.1-iota-evm"] != 0 || client.chartCalls["magicsea-v2.1-iota-evm"] != 0 {
		t.Fatalf("excluded exchange was fetched upstream")
	}
}

func TestRun_MetadataFailureAborts(t *testing.T) {
	client := twoExchangeClient()
	client.detailErr = map[string]error{"binance": errors.New("upstream down")}
	repo := newFakeRepo()

	_, err := NewOrchestrator(client, repo, nil).Run(context.Background())
	if err == nil {
		t.Fatalf("expected metadata-phase error to abort the run")
	}
	// Fail fast: the second listing item is never processed.
	if client.resolveCalls["uniswap_v3"] != 0 {
		t.Fatalf("loop continued past metadata failure")
	}
	if len(repo.volumes) != 0 {
		t.Fatalf("volume phase ran despite metadata abort")
	}
}

func TestRun_VolumeFailureIsIsolated(t *testing.T) {
	client := twoExchangeClient()
	// "Binance" sorts before "Uniswap V3"; fail the first one.
	client.chartErr = map[string]error{"binance": &coingecko.TransportError{URL: "/volume_chart", Status: 502}}
	repo := newFakeRepo()

	sum, err := NewOrchestrator(client, repo, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("volume-phase failure must not abort the run: %v", err)
	}
	if sum.SeriesFailed != 1 || sum.SeriesStored != 1 {
		t.Fatalf("unexpected counters: %+v", sum)
	}
	if len(repo.volumes["uniswap_v3"]) != 1 {
		t.Fatalf("later exchange not ingested after earlier failure")
	}
	if len(repo.volumes["binance"]) != 0 {
		t.Fatalf("failed exchange has records")
	}
}

func TestRun_ExistingRecordsSkipUpstreamEntirely(t *testing.T) {
	client := twoExchangeClient()
	repo := newFakeRepo()
	repo.exchanges["binance"] = models.Exchange{ID: "binance", Name: "Binance", Centralized: true}
	repo.volumes["binance"] = []models.VolumeRecord{{ExchangeID: "binance", Date: day(1), Volume: 42}}

	sum, err := NewOrchestrator(client, repo, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if client.chartCalls["binance"] != 0 {
		t.Fatalf("volume phase fetched an already-ingested exchange")
	}
	if sum.SeriesSkipped != 1 {
		t.Fatalf("skip not counted: %+v", sum)
	}
	// The pre-existing single record must stay as-is.
	if len(repo.volumes["binance"]) != 1 {
		t.Fatalf("records were added to an already-ingested exchange")
	}
}

func TestRun_EmptySeriesIsNotStored(t *testing.T) {
	client := twoExchangeClient()
	client.charts["binance"] = nil
	repo := newFakeRepo()

	sum, err := NewOrchestrator(client, repo, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.SeriesStored != 1 {
		t.Fatalf("unexpected counters: %+v", sum)
	}
	if len(repo.volumes["binance"]) != 0 {
		t.Fatalf("empty series produced records")
	}
	// Still pending: the exchange can be retried on the next run.
	if has, _ := repo.HasVolumeRecords("binance"); has {
		t.Fatalf("empty series marked exchange as ingested")
	}
}

func TestRun_CancelledContextAbortsVolumePhase(t *testing.T) {
	client := twoExchangeClient()
	repo := newFakeRepo()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewOrchestrator(client, repo, nil).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
