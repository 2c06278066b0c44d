package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/cardarb/internal/arbitrage"
	"github.com/alanyoungcy/cardarb/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memDealStore struct {
	mu        sync.Mutex
	byListing map[string]domain.Deal
	err       error
}

func newMemDealStore() *memDealStore {
	return &memDealStore{byListing: make(map[string]domain.Deal)}
}

func (m *memDealStore) Insert(_ context.Context, d domain.Deal) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.byListing[d.Listing.ID]; ok {
		return false, nil
	}
	m.byListing[d.Listing.ID] = d
	return true, nil
}

func (m *memDealStore) GetByID(_ context.Context, id string) (domain.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.byListing {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Deal{}, domain.ErrNotFound
}

func (m *memDealStore) ListRecent(_ context.Context, opts domain.ListOpts) ([]domain.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Deal
	for _, d := range m.byListing {
		out = append(out, d)
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *memDealStore) ListExpiredBefore(context.Context, time.Time) ([]domain.Deal, error) {
	return nil, nil
}

func (m *memDealStore) DeleteExpiredBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type recordingBus struct {
	mu        sync.Mutex
	published map[string][][]byte
	streams   map[string][][]byte
	err       error
}

func newRecordingBus() *recordingBus {
	return &recordingBus{published: map[string][][]byte{}, streams: map[string][][]byte{}}
}

func (b *recordingBus) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.published[channel] = append(b.published[channel], payload)
	return nil
}

func (b *recordingBus) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, errors.New("not supported")
}

func (b *recordingBus) StreamAppend(_ context.Context, stream string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.streams[stream] = append(b.streams[stream], payload)
	return nil
}

func (b *recordingBus) StreamRead(context.Context, string, string, int) ([]domain.StreamMessage, error) {
	return nil, nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []string
}

func (a *recordingAudit) Log(_ context.Context, event string, _ map[string]any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
	return nil
}

func (a *recordingAudit) List(context.Context, domain.ListOpts) ([]domain.AuditEntry, error) {
	return nil, nil
}

type countingNotifier struct {
	mu    sync.Mutex
	deals []string
	err   error
}

func (n *countingNotifier) NotifyDeal(_ context.Context, d domain.Deal) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deals = append(n.deals, d.ID)
	return n.err
}

func testDeal(id, listingID string) domain.Deal {
	return domain.Deal{
		ID:        id,
		Listing:   domain.Listing{ID: listingID, Title: "Charizard 4/102"},
		CardID:    "base1-4",
		CardName:  "Charizard",
		Tier:      domain.TierStandard,
		ProfitGBP: 8,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestDealService_AddAsync(t *testing.T) {
	store := newMemDealStore()
	bus := newRecordingBus()
	audit := &recordingAudit{}
	notifier := &countingNotifier{}
	svc := NewDealService(store, bus, notifier, audit, discardLogger())

	added, err := svc.AddAsync(context.Background(), testDeal("d1", "l1"))
	require.NoError(t, err)
	assert.True(t, added)
	assert.Len(t, bus.published[domain.ChannelDeals], 1)
	assert.Contains(t, string(bus.published[domain.ChannelDeals][0]), `"deal_id":"d1"`)
	assert.Equal(t, []string{"d1"}, notifier.deals)
	assert.Equal(t, []string{AuditDealStored}, audit.events)

	t.Run("duplicate listing fans out nothing", func(t *testing.T) {
		added, err := svc.AddAsync(context.Background(), testDeal("d2", "l1"))
		require.NoError(t, err)
		assert.False(t, added)
		assert.Len(t, bus.published[domain.ChannelDeals], 1)
		assert.Equal(t, []string{"d1"}, notifier.deals)
	})
}

func TestDealService_FanOutFailuresAreSwallowed(t *testing.T) {
	bus := newRecordingBus()
	bus.err = errors.New("redis down")
	notifier := &countingNotifier{err: errors.New("telegram down")}
	svc := NewDealService(newMemDealStore(), bus, notifier, nil, discardLogger())

	added, err := svc.AddAsync(context.Background(), testDeal("d1", "l1"))
	require.NoError(t, err)
	assert.True(t, added)
}

func TestDealService_StoreError(t *testing.T) {
	store := newMemDealStore()
	store.err = errors.New("connection refused")
	notifier := &countingNotifier{}
	svc := NewDealService(store, nil, notifier, nil, discardLogger())

	added, err := svc.AddAsync(context.Background(), testDeal("d1", "l1"))
	require.Error(t, err)
	assert.False(t, added)
	assert.Empty(t, notifier.deals)
}

type fakeSource struct {
	results map[string][]domain.Listing
	errs    map[string]error
}

func (f *fakeSource) Search(_ context.Context, query string, _ domain.SearchFilters) ([]domain.Listing, error) {
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	return f.results[query], nil
}

type fakeProcessor struct {
	mu        sync.Mutex
	processed []string
	deals     map[string]bool
	begun     int
	swept     int
}

func (p *fakeProcessor) Process(_ context.Context, l domain.Listing) arbitrage.Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed = append(p.processed, l.ID)
	if p.deals[l.ID] {
		d := testDeal("deal-"+l.ID, l.ID)
		return arbitrage.Result{ListingID: l.ID, Stage: arbitrage.StageDeal, Matched: true, Deal: &d, Stored: true}
	}
	return arbitrage.Result{ListingID: l.ID, Stage: arbitrage.StageNotFound}
}

func (p *fakeProcessor) BeginScan() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.begun++
}

func (p *fakeProcessor) FinishScan() (arbitrage.ScanDiagnostics, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return arbitrage.ScanDiagnostics{Scanned: int64(len(p.processed))}, p.begun > 0
}

func (p *fakeProcessor) Sweep() arbitrage.SweepStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.swept++
	return arbitrage.SweepStats{}
}

type fakeLocks struct {
	held     bool
	acquired int
	released int
}

func (f *fakeLocks) Acquire(context.Context, string, time.Duration) (func(), error) {
	if f.held {
		return nil, domain.ErrLockHeld
	}
	f.acquired++
	return func() { f.released++ }, nil
}

func listings(ids ...string) []domain.Listing {
	out := make([]domain.Listing, len(ids))
	for i, id := range ids {
		out[i] = domain.Listing{ID: id, Title: fmt.Sprintf("listing %s", id)}
	}
	return out
}

func TestScanService_RunOnce(t *testing.T) {
	source := &fakeSource{
		results: map[string][]domain.Listing{
			"charizard": listings("a", "b", "c"),
			"pikachu":   listings("c", "d"),
		},
		errs: map[string]error{"mewtwo": errors.New("ebay 503")},
	}
	proc := &fakeProcessor{deals: map[string]bool{"b": true, "d": true}}
	locks := &fakeLocks{}
	bus := newRecordingBus()
	audit := &recordingAudit{}

	svc := NewScanService(source, proc, locks, bus, audit, ScanConfig{
		Queries:     []string{"charizard", "mewtwo", "pikachu"},
		Concurrency: 2,
	}, discardLogger())

	report, err := svc.RunOnce(context.Background())
	require.NoError(t, err)

	assert.False(t, report.Skipped)
	assert.Equal(t, 3, report.Queries)
	assert.Equal(t, 1, report.SourceErrors)
	assert.Equal(t, 4, report.Listings)
	assert.Equal(t, 2, report.Deals)
	assert.Equal(t, 2, report.Stored)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, proc.processed)

	require.NotNil(t, report.Diagnostics)
	assert.EqualValues(t, 4, report.Diagnostics.Scanned)
	assert.Len(t, bus.streams[domain.StreamScanDiagnostics], 1)
	require.Len(t, bus.published[domain.ChannelScans], 1)
	var published ScanReport
	require.NoError(t, json.Unmarshal(bus.published[domain.ChannelScans][0], &published))
	assert.Equal(t, 2, published.Deals)
	assert.Equal(t, []string{AuditScanCompleted}, audit.events)
	assert.Equal(t, 1, locks.acquired)
	assert.Equal(t, 1, locks.released)
}

func TestScanService_SkipsWhenLockHeld(t *testing.T) {
	proc := &fakeProcessor{}
	svc := NewScanService(&fakeSource{}, proc, &fakeLocks{held: true}, nil, nil,
		ScanConfig{Queries: []string{"charizard"}}, discardLogger())

	report, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Skipped)
	assert.Zero(t, proc.begun)
}

func TestScanService_CancelledContextSubmitsNothing(t *testing.T) {
	source := &fakeSource{results: map[string][]domain.Listing{"charizard": listings("a", "b")}}
	proc := &fakeProcessor{}
	svc := NewScanService(source, proc, nil, nil, nil,
		ScanConfig{Queries: []string{"charizard"}}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := svc.RunOnce(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, report.Listings)
	assert.Empty(t, proc.processed)
}

func TestScanService_RunStopsOnCancel(t *testing.T) {
	source := &fakeSource{results: map[string][]domain.Listing{"charizard": listings("a")}}
	proc := &fakeProcessor{}
	svc := NewScanService(source, proc, nil, nil, nil, ScanConfig{
		Queries:       []string{"charizard"},
		Interval:      time.Hour,
		SweepInterval: 5 * time.Millisecond,
	}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	require.Eventually(t, func() bool {
		proc.mu.Lock()
		defer proc.mu.Unlock()
		return len(proc.processed) == 1 && proc.swept > 0
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestScanService_Trigger(t *testing.T) {
	source := &fakeSource{results: map[string][]domain.Listing{"charizard": listings("a")}}
	proc := &fakeProcessor{}
	svc := NewScanService(source, proc, nil, nil, nil, ScanConfig{
		Queries:  []string{"charizard"},
		Interval: time.Hour,
	}, discardLogger())

	assert.True(t, svc.Trigger())
	assert.False(t, svc.Trigger(), "one pending trigger at a time")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	// The immediate scan plus the pending trigger.
	require.Eventually(t, func() bool {
		proc.mu.Lock()
		defer proc.mu.Unlock()
		return proc.begun == 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
