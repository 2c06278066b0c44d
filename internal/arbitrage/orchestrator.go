// Package arbitrage decides whether a marketplace listing is an underpriced
// card. The Orchestrator runs each listing through an ordered sequence of
// stages and returns a typed Result for every business outcome.
package arbitrage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/cardarb/internal/cache"
	"github.com/alanyoungcy/cardarb/internal/domain"
	"github.com/alanyoungcy/cardarb/internal/expansion"
	"github.com/alanyoungcy/cardarb/internal/parser"
	"github.com/alanyoungcy/cardarb/internal/pricing"
)

// CacheConfig sizes the three in-process caches.
type CacheConfig struct {
	ProcessedTTL time.Duration
	ProcessedMax int
	SignatureTTL time.Duration
	SignatureMax int
	NegativeTTL  time.Duration
	NegativeMax  int
}

// DefaultCacheConfig returns the cache sizes used when none are configured.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		ProcessedTTL: 24 * time.Hour,
		ProcessedMax: 50000,
		SignatureTTL: 6 * time.Hour,
		SignatureMax: 20000,
		NegativeTTL:  time.Hour,
		NegativeMax:  20000,
	}
}

// Config wires an Orchestrator.
type Config struct {
	Catalog     domain.CatalogService
	Matcher     *expansion.Matcher
	Preferences domain.PreferenceStore
	Sink        domain.DealSink
	// Signatures is an optional shared L2 signature cache.
	Signatures domain.SignatureStore
	Converter  *pricing.Converter
	Logger     *slog.Logger
	Now        func() time.Time

	AllowedCountries   []string
	BlockedConditions  []string
	MinConfidence      int
	FeePercent         float64
	DealTTL            time.Duration
	PreferenceReload   time.Duration
	DefaultPreferences domain.Preferences
	PageSize           int
	Include            []string
	Cache              CacheConfig
}

// Orchestrator owns the dedup and result caches, the preference snapshot
// and the diagnostics. It is safe for concurrent use.
type Orchestrator struct {
	catalog    domain.CatalogService
	matcher    *expansion.Matcher
	prefStore  domain.PreferenceStore
	sink       domain.DealSink
	l2         domain.SignatureStore
	converter  *pricing.Converter
	logger     *slog.Logger
	now        func() time.Time
	diag       *Diagnostics
	processed  *cache.Bounded[string, time.Time]
	signatures *cache.Bounded[domain.Signature, domain.SignatureEntry]
	negQueries *cache.Bounded[string, struct{}]

	allowedCountries  map[string]bool
	blockedConditions map[string]bool
	minConfidence     int
	feePercent        float64
	dealTTL           time.Duration
	pageSize          int
	include           []string

	prefMu       sync.Mutex
	prefs        domain.Preferences
	prefsLoaded  time.Time
	prefReload   time.Duration
	prefsFetched bool
}

// New creates an orchestrator.
func New(cfg Config) *Orchestrator {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Matcher == nil {
		cfg.Matcher = expansion.NewMatcher(nil, cfg.Logger)
	}
	if cfg.Converter == nil {
		cfg.Converter = pricing.NewConverter(map[string]float64{"USD": 0.79, "EUR": 0.85})
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.PreferenceReload <= 0 {
		cfg.PreferenceReload = time.Minute
	}
	if cfg.DealTTL <= 0 {
		cfg.DealTTL = 72 * time.Hour
	}
	if cfg.Cache == (CacheConfig{}) {
		cfg.Cache = DefaultCacheConfig()
	}
	if len(cfg.AllowedCountries) == 0 {
		cfg.AllowedCountries = []string{"GB"}
	}
	clock := cache.WithClock(cfg.Now)

	o := &Orchestrator{
		catalog:           cfg.Catalog,
		matcher:           cfg.Matcher,
		prefStore:         cfg.Preferences,
		sink:              cfg.Sink,
		l2:                cfg.Signatures,
		converter:         cfg.Converter,
		logger:            cfg.Logger.With(slog.String("component", "orchestrator")),
		now:               cfg.Now,
		diag:              NewDiagnostics(cfg.Now),
		processed:         cache.NewBounded[string, time.Time](cfg.Cache.ProcessedTTL, cfg.Cache.ProcessedMax, clock),
		signatures:        cache.NewBounded[domain.Signature, domain.SignatureEntry](cfg.Cache.SignatureTTL, cfg.Cache.SignatureMax, clock),
		negQueries:        cache.NewBounded[string, struct{}](cfg.Cache.NegativeTTL, cfg.Cache.NegativeMax, clock),
		allowedCountries:  upperSet(cfg.AllowedCountries),
		blockedConditions: upperSet(cfg.BlockedConditions),
		minConfidence:     cfg.MinConfidence,
		feePercent:        cfg.FeePercent,
		dealTTL:           cfg.DealTTL,
		pageSize:          cfg.PageSize,
		include:           cfg.Include,
		prefs:             withDefaultTiers(cfg.DefaultPreferences),
		prefReload:        cfg.PreferenceReload,
	}
	return o
}

func upperSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		if v = strings.ToUpper(strings.TrimSpace(v)); v != "" {
			out[v] = true
		}
	}
	return out
}

func withDefaultTiers(p domain.Preferences) domain.Preferences {
	if p.TierThresholds == (domain.TierThresholds{}) {
		p.TierThresholds = pricing.DefaultTiers()
	}
	return p
}

// Diagnostics returns the orchestrator's counters.
func (o *Orchestrator) Diagnostics() *Diagnostics { return o.diag }

// BeginScan starts a new per-scan diagnostics aggregator.
func (o *Orchestrator) BeginScan() { o.diag.BeginScan() }

// FinishScan stamps the current scan and returns its counters.
func (o *Orchestrator) FinishScan() (ScanDiagnostics, bool) { return o.diag.FinishScan() }

// Snapshot returns the session and last-scan diagnostics.
func (o *Orchestrator) Snapshot() DiagnosticsSnapshot { return o.diag.Snapshot() }

// SweepStats counts entries evicted by Sweep.
type SweepStats struct {
	Processed  int
	Signatures int
	Negative   int
}

// Sweep evicts expired entries from all three caches.
func (o *Orchestrator) Sweep() SweepStats {
	return SweepStats{
		Processed:  o.processed.Sweep(),
		Signatures: o.signatures.Sweep(),
		Negative:   o.negQueries.Sweep(),
	}
}

// Process runs one listing through every stage. It never returns an error;
// storage failures surface as Stored=false.
func (o *Orchestrator) Process(ctx context.Context, l domain.Listing) Result {
	res := o.process(ctx, l)
	o.diag.record(res)

	if res.Stage == StageDeal {
		o.logger.Info("deal found",
			slog.String("listing_id", l.ID),
			slog.String("card_id", res.Deal.CardID),
			slog.String("tier", string(res.Deal.Tier)),
			slog.Float64("profit_gbp", res.Deal.ProfitGBP),
			slog.Float64("discount_percent", res.Deal.DiscountPercent),
			slog.Bool("stored", res.Stored),
		)
	} else {
		o.logger.Debug("listing rejected",
			slog.String("listing_id", l.ID),
			slog.String("stage", string(res.Stage)),
			slog.String("reason", res.Reason),
		)
	}
	return res
}

func reject(res Result, stage Stage, format string, args ...any) Result {
	res.Stage = stage
	res.Reason = fmt.Sprintf(format, args...)
	return res
}

func (o *Orchestrator) process(ctx context.Context, l domain.Listing) Result {
	res := Result{ListingID: l.ID}

	if !o.processed.SetIfAbsent(l.ID, o.now()) {
		return reject(res, StageAlreadyProcessed, "Already processed")
	}

	prefs := o.preferences(ctx)

	p := parser.Parse(l.Title)
	res.Parsed = &p
	if p.Rejected() {
		return reject(res, StageParseRejected, "%s", p.RejectReason)
	}

	if country := strings.ToUpper(strings.TrimSpace(l.Country)); country != "" && !o.allowedCountries[country] {
		return reject(res, StageInternationalSeller, "seller country %s not allowed", country)
	}

	condition := p.Condition
	if condition == "" && !p.IsGraded {
		condition = parser.NormalizeCondition(l.ConditionHint)
	}
	if o.blockedConditions[condition] {
		return reject(res, StageBlockedCondition, "condition %s is blocked", condition)
	}

	if p.LanguageCode != "en" {
		return reject(res, StageNonEnglish, "language %s", p.LanguageCode)
	}

	if p.ConfidenceScore < o.minConfidence {
		return reject(res, StageLowConfidence, "confidence %d below %d", p.ConfidenceScore, o.minConfidence)
	}

	t, rejected, ok := o.resolveTarget(p, res)
	if !ok {
		return rejected
	}

	entry, cached := o.lookupSignature(ctx, t)
	if !cached {
		cand, found, st := o.runLadder(ctx, t)
		entry = domain.SignatureEntry{Found: found, CreatedAt: o.now()}
		if found {
			card := cand.card
			entry.Card = &card
			entry.CardID = card.ID
			entry.MatchType = cand.rung
		}
		// A miss while the catalog was failing is not a definitive negative.
		if found || !st.errored {
			o.storeSignature(ctx, t, entry)
		}
	}
	if !entry.Found || entry.Card == nil {
		if cached {
			return reject(res, StageNotFound, "no catalog card for %s (cached)", signatureOf(t))
		}
		return reject(res, StageNotFound, "no catalog card for %s", signatureOf(t))
	}

	card := *entry.Card
	res.Matched = true
	res.Card = &card

	// Validations always run per listing, cached or not.
	ptOK, ptNote := checkPrintedTotal(p, card.PrintedTotal)
	if !ptOK {
		return reject(res, StagePrintedTotalMismatch, "%s", ptNote)
	}
	sim := nameSimilarity(p.CardName, card.Name)
	if sim < NameRejectBelow {
		return reject(res, StageNameMismatch, "name %q vs %q similarity %.2f", p.CardName, card.Name, sim)
	}

	attrs := pricing.AttributesFrom(p, l.ConditionHint)
	sel, ok := pricing.SelectBestPrice(card, attrs)
	if !ok {
		if attrs.IsGraded {
			return reject(res, StageNoPrice, "no %s %s price", attrs.GradingCompany, attrs.Grade)
		}
		return reject(res, StageNoPrice, "no usable price")
	}
	market, err := o.converter.ToGBP(sel.Point.Market, card.Currency)
	if err != nil {
		return reject(res, StageNoPrice, "%s", err.Error())
	}
	price, err := o.converter.ToGBP(l.PriceGBP, "GBP")
	if err != nil {
		return reject(res, StageNoPrice, "%s", err.Error())
	}
	shipping, err := o.converter.ToGBP(l.ShippingGBP, "GBP")
	if err != nil {
		return reject(res, StageNoPrice, "%s", err.Error())
	}
	q := pricing.Profit(market, price, shipping, o.feePercent)
	profit := q.ProfitGBP.InexactFloat64()
	discount := q.DiscountPercent.InexactFloat64()
	marketGBP := q.MarketGBP.InexactFloat64()

	if profit < prefs.MinProfitGBP {
		return reject(res, StageBelowMinProfit, "profit £%.2f below £%.2f", profit, prefs.MinProfitGBP)
	}

	tier := pricing.DetermineTier(marketGBP, discount, prefs.TierThresholds)
	if tier == domain.TierNone {
		return reject(res, StageBelowTier, "discount %.2f%% on £%.2f below every tier", discount, marketGBP)
	}

	if !p.IsGraded && condition != "" && len(prefs.AllowedConditions) > 0 &&
		!slices.ContainsFunc(prefs.AllowedConditions, func(c string) bool { return strings.EqualFold(c, condition) }) {
		return reject(res, StageConditionNotPreferred, "condition %s not in preferences", condition)
	}
	if p.IsGraded {
		if reason, ok := gradingPreferred(p, prefs); !ok {
			return reject(res, StageGradingNotPreferred, "%s", reason)
		}
	}

	now := o.now()
	deal := domain.Deal{
		ID:              uuid.NewString(),
		Listing:         l,
		CardID:          card.ID,
		CardName:        card.Name,
		CardNumber:      card.Number,
		ExpansionID:     card.ExpansionID,
		ExpansionName:   card.ExpansionName,
		Variant:         sel.Variant,
		PricePoint:      sel.Point,
		MarketValueGBP:  marketGBP,
		CostGBP:         q.CostGBP.InexactFloat64(),
		ProfitGBP:       profit,
		DiscountPercent: discount,
		Tier:            tier,
		MatchConfidence: matchConfidence(t, sim),
		MatchType:       matchType(entry, cached),
		Rationale: domain.MatchRationale{
			Parsed:           p,
			ExpansionID:      signatureOf(t).ExpansionID,
			ExpansionScore:   t.score,
			Rung:             entry.MatchType,
			NameSimilarity:   math.Round(sim*100) / 100,
			PrintedTotalNote: ptNote,
			VariantReason:    sel.Reason,
			FromCache:        cached,
		},
		CreatedAt: now,
		ExpiresAt: now.Add(o.dealTTL),
	}
	res.Stage = StageDeal
	res.Deal = &deal

	if o.sink == nil {
		return res
	}
	added, err := o.sink.AddAsync(ctx, deal)
	if err != nil {
		o.logger.Error("deal store failed",
			slog.String("listing_id", l.ID),
			slog.String("error", err.Error()),
		)
		return res
	}
	res.Stored = added
	return res
}

// resolveTarget runs the expansion, language, card number and printed-total
// precheck stages. It returns the rejected result when a stage fails.
func (o *Orchestrator) resolveTarget(p domain.ParsedTitle, res Result) (target, Result, bool) {
	t := target{
		name:    p.CardName,
		setName: p.SetName,
		prefix:  strings.ToUpper(p.SubsetPrefix),
	}

	m := o.matcher.Match(p.SetName, expansion.MatchOptions{
		CardNumber:  p.CardNumber,
		PromoPrefix: p.PromoPrefix,
		Denominator: p.Denominator,
	})
	switch {
	case m.Success:
		e := m.Match.Expansion
		t.expansion = &e
		t.score = m.Match.Score
	case p.Denominator > 0:
		for _, e := range o.matcher.InferFromDenominator(p.Denominator) {
			if e.LanguageCode == "en" {
				t.denominators = append(t.denominators, e)
			}
		}
		if len(t.denominators) == 0 {
			return t, reject(res, StageNoExpansion, "no expansion near total %d", p.Denominator), false
		}
	default:
		if p.SetName == "" {
			return t, reject(res, StageNoExpansion, "no set name or set total"), false
		}
		return t, reject(res, StageNoExpansion, "no expansion matches %q", p.SetName), false
	}

	if t.expansion != nil && t.expansion.LanguageCode != "en" {
		return t, reject(res, StageNonEnglishExpansion, "expansion %s is %s", t.expansion.ID, t.expansion.LanguageCode), false
	}

	if p.CardNumber == "" {
		return t, reject(res, StageNoCardNumber, "no card number"), false
	}
	t.number = normalizeNumber(p.CardNumber)
	t.numeric = numericPart(p.CardNumber)

	if t.expansion != nil && t.prefix != "" {
		if sub, ok := o.matcher.ResolveSubset(t.expansion.ID, t.prefix); ok {
			parent := *t.expansion
			t.parent = &parent
			t.expansion = &sub
		}
	}
	// Saves a catalog call when the stated total cannot be this expansion.
	if t.expansion != nil {
		if ok, note := checkPrintedTotal(p, t.expansion.PrintedTotal); !ok {
			return t, reject(res, StagePrintedTotalPrecheck, "%s", note), false
		}
	}
	return t, res, true
}

func signatureOf(t target) domain.Signature {
	if t.expansion != nil {
		return domain.Signature{ExpansionID: t.expansion.ID, Number: t.number}
	}
	ids := make([]string, 0, len(t.denominators))
	for _, e := range t.denominators {
		ids = append(ids, e.ID)
	}
	return domain.Signature{ExpansionID: "or(" + strings.Join(ids, "|") + ")", Number: t.number}
}

func (o *Orchestrator) lookupSignature(ctx context.Context, t target) (domain.SignatureEntry, bool) {
	sig := signatureOf(t)
	if e, ok := o.signatures.Get(sig); ok {
		o.diag.cacheHit()
		return e, true
	}
	if o.l2 == nil {
		return domain.SignatureEntry{}, false
	}
	e, err := o.l2.Get(ctx, sig)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			o.logger.Warn("signature cache read failed",
				slog.String("signature", sig.String()),
				slog.String("error", err.Error()),
			)
		}
		return domain.SignatureEntry{}, false
	}
	o.signatures.Set(sig, e)
	o.diag.cacheHit()
	return e, true
}

func (o *Orchestrator) storeSignature(ctx context.Context, t target, e domain.SignatureEntry) {
	sig := signatureOf(t)
	o.signatures.Set(sig, e)
	if o.l2 == nil {
		return
	}
	if err := o.l2.Set(ctx, sig, e); err != nil {
		o.logger.Warn("signature cache write failed",
			slog.String("signature", sig.String()),
			slog.String("error", err.Error()),
		)
	}
}

// preferences returns the current preferences, reloading them when the
// last load is older than the reload interval. A failed reload keeps the
// last good value.
func (o *Orchestrator) preferences(ctx context.Context) domain.Preferences {
	o.prefMu.Lock()
	defer o.prefMu.Unlock()

	if o.prefStore == nil {
		return o.prefs
	}
	now := o.now()
	if o.prefsFetched && now.Sub(o.prefsLoaded) < o.prefReload {
		return o.prefs
	}
	o.prefsFetched = true
	o.prefsLoaded = now
	p, err := o.prefStore.Read(ctx)
	if err != nil {
		o.logger.Warn("preference reload failed, keeping last value", slog.String("error", err.Error()))
		return o.prefs
	}
	o.prefs = withDefaultTiers(p)
	return o.prefs
}

func gradingPreferred(p domain.ParsedTitle, prefs domain.Preferences) (string, bool) {
	if len(prefs.PreferredGradingCompanies) > 0 {
		company := parser.CanonicalCompany(p.GradingCompany)
		if !slices.ContainsFunc(prefs.PreferredGradingCompanies, func(c string) bool {
			return parser.CanonicalCompany(c) == company
		}) {
			return fmt.Sprintf("grading company %s not in preferences", company), false
		}
	}
	if prefs.GradeRange.Max > 0 {
		g, err := strconv.ParseFloat(p.Grade, 64)
		if err != nil || !prefs.GradeRange.Contains(g) {
			return fmt.Sprintf("grade %s outside %.1f-%.1f", p.Grade, prefs.GradeRange.Min, prefs.GradeRange.Max), false
		}
	}
	return "", true
}

// matchConfidence blends expansion certainty and name similarity into 0..1.
func matchConfidence(t target, sim float64) float64 {
	exp := t.score / 100
	if t.expansion == nil {
		exp = 0.5
	}
	return math.Round((0.4*exp+0.6*sim)*100) / 100
}

func matchType(e domain.SignatureEntry, cached bool) string {
	if cached {
		return "cache:" + e.MatchType
	}
	return e.MatchType
}
