// Package expansion resolves free-text set names to canonical catalog
// expansions.
package expansion

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

// Match scores.
const (
	ScorePromo     = 100
	ScoreID        = 100
	ScoreAlias     = 98
	ScoreName      = 95
	fuzzyScale     = 80
	fuzzyAlternate = 50
	FuzzyAccept    = 60

	// DenominatorWindow is the printed-total tolerance used when inferring
	// expansions from a bare denominator.
	DenominatorWindow = 5
)

// Method names how a match was made.
const (
	MethodPromo = "promo"
	MethodAlias = "alias"
	MethodID    = "id"
	MethodName  = "name"
	MethodFuzzy = "fuzzy"
)

// Scored is a candidate expansion with its match score.
type Scored struct {
	Expansion domain.Expansion
	Score     float64
	Method    string
}

// MatchOptions carries hints from the parsed title.
type MatchOptions struct {
	CardNumber  string
	PromoPrefix string
	Denominator int
}

// MatchResult is the outcome of Match. Match is nil unless Success.
type MatchResult struct {
	Success    bool
	Match      *Scored
	Alternates []Scored
}

// Matcher holds the canonical expansion table and the catalog id
// reconciliation map. It is safe for concurrent use.
type Matcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	expansions []domain.Expansion
	byID       map[string]int
	byName     map[string]int
	byAlias    map[string]int

	// remap holds local id -> catalog id for reconciled entries.
	remap        map[string]string
	reconciled   bool
	unreconciled []string
}

// NewMatcher builds a matcher over the given expansions. A nil or empty set
// uses Builtin.
func NewMatcher(expansions []domain.Expansion, logger *slog.Logger) *Matcher {
	if len(expansions) == 0 {
		expansions = Builtin
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Matcher{
		logger:     logger.With(slog.String("component", "expansion_matcher")),
		expansions: append([]domain.Expansion(nil), expansions...),
		remap:      make(map[string]string),
	}
	m.index()
	return m
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Key normalizes a set name for comparison: lower case, "&" spelled out,
// punctuation and spacing removed.
func Key(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "é", "e")
	return nonAlnum.ReplaceAllString(s, "")
}

// index must be called with mu held for writing (or before publication).
func (m *Matcher) index() {
	m.byID = make(map[string]int, len(m.expansions))
	m.byName = make(map[string]int, len(m.expansions))
	m.byAlias = make(map[string]int)
	for i, e := range m.expansions {
		m.byID[strings.ToLower(e.ID)] = i
		m.byName[Key(e.Name)] = i
		for _, a := range e.Aliases {
			if _, taken := m.byAlias[Key(a)]; !taken {
				m.byAlias[Key(a)] = i
			}
		}
	}
	for local, catalog := range m.remap {
		if i, ok := m.byID[strings.ToLower(catalog)]; ok {
			m.byID[strings.ToLower(local)] = i
		}
	}
}

// Match resolves setName to an expansion. Resolution order: promo prefix,
// exact alias, exact id, exact normalized name, then fuzzy containment.
func (m *Matcher) Match(setName string, opts MatchOptions) MatchResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if opts.PromoPrefix != "" {
		if id, ok := promoExpansions[strings.ToUpper(opts.PromoPrefix)]; ok {
			if e, ok := m.lookupID(id); ok {
				return hit(e, ScorePromo, MethodPromo)
			}
		}
	}

	key := Key(setName)
	if key == "" {
		return MatchResult{}
	}
	if i, ok := m.byAlias[key]; ok {
		return hit(m.expansions[i], ScoreAlias, MethodAlias)
	}
	if i, ok := m.byID[strings.ToLower(strings.TrimSpace(setName))]; ok {
		return hit(m.expansions[i], ScoreID, MethodID)
	}
	if i, ok := m.byName[key]; ok {
		return hit(m.expansions[i], ScoreName, MethodName)
	}

	alternates := m.fuzzy(key)
	res := MatchResult{Alternates: alternates}
	if len(alternates) > 0 && alternates[0].Score >= FuzzyAccept {
		best := alternates[0]
		res.Success = true
		res.Match = &best
	}
	return res
}

func hit(e domain.Expansion, score float64, method string) MatchResult {
	return MatchResult{Success: true, Match: &Scored{Expansion: e, Score: score, Method: method}}
}

// fuzzy scores every expansion by substring containment against its name
// and aliases: min(len)/max(len)*80. Candidates above the alternate floor
// are returned best first, newest release breaking ties.
func (m *Matcher) fuzzy(key string) []Scored {
	var out []Scored
	for _, e := range m.expansions {
		best := 0.0
		for _, cand := range append([]string{e.Name}, e.Aliases...) {
			if s := containmentScore(key, Key(cand)); s > best {
				best = s
			}
		}
		if best > fuzzyAlternate {
			out = append(out, Scored{Expansion: e, Score: best, Method: MethodFuzzy})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Expansion.ReleaseDate.After(out[j].Expansion.ReleaseDate)
	})
	return out
}

func containmentScore(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if !strings.Contains(a, b) && !strings.Contains(b, a) {
		return 0
	}
	short, long := len(a), len(b)
	if short > long {
		short, long = long, short
	}
	return float64(short) / float64(long) * fuzzyScale
}

// Get returns the expansion for a local or catalog id.
func (m *Matcher) Get(id string) (domain.Expansion, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lookupID(id)
}

func (m *Matcher) lookupID(id string) (domain.Expansion, bool) {
	i, ok := m.byID[strings.ToLower(id)]
	if !ok {
		return domain.Expansion{}, false
	}
	return m.expansions[i], true
}

// InferFromDenominator returns expansions whose printed total is within
// DenominatorWindow of n, newest release first.
func (m *Matcher) InferFromDenominator(n int) []domain.Expansion {
	if n <= 0 {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.Expansion
	for _, e := range m.expansions {
		if e.PrintedTotal <= 0 {
			continue
		}
		d := e.PrintedTotal - n
		if d < 0 {
			d = -d
		}
		if d <= DenominatorWindow {
			out = append(out, e)
		}
	}
	sortNewest(out)
	return out
}

// ResolveSubset maps a parent expansion and a numbering prefix to the
// separate subset expansion, if the release has one.
func (m *Matcher) ResolveSubset(parentID, prefix string) (domain.Expansion, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	parent := m.localID(parentID)
	id, ok := subsetExpansions[subsetKey{parent: parent, prefix: strings.ToUpper(prefix)}]
	if !ok {
		return domain.Expansion{}, false
	}
	return m.lookupID(id)
}

// localID reverses the reconciliation remap.
func (m *Matcher) localID(id string) string {
	for local, catalog := range m.remap {
		if strings.EqualFold(catalog, id) {
			return local
		}
	}
	return id
}

// RankRecent returns up to limit English expansions ordered by name
// similarity to setName, newest first among ties. With no usable set name
// the newest releases are returned.
func (m *Matcher) RankRecent(setName string, limit int) []domain.Expansion {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type ranked struct {
		e     domain.Expansion
		score float64
	}
	key := Key(setName)
	var all []ranked
	for _, e := range m.expansions {
		if e.LanguageCode != "en" {
			continue
		}
		s := 0.0
		if key != "" {
			for _, cand := range append([]string{e.Name}, e.Aliases...) {
				s = max(s, containmentScore(key, Key(cand)), tokenOverlap(setName, cand)*fuzzyScale)
			}
		}
		all = append(all, ranked{e: e, score: s})
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].e.ReleaseDate.After(all[j].e.ReleaseDate)
	})
	if limit > len(all) {
		limit = len(all)
	}
	out := make([]domain.Expansion, 0, limit)
	for _, r := range all[:limit] {
		out = append(out, r.e)
	}
	return out
}

func tokenOverlap(a, b string) float64 {
	ta := strings.Fields(strings.ToLower(a))
	tb := strings.Fields(strings.ToLower(b))
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	set := make(map[string]bool, len(ta))
	for _, t := range ta {
		set[t] = true
	}
	shared := 0
	union := len(set)
	seen := make(map[string]bool, len(tb))
	for _, t := range tb {
		if seen[t] {
			continue
		}
		seen[t] = true
		if set[t] {
			shared++
		} else {
			union++
		}
	}
	return float64(shared) / float64(union)
}

func sortNewest(es []domain.Expansion) {
	sort.SliceStable(es, func(i, j int) bool {
		return es[i].ReleaseDate.After(es[j].ReleaseDate)
	})
}

// Reconcile remaps local ids that the catalog does not know to the catalog
// id found by name or code. It runs once; later calls are no-ops. Ids left
// unmatched are available from Unreconciled.
func (m *Matcher) Reconcile(ctx context.Context, lister domain.ExpansionLister) error {
	m.mu.RLock()
	done := m.reconciled
	m.mu.RUnlock()
	if done {
		return nil
	}

	remote, err := lister.ListExpansions(ctx)
	if err != nil {
		return fmt.Errorf("expansion: reconcile: %w", err)
	}

	known := make(map[string]bool, len(remote))
	byName := make(map[string]string, len(remote))
	byCode := make(map[string]string, len(remote))
	for _, r := range remote {
		known[strings.ToLower(r.ID)] = true
		byName[Key(r.Name)] = r.ID
		if r.Code != "" {
			byCode[strings.ToUpper(r.Code)] = r.ID
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reconciled {
		return nil
	}

	var unmatched []string
	remapped := 0
	for i, e := range m.expansions {
		if known[strings.ToLower(e.ID)] {
			continue
		}
		target, ok := byName[Key(e.Name)]
		if !ok {
			for _, a := range e.Aliases {
				if target, ok = byName[Key(a)]; ok {
					break
				}
			}
		}
		if !ok && e.Code != "" && !sharedCode(m.expansions, e) {
			target, ok = byCode[strings.ToUpper(e.Code)]
		}
		if !ok {
			unmatched = append(unmatched, e.ID)
			continue
		}
		m.remap[e.ID] = target
		m.expansions[i].ID = target
		remapped++
	}
	m.index()
	m.unreconciled = unmatched
	m.reconciled = true

	m.logger.Info("expansion ids reconciled",
		slog.Int("catalog_expansions", len(remote)),
		slog.Int("remapped", remapped),
		slog.Int("unreconciled", len(unmatched)),
	)
	return nil
}

// sharedCode reports whether another expansion carries the same code, in
// which case a code match is ambiguous (subset releases share the parent's).
func sharedCode(all []domain.Expansion, e domain.Expansion) bool {
	for _, o := range all {
		if o.ID != e.ID && strings.EqualFold(o.Code, e.Code) {
			return true
		}
	}
	return false
}

// Unreconciled returns local ids with no catalog counterpart.
func (m *Matcher) Unreconciled() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.unreconciled...)
}

// Reconciled reports whether Reconcile has completed.
func (m *Matcher) Reconciled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reconciled
}
