package arbitrage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

// Ladder rung names, in the order they are tried.
const (
	RungExact           = "exact"
	RungPadded          = "padded"
	RungSubsetWildcard  = "subset_wildcard"
	RungNumericWildcard = "numeric_wildcard"
	RungName            = "name"
	RungORRecent        = "or_recent"
	RungORDenominator   = "or_denominator"
)

// maxORExpansions caps how many expansions one OR query spans.
const maxORExpansions = 5

// target is what the ladder looks for.
type target struct {
	// expansion is nil when only denominator candidates are known.
	expansion *domain.Expansion
	// parent is the release a subset expansion belongs to.
	parent  *domain.Expansion
	number  string // normalized, e.g. "TG5", "44"
	prefix  string
	numeric int
	name    string
	setName string
	score   float64
	// denominators are candidate expansions inferred from the set total.
	denominators []domain.Expansion
}

// scopes are the expansion ids searched by the expansion-scoped rungs.
func (t target) scopes() []string {
	if t.expansion == nil {
		return nil
	}
	ids := []string{t.expansion.ID}
	if t.parent != nil && t.parent.ID != t.expansion.ID {
		ids = append(ids, t.parent.ID)
	}
	return ids
}

type candidate struct {
	card       domain.CatalogCard
	rung       string
	query      string
	similarity float64
}

type rung struct {
	name string
	run  func(ctx context.Context, st *ladderState, t target) (candidate, bool)
}

func (o *Orchestrator) rungs() []rung {
	return []rung{
		{RungExact, o.rungExact},
		{RungPadded, o.rungPadded},
		{RungSubsetWildcard, o.rungSubsetWildcard},
		{RungNumericWildcard, o.rungNumericWildcard},
		{RungName, o.rungName},
		{RungORRecent, o.rungORRecent},
		{RungORDenominator, o.rungORDenominator},
	}
}

// ladderState records whether any rung hit a collaborator error, so a
// miss caused by an outage is not cached as a definitive negative.
type ladderState struct {
	errored bool
}

func (o *Orchestrator) runLadder(ctx context.Context, t target) (candidate, bool, *ladderState) {
	st := &ladderState{}
	for _, r := range o.rungs() {
		if cand, ok := r.run(ctx, st, t); ok {
			cand.rung = r.name
			return cand, true, st
		}
	}
	return candidate{}, false, st
}

// search runs one catalog query. Queries that previously returned nothing
// are skipped while their negative entry is live. Errors are logged, counted
// and reported as an empty result.
func (o *Orchestrator) search(ctx context.Context, st *ladderState, expansionID, query string) []domain.CatalogCard {
	key := expansionID + "|" + query
	if o.negQueries.Contains(key) {
		o.diag.cacheHit()
		return nil
	}

	var (
		cards []domain.CatalogCard
		err   error
	)
	if expansionID != "" {
		cards, err = o.catalog.SearchCardsInExpansion(ctx, expansionID, query, o.pageSize)
	} else {
		cards, err = o.catalog.SearchCards(ctx, query, o.include, o.pageSize)
	}
	o.diag.catalogCall(err != nil)
	if err != nil {
		st.errored = true
		o.logger.Warn("catalog query failed",
			slog.String("expansion_id", expansionID),
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if len(cards) == 0 {
		o.negQueries.Set(key, struct{}{})
	}
	return cards
}

func firstNumberMatch(cards []domain.CatalogCard, number string) (domain.CatalogCard, bool) {
	for _, c := range cards {
		if normalizeNumber(c.Number) == number {
			return c, true
		}
	}
	return domain.CatalogCard{}, false
}

func (o *Orchestrator) rungExact(ctx context.Context, st *ladderState, t target) (candidate, bool) {
	if t.expansion == nil {
		return candidate{}, false
	}
	q := fmt.Sprintf("expansion.id:%s number:%s", t.expansion.ID, t.number)
	card, ok := firstNumberMatch(o.search(ctx, st, "", q), t.number)
	return candidate{card: card, query: q}, ok
}

func (o *Orchestrator) rungPadded(ctx context.Context, st *ladderState, t target) (candidate, bool) {
	if t.expansion == nil || t.prefix == "" {
		return candidate{}, false
	}
	padded := padNumber(t.prefix, t.numeric)
	if padded == t.number {
		return candidate{}, false
	}
	q := fmt.Sprintf("expansion.id:%s number:%s", t.expansion.ID, padded)
	card, ok := firstNumberMatch(o.search(ctx, st, "", q), t.number)
	return candidate{card: card, query: q}, ok
}

func (o *Orchestrator) rungSubsetWildcard(ctx context.Context, st *ladderState, t target) (candidate, bool) {
	if t.prefix == "" {
		return candidate{}, false
	}
	q := fmt.Sprintf("number:%s*", strings.ToUpper(t.prefix))
	for _, id := range t.scopes() {
		if card, ok := firstNumberMatch(o.search(ctx, st, id, q), t.number); ok {
			return candidate{card: card, query: q}, true
		}
	}
	return candidate{}, false
}

func (o *Orchestrator) rungNumericWildcard(ctx context.Context, st *ladderState, t target) (candidate, bool) {
	if t.numeric <= 0 {
		return candidate{}, false
	}
	q := fmt.Sprintf("number:%d*", t.numeric)
	for _, id := range t.scopes() {
		if card, ok := firstNumberMatch(o.search(ctx, st, id, q), t.number); ok {
			return candidate{card: card, query: q}, true
		}
		// Wildcards over three-digit numbers can page past the card.
		if t.numeric > 100 {
			direct := fmt.Sprintf("number:%d", t.numeric)
			if card, ok := firstNumberMatch(o.search(ctx, st, id, direct), t.number); ok {
				return candidate{card: card, query: direct}, true
			}
		}
	}
	return candidate{}, false
}

func (o *Orchestrator) rungName(ctx context.Context, st *ladderState, t target) (candidate, bool) {
	if t.name == "" {
		return candidate{}, false
	}
	q := fmt.Sprintf("name:%q", strings.ReplaceAll(t.name, `"`, ""))
	for _, id := range t.scopes() {
		if card, ok := firstNumberMatch(o.search(ctx, st, id, q), t.number); ok {
			return candidate{card: card, query: q}, true
		}
	}
	return candidate{}, false
}

func (o *Orchestrator) rungORRecent(ctx context.Context, st *ladderState, t target) (candidate, bool) {
	if t.expansion == nil {
		return candidate{}, false
	}
	setName := t.setName
	if setName == "" {
		setName = t.expansion.Name
	}
	return o.orQuery(ctx, st, t, o.matcher.RankRecent(setName, maxORExpansions))
}

func (o *Orchestrator) rungORDenominator(ctx context.Context, st *ladderState, t target) (candidate, bool) {
	if t.expansion != nil || len(t.denominators) == 0 {
		return candidate{}, false
	}
	return o.orQuery(ctx, st, t, t.denominators)
}

// orQuery searches several expansions at once and keeps the number match
// whose name is most similar to the parsed name.
func (o *Orchestrator) orQuery(ctx context.Context, st *ladderState, t target, expansions []domain.Expansion) (candidate, bool) {
	if t.name == "" || len(expansions) == 0 {
		return candidate{}, false
	}
	if len(expansions) > maxORExpansions {
		expansions = expansions[:maxORExpansions]
	}
	clauses := make([]string, 0, len(expansions))
	for _, e := range expansions {
		clauses = append(clauses, "expansion.id:"+e.ID)
	}
	q := fmt.Sprintf("(%s) number:%s", strings.Join(clauses, " OR "), t.number)

	var best candidate
	found := false
	for _, c := range o.search(ctx, st, "", q) {
		if normalizeNumber(c.Number) != t.number {
			continue
		}
		sim := nameSimilarity(t.name, c.Name)
		if sim >= NameAcceptOR && (!found || sim > best.similarity) {
			best = candidate{card: c, query: q, similarity: sim}
			found = true
		}
	}
	return best, found
}
