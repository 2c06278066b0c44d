package expansion

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

type fakeLister struct {
	mu    sync.Mutex
	calls int
	list  []domain.CatalogExpansion
	err   error
}

func (f *fakeLister) ListExpansions(context.Context) ([]domain.CatalogExpansion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.list, f.err
}

func catalogFromBuiltin() []domain.CatalogExpansion {
	out := make([]domain.CatalogExpansion, 0, len(Builtin))
	for _, e := range Builtin {
		out = append(out, domain.CatalogExpansion{ID: e.ID, Name: e.Name, Code: e.Code, PrintedTotal: e.PrintedTotal})
	}
	return out
}

func TestMatch_ExactScores(t *testing.T) {
	m := NewMatcher(nil, nil)

	tests := []struct {
		name   string
		input  string
		opts   MatchOptions
		id     string
		score  float64
		method string
	}{
		{"promo prefix", "", MatchOptions{PromoPrefix: "SWSH"}, "swshp", ScorePromo, MethodPromo},
		{"alias", "ex emerald", MatchOptions{}, "ex9", ScoreAlias, MethodAlias},
		{"id", "swsh7", MatchOptions{}, "swsh7", ScoreID, MethodID},
		{"normalized name", "evolving   SKIES", MatchOptions{}, "swsh7", ScoreName, MethodName},
		{"ampersand spelled out", "Sword and Shield", MatchOptions{}, "swsh1", ScoreName, MethodName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := m.Match(tt.input, tt.opts)
			require.True(t, res.Success)
			require.NotNil(t, res.Match)
			assert.Equal(t, tt.id, res.Match.Expansion.ID)
			assert.Equal(t, tt.score, res.Match.Score)
			assert.Equal(t, tt.method, res.Match.Method)
			assert.GreaterOrEqual(t, res.Match.Score, float64(ScoreName))
		})
	}
}

func TestMatch_FuzzyAccepted(t *testing.T) {
	m := NewMatcher(nil, nil)

	res := m.Match("Crown Zenith GG", MatchOptions{})
	require.True(t, res.Success)
	assert.Equal(t, "swsh12pt5", res.Match.Expansion.ID)
	assert.Equal(t, MethodFuzzy, res.Match.Method)
	assert.InDelta(t, 11.0/13.0*80, res.Match.Score, 0.001)
}

func TestMatch_FuzzyBelowThresholdOnlyAlternates(t *testing.T) {
	m := NewMatcher(nil, nil)

	res := m.Match("Evolving Skies Booster", MatchOptions{})
	assert.False(t, res.Success)
	assert.Nil(t, res.Match)
	require.NotEmpty(t, res.Alternates)
	assert.Equal(t, "swsh7", res.Alternates[0].Expansion.ID)
	assert.InDelta(t, 52.0, res.Alternates[0].Score, 0.001)
	for _, a := range res.Alternates {
		assert.Greater(t, a.Score, float64(fuzzyAlternate))
	}
}

func TestMatch_NeverAcceptsFuzzyBelowSixty(t *testing.T) {
	m := NewMatcher(nil, nil)
	inputs := []string{"Evolving", "Skies", "Base", "Stars", "Crown", "Fates", "Rocket", "Shining", "Gallery", "Team Rocket Set"}
	for _, in := range inputs {
		res := m.Match(in, MatchOptions{})
		if res.Success && res.Match.Method == MethodFuzzy {
			assert.GreaterOrEqual(t, res.Match.Score, float64(FuzzyAccept), in)
		}
	}
}

func TestMatch_Empty(t *testing.T) {
	m := NewMatcher(nil, nil)
	res := m.Match("", MatchOptions{})
	assert.False(t, res.Success)
	assert.Empty(t, res.Alternates)
}

func TestInferFromDenominator(t *testing.T) {
	m := NewMatcher(nil, nil)

	got := m.InferFromDenominator(102)
	require.NotEmpty(t, got)

	ids := make([]string, 0, len(got))
	for i, e := range got {
		ids = append(ids, e.ID)
		assert.LessOrEqual(t, e.PrintedTotal, 102+DenominatorWindow)
		assert.GreaterOrEqual(t, e.PrintedTotal, 102-DenominatorWindow)
		if i > 0 {
			assert.False(t, e.ReleaseDate.After(got[i-1].ReleaseDate), "newest first")
		}
	}
	assert.Contains(t, ids, "base1")
	assert.Contains(t, ids, "hgss4")
	assert.Nil(t, m.InferFromDenominator(0))
}

func TestResolveSubset(t *testing.T) {
	m := NewMatcher(nil, nil)

	e, ok := m.ResolveSubset("sm115", "SV")
	require.True(t, ok)
	assert.Equal(t, "sma", e.ID)

	e, ok = m.ResolveSubset("swsh12pt5", "gg")
	require.True(t, ok)
	assert.Equal(t, "swsh12pt5gg", e.ID)

	e, ok = m.ResolveSubset("cel25", "CC")
	require.True(t, ok)
	assert.Equal(t, "cel25c", e.ID)

	_, ok = m.ResolveSubset("swsh7", "TG")
	assert.False(t, ok)
}

func TestRankRecent(t *testing.T) {
	m := NewMatcher(nil, nil)

	got := m.RankRecent("Evolving Skies", 5)
	require.Len(t, got, 5)
	assert.Equal(t, "swsh7", got[0].ID)

	newest := m.RankRecent("", 5)
	require.Len(t, newest, 5)
	assert.Equal(t, "sv8pt5", newest[0].ID)
	for _, e := range newest {
		assert.Equal(t, "en", e.LanguageCode)
	}
}

func TestReconcile_RemapsByNameAndCode(t *testing.T) {
	m := NewMatcher([]domain.Expansion{
		{ID: "a1", Name: "Alpha", LanguageCode: "en"},
		{ID: "b1", Name: "Beta", Code: "BET", LanguageCode: "en"},
		{ID: "c1", Name: "Gamma", LanguageCode: "en"},
		{ID: "d1", Name: "Delta Set", LanguageCode: "en"},
	}, nil)
	lister := &fakeLister{list: []domain.CatalogExpansion{
		{ID: "a1", Name: "Alpha"},
		{ID: "beta-x", Name: "Beta Set", Code: "BET"},
		{ID: "delta-x", Name: "Delta  set"},
		{ID: "z9", Name: "Zeta"},
	}}

	require.NoError(t, m.Reconcile(context.Background(), lister))
	assert.True(t, m.Reconciled())
	assert.Equal(t, []string{"c1"}, m.Unreconciled())

	e, ok := m.Get("b1")
	require.True(t, ok)
	assert.Equal(t, "beta-x", e.ID)

	e, ok = m.Get("delta-x")
	require.True(t, ok)
	assert.Equal(t, "Delta Set", e.Name)

	res := m.Match("Beta", MatchOptions{})
	require.True(t, res.Success)
	assert.Equal(t, "beta-x", res.Match.Expansion.ID)

	require.NoError(t, m.Reconcile(context.Background(), lister))
	assert.Equal(t, 1, lister.calls, "reconcile runs once")
}

func TestReconcile_SubsetFollowsRemap(t *testing.T) {
	m := NewMatcher(nil, nil)
	list := catalogFromBuiltin()
	for i := range list {
		if list[i].ID == "swsh12pt5gg" {
			list[i].ID = "swsh12pt5-gg"
		}
	}

	require.NoError(t, m.Reconcile(context.Background(), &fakeLister{list: list}))
	assert.Empty(t, m.Unreconciled())

	e, ok := m.ResolveSubset("swsh12pt5", "GG")
	require.True(t, ok)
	assert.Equal(t, "swsh12pt5-gg", e.ID)
}

func TestReconcile_ErrorAllowsRetry(t *testing.T) {
	m := NewMatcher(nil, nil)
	lister := &fakeLister{err: errors.New("catalog down")}

	err := m.Reconcile(context.Background(), lister)
	require.Error(t, err)
	assert.False(t, m.Reconciled())

	lister.err = nil
	lister.list = catalogFromBuiltin()
	require.NoError(t, m.Reconcile(context.Background(), lister))
	assert.True(t, m.Reconciled())
}

func TestMatcher_ConcurrentMatchDuringReconcile(t *testing.T) {
	m := NewMatcher(nil, nil)
	lister := &fakeLister{list: catalogFromBuiltin()}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				m.Match("Evolving Skies", MatchOptions{})
				m.InferFromDenominator(185)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = m.Reconcile(context.Background(), lister)
	}()
	wg.Wait()

	assert.True(t, m.Reconciled())
}
