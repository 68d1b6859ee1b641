package grammar

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSharesCachedRule(t *testing.T) {
	s := NewSession(table(
		"a", `<b><b>`,
		"b", `"x" | "y"`,
	))
	n := compile(t, s, `<a>`)

	a := n.Children()[0].Children()[0].Child()
	refs := a.Children()[0].Children()
	require.Len(t, refs, 2)
	assert.Same(t, refs[0].Child(), refs[1].Child())

	assert.Equal(t, Stats{Expanded: 2, CacheHits: 1}, s.Stats())
	assert.Equal(t, int64(4), Count(n).Int64())
}

func TestResolveMutualRecursionTerminates(t *testing.T) {
	s := NewSession(table(
		"a", `<b>`,
		"b", `<a>"x"`,
	))
	n, err := s.Resolve("a")
	require.NoError(t, err)

	// a and b are each expanded four times before the fifth <a> is cut off.
	assert.Equal(t, "axxxx", NewSampler(1).Sample(n))
	assert.Equal(t, int64(1), Count(n).Int64())
	assert.Equal(t, Stats{Expanded: 8, Cutoffs: 1, Suppressed: 6}, s.Stats())
	assert.Empty(t, s.trace)

	// Outermost expansions were cached, later references reuse them.
	again, err := s.Resolve("a")
	require.NoError(t, err)
	assert.Same(t, n, again)
}

func TestResolveRecursionBound(t *testing.T) {
	tab := table(
		"a", `<b>`,
		"b", `<a>"x"`,
	)
	n, err := NewSession(tab, WithRecursionBound(0)).Resolve("a")
	require.NoError(t, err)
	assert.Equal(t, "ax", NewSampler(1).Sample(n))

	n, err = NewSession(tab, WithRecursionBound(1)).Resolve("a")
	require.NoError(t, err)
	assert.Equal(t, "axx", NewSampler(1).Sample(n))
}

func TestResolveSelfRecursiveList(t *testing.T) {
	s := NewSession(table("list", `"i" | "i" "," <list>`))
	n, err := s.Resolve("list")
	require.NoError(t, err)

	assert.Equal(t, int64(5), Count(n).Int64())

	want := map[string]bool{}
	for _, w := range []string{"i", "i,i", "i,i,i", "i,i,i,i", "i,i,i,i,list"} {
		want[w] = true
	}
	sm := NewSampler(3)
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		seen[sm.Sample(n)] = true
	}
	assert.Equal(t, want, seen)
}

func TestResolveUnresolved(t *testing.T) {
	s := NewSession(table("a", `"x" <missing>`))

	_, err := s.Compile(`"a" <undefined>`)
	var ue *UnresolvedIdentifierError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "undefined", ue.Ident)

	_, err = s.Compile(`<a>`)
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "missing", ue.Ident)
	assert.Contains(t, err.Error(), "<a>")
	assert.Empty(t, s.trace)
	assert.NotContains(t, s.cache, "a")
}

func TestResolveSyntaxErrorInRule(t *testing.T) {
	s := NewSession(NewTable(Rule{Ident: "a", Expr: `["x"`, Line: 12}))
	_, err := s.Resolve("a")
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, err.Error(), "(line 12)")
	assert.Empty(t, s.trace)
}

func TestResolveLastRuleWins(t *testing.T) {
	s := NewSession(table(
		"a", `"first"`,
		"a", `"second"`,
	))
	n, err := s.Resolve("a")
	require.NoError(t, err)
	assert.Equal(t, "second", NewSampler(1).Sample(n))
}

func TestCompileGrammar(t *testing.T) {
	tab := table(
		DefaultStart, `<digit>{<digit>}`,
		"digit", `"0" | "1"`,
		"other", `"o"`,
	)
	n, err := CompileGrammar(tab)
	require.NoError(t, err)
	assert.Equal(t, int64(2*(1+2+4)), Count(n).Int64())

	n, err = CompileGrammar(tab, WithStart("other"))
	require.NoError(t, err)
	assert.Equal(t, "o", NewSampler(1).Sample(n))

	_, err = CompileGrammar(table("x", `"x"`))
	var ue *UnresolvedIdentifierError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, DefaultStart, ue.Ident)
}

func TestSessionsAreIndependent(t *testing.T) {
	one := NewSession(table("a", `"1"`))
	two := NewSession(table("a", `"2"`))

	n1, err := one.Resolve("a")
	require.NoError(t, err)
	n2, err := two.Resolve("a")
	require.NoError(t, err)

	assert.Equal(t, "1", NewSampler(1).Sample(n1))
	assert.Equal(t, "2", NewSampler(1).Sample(n2))
}

func TestSessionLogsCutoffs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := NewSession(table("a", `"x" | <a>`), WithLogger(log), WithRecursionBound(0))

	_, err := s.Resolve("a")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "recursion bound reached")
	assert.Contains(t, buf.String(), "ident=a")
}
