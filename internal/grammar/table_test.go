package grammar

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const numberGrammar = `// numbers
<程序> ::= <digit>{<digit>}   // at most three digits
<digit> ::= "0"|"1"

<digit> ::= "7" | '8'
<sign>::=["-"]`

func TestLoadTable(t *testing.T) {
	tab, err := LoadTable("numbers", strings.NewReader(numberGrammar))
	require.NoError(t, err)
	require.Equal(t, 4, tab.Len())

	assert.Equal(t, Rule{Ident: "程序", Expr: `<digit>{<digit>}`, Line: 2}, tab.Rules()[0])

	digit, ok := tab.Lookup("digit")
	require.True(t, ok)
	assert.Equal(t, `"7" | '8'`, digit.Expr)
	assert.Equal(t, 5, digit.Line)

	sign, ok := tab.Lookup("sign")
	require.True(t, ok)
	assert.Equal(t, `["-"]`, sign.Expr)

	_, ok = tab.Lookup("missing")
	assert.False(t, ok)
}

func TestLoadTableCompiles(t *testing.T) {
	tab, err := LoadTable("numbers", strings.NewReader(numberGrammar))
	require.NoError(t, err)

	n, err := CompileGrammar(tab)
	require.NoError(t, err)
	assert.Equal(t, int64(2*(1+2+4)), Count(n).Int64())

	sm := NewSampler(1)
	for i := 0; i < 50; i++ {
		out := sm.Sample(n)
		assert.True(t, len(out) >= 1 && len(out) <= 3, "sample %q", out)
		assert.Empty(t, strings.Trim(out, "78"), "sample %q", out)
	}
}

func TestLoadTableCRLF(t *testing.T) {
	tab, err := LoadTable("crlf", strings.NewReader("<a> ::= \"x\"\r\n<b> ::= <a>\r\n"))
	require.NoError(t, err)
	require.Equal(t, 2, tab.Len())
	assert.Equal(t, `"x"`, tab.Rules()[0].Expr)
	assert.Equal(t, `<a>`, tab.Rules()[1].Expr)
}

func TestLoadTableEmptyBody(t *testing.T) {
	tab, err := LoadTable("empty", strings.NewReader("<a> ::= // nothing yet\n<b> ::= \"b\"\n"))
	require.NoError(t, err)
	require.Equal(t, 2, tab.Len())
	assert.Equal(t, "", tab.Rules()[0].Expr)

	_, err = NewSession(tab).Resolve("a")
	var se *SyntaxError
	assert.ErrorAs(t, err, &se)
}

func TestLoadTableErrors(t *testing.T) {
	for _, in := range []string{
		`a ::= "x"`,
		`<a> "x"`,
		"<a> ::= \"x\"\n<b>\n",
	} {
		_, err := LoadTable("bad", strings.NewReader(in))
		assert.Error(t, err, "input %q", in)
	}
}

func TestLoadTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.bnf")
	require.NoError(t, os.WriteFile(path, []byte(numberGrammar), 0o644))

	tab, err := LoadTableFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, tab.Len())

	_, err = LoadTableFile(filepath.Join(t.TempDir(), "missing.bnf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewTableCopiesRules(t *testing.T) {
	rules := []Rule{{Ident: "a", Expr: `"1"`}}
	tab := NewTable(rules...)
	rules[0].Expr = `"2"`

	r, ok := tab.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, `"1"`, r.Expr)
}
