package grammar

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Rule is one "<Ident> ::= Expr" line of a grammar.
type Rule struct {
	Ident string
	Expr  string
	Line  int // 0 when the rule was not loaded from a file
}

// Table holds the rules of a grammar in source order. It is read-only once
// loaded.
type Table struct {
	rules []Rule
}

func NewTable(rules ...Rule) *Table {
	return &Table{rules: append([]Rule(nil), rules...)}
}

// Lookup returns the last rule defining ident.
func (t *Table) Lookup(ident string) (Rule, bool) {
	for i := len(t.rules) - 1; i >= 0; i-- {
		if t.rules[i].Ident == ident {
			return t.rules[i], true
		}
	}
	return Rule{}, false
}

func (t *Table) Rules() []Rule { return t.rules }

func (t *Table) Len() int { return len(t.rules) }

// Grammar files are line oriented. "//" starts a comment anywhere on a line,
// including inside the expression text.
var ruleLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Comment", Pattern: `//[^\n]*`},
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Head", Pattern: `<[^>\n]*>`},
		{Name: "Define", Pattern: `::=`, Action: lexer.Push("Body")},
	},
	"Body": {
		{Name: "Comment", Pattern: `//[^\n]*`},
		{Name: "EOL", Pattern: `\n`, Action: lexer.Pop()},
		{Name: "Expr", Pattern: `(?:[^/\n]|/[^/\n])+`},
	},
})

type ruleFile struct {
	Lines []*ruleLine `parser:"@@*"`
}

type ruleLine struct {
	Pos  lexer.Position
	Head string `parser:"@Head '::='"`
	Expr string `parser:"@Expr?"`
}

var ruleParser = participle.MustBuild[ruleFile](
	participle.Lexer(ruleLexer),
	participle.Elide("Comment", "Whitespace", "EOL"),
)

// LoadTable reads a grammar from r. name is used in error positions.
func LoadTable(name string, r io.Reader) (*Table, error) {
	f, err := ruleParser.Parse(name, r)
	if err != nil {
		return nil, err
	}
	t := &Table{rules: make([]Rule, 0, len(f.Lines))}
	for _, l := range f.Lines {
		t.rules = append(t.rules, Rule{
			Ident: strings.TrimSuffix(strings.TrimPrefix(l.Head, "<"), ">"),
			Expr:  strings.TrimSpace(l.Expr),
			Line:  l.Pos.Line,
		})
	}
	return t, nil
}

func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := LoadTable(path, f)
	if err != nil {
		return nil, fmt.Errorf("load grammar: %w", err)
	}
	return t, nil
}
