package grammar

import (
	"fmt"
	"log/slog"
)

const (
	// DefaultStart is the start symbol of CompileGrammar, "program".
	DefaultStart = "程序"

	// DefaultRecursionBound is how many expansions of one identifier may be
	// in progress before further references compile to a literal.
	DefaultRecursionBound = 3

	DefaultMaxNesting = 64
)

// Stats counts what a Session did while resolving references.
type Stats struct {
	Expanded   int // rule expressions compiled
	CacheHits  int // references served from the cache
	Cutoffs    int // references replaced by a literal at the recursion bound
	Suppressed int // expansions not cached because the trace was recursive
}

// Session compiles expressions against one grammar table. It owns the
// memoization cache and the recursion trace, so independent grammars need
// independent sessions. A Session is not safe for concurrent use.
type Session struct {
	table *Table
	cache map[string]*Node
	trace []string

	start      string
	bound      int
	maxNesting int
	log        *slog.Logger
	stats      Stats
}

type Option func(*Session)

// WithRecursionBound sets how many times an identifier may appear on the
// trace before a reference to it is cut off. Negative values are ignored.
func WithRecursionBound(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.bound = n
		}
	}
}

// WithMaxNesting limits bracket nesting within a single expression.
func WithMaxNesting(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxNesting = n
		}
	}
}

// WithStart sets the identifier CompileGrammar resolves.
func WithStart(ident string) Option {
	return func(s *Session) { s.start = ident }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

func NewSession(t *Table, opts ...Option) *Session {
	if t == nil {
		t = NewTable()
	}
	s := &Session{
		table:      t,
		cache:      make(map[string]*Node),
		start:      DefaultStart,
		bound:      DefaultRecursionBound,
		maxNesting: DefaultMaxNesting,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CompileGrammar compiles the start rule of t in a fresh session.
func CompileGrammar(t *Table, opts ...Option) (*Node, error) {
	s := NewSession(t, opts...)
	return s.CompileStart()
}

// CompileStart resolves the session's start symbol.
func (s *Session) CompileStart() (*Node, error) {
	return s.Resolve(s.start)
}

// Compile turns expression text into a node tree, resolving references
// through the session's table.
func (s *Session) Compile(expr string) (*Node, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return nil, err
	}
	p := &parser{s: s, toks: toks, end: len(expr)}
	return p.parse()
}

// Resolve returns the compiled expression of the rule named ident.
//
// An identifier already on the trace more than the recursion bound allows
// resolves to a literal holding its own name, which is what makes
// self-referential rules terminate. Otherwise a cached node is reused, or the
// last rule for ident is compiled. The result is cached only if no
// identifier appears twice on the trace; a node built inside a recursive
// expansion depends on where the cutoff happened.
func (s *Session) Resolve(ident string) (*Node, error) {
	if n := s.onTrace(ident); n > s.bound {
		s.stats.Cutoffs++
		s.log.Debug("recursion bound reached", "ident", ident, "depth", n)
		return newLiteral(ident), nil
	}
	if n, ok := s.cache[ident]; ok {
		s.stats.CacheHits++
		return n, nil
	}

	rule, ok := s.table.Lookup(ident)
	if !ok {
		return nil, &UnresolvedIdentifierError{Ident: ident}
	}

	s.trace = append(s.trace, ident)
	defer func() { s.trace = s.trace[:len(s.trace)-1] }()

	n, err := s.Compile(rule.Expr)
	if err != nil {
		if rule.Line > 0 {
			return nil, fmt.Errorf("<%s> (line %d): %w", ident, rule.Line, err)
		}
		return nil, fmt.Errorf("<%s>: %w", ident, err)
	}
	s.stats.Expanded++

	if s.recursive() {
		s.stats.Suppressed++
		s.log.Debug("not caching recursive expansion", "ident", ident, "trace", len(s.trace))
	} else {
		s.cache[ident] = n
	}
	return n, nil
}

func (s *Session) Stats() Stats { return s.stats }

func (s *Session) onTrace(ident string) int {
	n := 0
	for _, id := range s.trace {
		if id == ident {
			n++
		}
	}
	return n
}

// recursive reports whether any identifier appears twice on the trace.
func (s *Session) recursive() bool {
	seen := make(map[string]struct{}, len(s.trace))
	for _, id := range s.trace {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
