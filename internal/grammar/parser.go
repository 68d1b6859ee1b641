package grammar

type parser struct {
	s     *Session
	toks  []token
	pos   int
	end   int // offset reported for tEOF
	depth int
}

func (p *parser) look() token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return token{typ: tEOF, pos: p.end}
}

func (p *parser) scan() token {
	t := p.look()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

// parse compiles a complete expression; leftover tokens are an error.
func (p *parser) parse() (*Node, error) {
	n, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if t := p.look(); t.typ != tEOF {
		return nil, syntaxErrorf(t.pos, "unexpected %s", t.typ)
	}
	return n, nil
}

// alt := concat ("|" concat)*
func (p *parser) parseAlternation() (*Node, error) {
	first, err := p.parseConcatenation()
	if err != nil {
		return nil, err
	}
	alt := &Node{kind: Alternation, children: []*Node{first}}
	for p.look().typ == tUnion {
		p.scan()
		next, err := p.parseConcatenation()
		if err != nil {
			return nil, err
		}
		alt.children = append(alt.children, next)
	}
	return alt, nil
}

// concat := atom (["+"] atom)*
func (p *parser) parseConcatenation() (*Node, error) {
	first, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	cat := &Node{kind: Concatenation, children: []*Node{first}}
	for {
		switch t := p.look(); {
		case t.typ == tPlus:
			p.scan()
		case t.opensAtom():
		default:
			return cat, nil
		}
		next, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		cat.children = append(cat.children, next)
	}
}

func (p *parser) parseAtom() (*Node, error) {
	t := p.look()
	switch t.typ {
	case tLBracket:
		return p.parseBracket(Optional, tRBracket)
	case tLBrace:
		return p.parseBracket(Repetition, tRBrace)
	case tLParen:
		return p.parseBracket(Grouping, tRParen)
	case tRef:
		p.scan()
		target, err := p.s.Resolve(t.text)
		if err != nil {
			return nil, err
		}
		return newReference(t.text, target), nil
	case tLiteral:
		p.scan()
		return newLiteral(t.text), nil
	}
	return nil, syntaxErrorf(t.pos, "unexpected %s", t.typ)
}

func (p *parser) parseBracket(kind Kind, closer tokenType) (*Node, error) {
	open := p.scan()
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.s.maxNesting {
		return nil, &NestingLimitError{Limit: p.s.maxNesting, Offset: open.pos}
	}

	inner, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if t := p.look(); t.typ != closer {
		return nil, syntaxErrorf(t.pos, "expected %s to close %s at offset %d, found %s",
			closer, open.typ, open.pos, t.typ)
	}
	p.scan()
	return wrap(kind, inner), nil
}
