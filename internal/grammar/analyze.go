package grammar

import (
	"math/big"
	"math/rand/v2"
	"strings"
)

var one = big.NewInt(1)

// Count returns the number of strings n can derive. Repetition counts zero,
// one or two occurrences of its child.
func Count(n *Node) *big.Int {
	c := counter{memo: make(map[*Node]*big.Int)}
	return new(big.Int).Set(c.count(n))
}

type counter struct {
	memo map[*Node]*big.Int
}

func (c *counter) count(n *Node) *big.Int {
	if v, ok := c.memo[n]; ok {
		return v
	}

	v := new(big.Int)
	switch n.kind {
	case Alternation:
		for _, ch := range n.children {
			v.Add(v, c.count(ch))
		}
	case Concatenation:
		v.Set(one)
		for _, ch := range n.children {
			v.Mul(v, c.count(ch))
		}
	case Optional:
		v.Add(one, c.count(n.children[0]))
	case Repetition:
		x := c.count(n.children[0])
		v.Mul(x, x)
		v.Add(v, x)
		v.Add(v, one)
	case Grouping, Reference:
		v.Set(c.count(n.children[0]))
	case Literal:
		v.Set(one)
	}
	c.memo[n] = v
	return v
}

// Sampler draws random strings from compiled expressions. It is not safe for
// concurrent use.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler returns a sampler whose draws are fully determined by seed.
func NewSampler(seed uint64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewSamplerFrom uses src as the source of randomness.
func NewSamplerFrom(src rand.Source) *Sampler {
	return &Sampler{rng: rand.New(src)}
}

// Sample returns one random string derived from n. Every call draws afresh.
func (s *Sampler) Sample(n *Node) string {
	var sb strings.Builder
	s.draw(&sb, n)
	return sb.String()
}

func (s *Sampler) draw(sb *strings.Builder, n *Node) {
	switch n.kind {
	case Alternation:
		s.draw(sb, n.children[s.rng.IntN(len(n.children))])
	case Concatenation:
		for _, ch := range n.children {
			s.draw(sb, ch)
		}
	case Optional:
		if s.rng.IntN(2) == 1 {
			s.draw(sb, n.children[0])
		}
	case Repetition:
		for i := s.rng.IntN(3); i > 0; i-- {
			s.draw(sb, n.children[0])
		}
	case Grouping, Reference:
		s.draw(sb, n.children[0])
	case Literal:
		sb.WriteString(n.text)
	}
}
