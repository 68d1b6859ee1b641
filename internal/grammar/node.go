package grammar

// Kind tags the variant of a Node.
type Kind int

const (
	Alternation   Kind = iota // a | b
	Concatenation             // a b, a + b
	Optional                  // [ ... ]
	Repetition                // { ... }, 0 to 2 times
	Grouping                  // ( ... )
	Reference                 // <ident>
	Literal                   // "text" or 'text'
)

var kindNames = [...]string{
	Alternation:   "Alternation",
	Concatenation: "Concatenation",
	Optional:      "Optional",
	Repetition:    "Repetition",
	Grouping:      "Grouping",
	Reference:     "Reference",
	Literal:       "Literal",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(?)"
	}
	return kindNames[k]
}

// Operator is the notation used for k in tree dumps.
func (k Kind) Operator() string {
	switch k {
	case Alternation:
		return "|"
	case Concatenation:
		return "+"
	case Optional:
		return "[]"
	case Repetition:
		return "{}"
	case Grouping:
		return "()"
	case Reference:
		return "<>"
	case Literal:
		return `""`
	}
	return "?"
}

// Node is one element of a compiled expression. Nodes are never modified
// after the compiler returns them and may be shared between several parents
// when a rule is served from the session cache.
type Node struct {
	kind     Kind
	children []*Node

	ident string // Reference
	text  string // Literal
}

func (n *Node) Kind() Kind { return n.kind }

// Children returns the sub-expressions of n. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Child returns the single child of an Optional, Repetition, Grouping or
// Reference node, and nil for the other kinds.
func (n *Node) Child() *Node {
	switch n.kind {
	case Optional, Repetition, Grouping, Reference:
		return n.children[0]
	}
	return nil
}

// Ident is the referenced identifier of a Reference node.
func (n *Node) Ident() string { return n.ident }

// Text is the payload of a Literal node.
func (n *Node) Text() string { return n.text }

func newLiteral(text string) *Node {
	return &Node{kind: Literal, text: text}
}

func newReference(ident string, target *Node) *Node {
	return &Node{kind: Reference, ident: ident, children: []*Node{target}}
}

func wrap(kind Kind, child *Node) *Node {
	return &Node{kind: kind, children: []*Node{child}}
}
