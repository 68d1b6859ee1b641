package grammar

import (
	"strconv"
	"strings"
)

// String renders n on one line as {op -> [child, ...]}. References print
// as <ident> without descending, so shared and recursive rules stay finite.
func (n *Node) String() string {
	var sb strings.Builder
	n.writeFlat(&sb)
	return sb.String()
}

func (n *Node) writeFlat(sb *strings.Builder) {
	switch n.kind {
	case Literal:
		sb.WriteString(quoteLiteral(n))
		return
	case Reference:
		sb.WriteString("<" + n.ident + ">")
		return
	}
	sb.WriteString("{" + n.kind.Operator() + " -> [")
	for i, ch := range n.children {
		if i > 0 {
			sb.WriteString(", ")
		}
		ch.writeFlat(sb)
	}
	sb.WriteString("]}")
}

// TreeString renders the whole tree, one node per line. A rule is expanded
// the first time its identifier is met and printed as <ident> afterwards.
func TreeString(n *Node) string {
	tp := treePrinter{seen: make(map[string]bool)}
	tp.write(n, 0)
	return tp.sb.String()
}

type treePrinter struct {
	sb   strings.Builder
	seen map[string]bool
}

func (tp *treePrinter) write(n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.kind {
	case Literal:
		tp.sb.WriteString(indent + quoteLiteral(n))
		return
	case Reference:
		if tp.seen[n.ident] {
			tp.sb.WriteString(indent + "<" + n.ident + ">")
			return
		}
		tp.seen[n.ident] = true
		tp.sb.WriteString(indent + "{<" + n.ident + "> -> [\n")
	default:
		tp.sb.WriteString(indent + "{" + n.kind.Operator() + " -> [\n")
	}
	for _, ch := range n.children {
		tp.write(ch, depth+1)
		tp.sb.WriteString(",\n")
	}
	tp.sb.WriteString(indent + "]}")
}

func quoteLiteral(n *Node) string {
	return strconv.Quote(n.text)
}
