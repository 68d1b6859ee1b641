package grammar

import (
	"fmt"
	"io"
	"strconv"
)

// ExportDOT writes a Graphviz digraph of the tree rooted at n. Shared nodes
// are drawn once with several incoming edges.
func ExportDOT(w io.Writer, n *Node) error {
	ew := &errWriter{w: w}
	ew.printf("digraph G {\n")
	ew.printf("    node [fontname=monospace];\n")

	ids := map[*Node]int{}
	var dfs func(*Node) int
	dfs = func(n *Node) int {
		if id, ok := ids[n]; ok {
			return id
		}
		id := len(ids)
		ids[n] = id

		shape := "ellipse"
		label := n.kind.Operator()
		switch n.kind {
		case Literal:
			shape = "box"
			label = strconv.Quote(n.text)
		case Reference:
			shape = "hexagon"
			label = "<" + n.ident + ">"
		}
		ew.printf("    n%d [shape=%s, label=%s];\n", id, shape, strconv.Quote(label))

		for i, ch := range n.children {
			to := dfs(ch)
			if len(n.children) > 1 {
				ew.printf("    n%d -> n%d [label=\"%d\"];\n", id, to, i)
			} else {
				ew.printf("    n%d -> n%d;\n", id, to)
			}
		}
		return id
	}
	root := dfs(n)
	ew.printf("    _start [shape=point]; _start -> n%d;\n", root)
	ew.printf("}\n")
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
