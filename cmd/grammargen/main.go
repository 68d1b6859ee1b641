// Command grammargen compiles a BNF grammar file and reports on the strings
// it can produce.
//
// Usage:
//
//	grammargen count grammar.txt
//	grammargen sample -n 10 --seed 7 grammar.txt
//	grammargen tree grammar.txt
//	grammargen dot -o grammar.dot grammar.txt
//
// Grammar files hold one rule per line, "<ident> ::= expression", with "//"
// comments. The start rule is <程序> unless --start or the config file says
// otherwise.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
