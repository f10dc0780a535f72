package logplan

import "github.com/aleksaelezovic/qcore/pkg/exprbuilder"

// ReencodeNode rewrites one output column to a different encoding in
// place, keeping its variable name. EncodingAlignmentRule (§4.9.3) inserts
// these ahead of a join or union rather than mutating a node's output
// encoding directly, the same insert-a-node-not-mutate-in-place shape
// pkg/exprbuilder.reencode uses for expression arguments.
type ReencodeNode struct {
	Input    Node
	Variable string
	Target   exprbuilder.Encoding
}

func (n *ReencodeNode) Schema() []string  { return n.Input.Schema() }
func (n *ReencodeNode) Children() []Node { return []Node{n.Input} }
