package logplan

import "github.com/aleksaelezovic/qcore/pkg/rdf"

// ValuesNode is an inline constant table (§4.7), lowered from algebra.Values
// after forcing every bound term to PlainTerm. A nil entry in Rows means
// that row leaves the corresponding variable UNDEF.
type ValuesNode struct {
	Variables []string
	Rows      [][]rdf.Term
}

func (n *ValuesNode) Schema() []string  { return n.Variables }
func (n *ValuesNode) Children() []Node { return nil }
