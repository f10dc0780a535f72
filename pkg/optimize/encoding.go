package optimize

import (
	"github.com/aleksaelezovic/qcore/pkg/exprbuilder"
	"github.com/aleksaelezovic/qcore/pkg/logplan"
)

// EncodingAlignmentRule forces a join or union's shared columns to
// PlainTerm unless both sides already carry the same encoding and that
// encoding is PlainTerm or ObjectId (§4.9.3). This engine has exactly one
// objectid.Mapping per store (§3.1), so any two ObjectId-encoded columns
// necessarily come from the same mapping — the "only if both sides come
// from the same storage mapping" qualifier is automatically satisfied.
type EncodingAlignmentRule struct{}

func (EncodingAlignmentRule) Apply(node logplan.Node) (logplan.Node, bool, error) {
	switch n := node.(type) {
	case *logplan.SparqlJoinNode:
		left, right, changed := alignSharedColumns(n.Left, n.Right)
		if !changed {
			return node, false, nil
		}
		c := *n
		c.Left, c.Right = left, right
		return &c, true, nil
	case *logplan.UnionByNameNode:
		left, right, changed := alignSharedColumns(n.Left, n.Right)
		if !changed {
			return node, false, nil
		}
		c := *n
		c.Left, c.Right = left, right
		return &c, true, nil
	default:
		return node, false, nil
	}
}

func alignSharedColumns(left, right logplan.Node) (logplan.Node, logplan.Node, bool) {
	shared := intersectVars(left.Schema(), right.Schema())
	changed := false
	for _, v := range shared {
		le := columnEncoding(left, v)
		re := columnEncoding(right, v)
		if columnsAligned(le, re) {
			continue
		}
		if le != exprbuilder.EncPlainTerm {
			left = &logplan.ReencodeNode{Input: left, Variable: v, Target: exprbuilder.EncPlainTerm}
			changed = true
		}
		if re != exprbuilder.EncPlainTerm {
			right = &logplan.ReencodeNode{Input: right, Variable: v, Target: exprbuilder.EncPlainTerm}
			changed = true
		}
	}
	return left, right, changed
}

func columnsAligned(left, right exprbuilder.Encoding) bool {
	if left != right {
		return false
	}
	return left == exprbuilder.EncPlainTerm || left == exprbuilder.EncObjectId
}

// columnEncoding traces variable back to the node that produced it: an
// ExtendNode or ReencodeNode setting it explicitly, a join/union choosing
// whichever side carries it, any other single-input node passing the lookup
// through to its input, or — for every scan leaf (QuadPatternNode,
// PropertyPathNode, ValuesNode) and any other node — the PlainTerm default
// every scan and constant table produces.
func columnEncoding(node logplan.Node, variable string) exprbuilder.Encoding {
	switch n := node.(type) {
	case *logplan.ExtendNode:
		if n.Variable == variable {
			return n.Expr.Encoding
		}
		return columnEncoding(n.Input, variable)
	case *logplan.ReencodeNode:
		if n.Variable == variable {
			return n.Target
		}
		return columnEncoding(n.Input, variable)
	case *logplan.SparqlJoinNode:
		if containsVar(n.Left.Schema(), variable) {
			return columnEncoding(n.Left, variable)
		}
		return columnEncoding(n.Right, variable)
	case *logplan.UnionByNameNode:
		if containsVar(n.Left.Schema(), variable) {
			return columnEncoding(n.Left, variable)
		}
		return columnEncoding(n.Right, variable)
	case *logplan.MinusNode:
		return columnEncoding(n.Left, variable)
	default:
		children := node.Children()
		if len(children) == 1 {
			return columnEncoding(children[0], variable)
		}
		return exprbuilder.EncPlainTerm
	}
}
