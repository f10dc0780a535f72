// Package optimize implements the optimizer rules (C10, §4.9): each rule
// rewrites one logplan.Node shape in isolation, and RunToFixpoint applies
// the whole rule set bottom-up until no rule fires, generalizing the
// teacher's single-pass Optimizer.Optimize (internal/sparql/optimizer/
// optimizer.go) into a fixpoint loop over an open set of rules.
package optimize

import "github.com/aleksaelezovic/qcore/pkg/logplan"

// Rule rewrites one logplan.Node, reporting whether it changed anything.
type Rule interface {
	Apply(logplan.Node) (logplan.Node, bool, error)
}

// RunToFixpoint applies rules to every node of root, bottom-up, repeating
// full passes until none of them reports a change.
func RunToFixpoint(root logplan.Node, rules ...Rule) (logplan.Node, error) {
	for {
		next, changed, err := transformBottomUp(root, rules)
		if err != nil {
			return nil, err
		}
		root = next
		if !changed {
			return root, nil
		}
	}
}

func transformBottomUp(node logplan.Node, rules []Rule) (logplan.Node, bool, error) {
	children := node.Children()
	changed := false
	if len(children) > 0 {
		newChildren := make([]logplan.Node, len(children))
		for i, c := range children {
			nc, ch, err := transformBottomUp(c, rules)
			if err != nil {
				return nil, false, err
			}
			newChildren[i] = nc
			changed = changed || ch
		}
		if changed {
			node = rewriteChildren(node, newChildren)
		}
	}

	current := node
	for _, rule := range rules {
		next, applied, err := rule.Apply(current)
		if err != nil {
			return nil, false, err
		}
		if applied {
			current = next
			changed = true
		}
	}
	return current, changed, nil
}

// rewriteChildren reconstructs node with its Children() replaced by
// children, preserving every other field. logplan.Node's Schema()/
// Children() contract has no generic "replace child" operation, so every
// node shape needs its own case here — the price of a plain-struct node
// set instead of a reflection-driven tree walker.
func rewriteChildren(node logplan.Node, children []logplan.Node) logplan.Node {
	switch n := node.(type) {
	case *logplan.SparqlJoinNode:
		c := *n
		c.Left, c.Right = children[0], children[1]
		return &c
	case *logplan.ExtendNode:
		c := *n
		c.Input = children[0]
		return &c
	case *logplan.MinusNode:
		c := *n
		c.Left, c.Right = children[0], children[1]
		return &c
	case *logplan.PatternNode:
		c := *n
		c.Input = children[0]
		return &c
	case *logplan.KleenePlusClosureNode:
		c := *n
		c.Input = children[0]
		return &c
	case *logplan.FilterNode:
		c := *n
		c.Input = children[0]
		return &c
	case *logplan.DistinctNode:
		c := *n
		c.Input = children[0]
		return &c
	case *logplan.DistinctOnSortNode:
		c := *n
		c.Input = children[0]
		return &c
	case *logplan.OrderByNode:
		c := *n
		c.Input = children[0]
		return &c
	case *logplan.SliceNode:
		c := *n
		c.Input = children[0]
		return &c
	case *logplan.UnionByNameNode:
		c := *n
		c.Left, c.Right = children[0], children[1]
		return &c
	case *logplan.GroupNode:
		c := *n
		c.Input = children[0]
		return &c
	case *logplan.ProjectNode:
		c := *n
		c.Input = children[0]
		return &c
	case *logplan.RenameNode:
		c := *n
		c.Input = children[0]
		return &c
	case *logplan.ReencodeNode:
		c := *n
		c.Input = children[0]
		return &c
	default:
		// Leaves (QuadPatternNode, PropertyPathNode, ValuesNode) have no
		// children to replace.
		return node
	}
}

func containsVar(vars []string, v string) bool {
	for _, x := range vars {
		if x == v {
			return true
		}
	}
	return false
}

func intersectVars(a, b []string) []string {
	var out []string
	for _, v := range a {
		if containsVar(b, v) {
			out = append(out, v)
		}
	}
	return out
}
