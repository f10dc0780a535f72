package logplan

import (
	"github.com/aleksaelezovic/qcore/pkg/algebra"
	"github.com/aleksaelezovic/qcore/pkg/storage"
)

// PropertyPathNode is a leaf evaluating a SPARQL property-path expression
// (§4.7); PropertyPathLoweringRule (§4.9.1) rewrites it away before
// physical execution.
type PropertyPathNode struct {
	ActiveGraph storage.ActiveGraph
	GraphVar    string
	Path        algebra.PathExpr
	Subject     storage.Slot
	Object      storage.Slot
}

func (n *PropertyPathNode) Schema() []string {
	var vars []string
	if n.GraphVar != "" {
		vars = append(vars, n.GraphVar)
	}
	for _, slot := range []storage.Slot{n.Subject, n.Object} {
		if slot.Kind == storage.SlotVariable {
			vars = append(vars, slot.Variable)
		}
	}
	return dedupVars(vars)
}

func (n *PropertyPathNode) Children() []Node { return nil }

// PatternNode reshapes a (graph, start, end) path-scan schema — the shape
// KleenePlusClosureNode and the property-path union/join lowerings all
// produce — into output columns matching a term-pattern triple (§4.7):
// a non-empty GraphVar, and a Subject/Object Slot of kind SlotVariable,
// becomes an output column bound from the corresponding input column; a Slot left as
// SlotBound or SlotWildcard is dropped from the output instead.
type PatternNode struct {
	Input    Node // schema: graph, start, end
	GraphVar string
	Subject  storage.Slot // matched against "start"
	Object   storage.Slot // matched against "end"
}

func (n *PatternNode) Schema() []string {
	var vars []string
	if n.GraphVar != "" {
		vars = append(vars, n.GraphVar)
	}
	for _, slot := range []storage.Slot{n.Subject, n.Object} {
		if slot.Kind == storage.SlotVariable {
			vars = append(vars, slot.Variable)
		}
	}
	return dedupVars(vars)
}

func (n *PatternNode) Children() []Node { return []Node{n.Input} }
