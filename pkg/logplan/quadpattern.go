package logplan

import "github.com/aleksaelezovic/qcore/pkg/storage"

// QuadPatternNode is a leaf scanning the quad store for one (S,P,O) pattern
// under an active graph (§4.7). Its Pattern is the same shape C6's
// ChooseScan consumes directly, so the physical layer can lower this node
// without translating it first.
type QuadPatternNode struct {
	Pattern storage.QuadPattern
}

func (n *QuadPatternNode) Schema() []string {
	var vars []string
	if n.Pattern.GraphVar != "" {
		vars = append(vars, n.Pattern.GraphVar)
	}
	for _, slot := range []storage.Slot{n.Pattern.Subject, n.Pattern.Predicate, n.Pattern.Object} {
		if slot.Kind == storage.SlotVariable {
			vars = append(vars, slot.Variable)
		}
	}
	return dedupVars(vars)
}

func (n *QuadPatternNode) Children() []Node { return nil }
