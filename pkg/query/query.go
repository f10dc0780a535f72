// Package query holds the outward-facing result shapes of §6.2: the
// QueryResults sum type and the Solution mapping. It has no logic of its
// own; callers (a SPARQL frontend, out of scope) consume these shapes.
package query

import "github.com/aleksaelezovic/qcore/pkg/rdf"

// Solution is one row of a SELECT result: a mapping from variable name to
// bound term. A nil entry (and a missing key) both mean "unbound".
type Solution map[string]rdf.Term

// ResultKind discriminates which QueryResults variant is populated.
type ResultKind int

const (
	ResultSolutions ResultKind = iota
	ResultBoolean
	ResultGraph
)

// Solutions is the SELECT result shape: an ordered variable list plus a
// lazy finite stream of solutions.
type Solutions struct {
	Variables []string
	Rows      <-chan Solution
}

// Graph is the CONSTRUCT/DESCRIBE result shape: a lazy finite stream of
// triples.
type Graph struct {
	Triples <-chan *rdf.Triple
}

// Results is the QueryResults sum type of §6.2.
type Results struct {
	Kind      ResultKind
	Solutions Solutions
	Boolean   bool
	Graph     Graph
}
