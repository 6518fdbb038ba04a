// Package ontology normalizes the supported knowledge bases (ChEBI, MEDIC,
// CTD-Chemicals) into one common shape: an is-a multigraph over concept ids
// plus name→id and synonym→id indexes.
//
// Edges point from child to parent, as in the OBO is_a tag: out-degree counts
// a concept's parents, in-degree its children. Ids referenced by the name
// indexes but absent from the graph are tolerated and report degree 0.
package ontology

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
)

// Graph is a directed is-a multigraph keyed by concept id.
// It is built once per run and read-only afterwards; concurrent reads are safe.
type Graph struct {
	g     *multi.DirectedGraph
	ids   map[string]int64
	edges int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		g:   multi.NewDirectedGraph(),
		ids: make(map[string]int64),
	}
}

// node returns the gonum node for id, creating it if needed.
func (o *Graph) node(id string) graph.Node {
	if nid, ok := o.ids[id]; ok {
		return o.g.Node(nid)
	}
	n := o.g.NewNode()
	o.g.AddNode(n)
	o.ids[id] = n.ID()
	return n
}

// AddNode registers a concept with no edges. Idempotent.
func (o *Graph) AddNode(id string) {
	o.node(id)
}

// AddEdge records child is_a parent. Parallel edges are kept.
func (o *Graph) AddEdge(child, parent string) {
	from, to := o.node(child), o.node(parent)
	o.g.SetLine(o.g.NewLine(from, to))
	o.edges++
}

// HasNode reports whether id is a node.
func (o *Graph) HasNode(id string) bool {
	_, ok := o.ids[id]
	return ok
}

// HasEdge reports whether at least one child→parent edge exists.
func (o *Graph) HasEdge(child, parent string) bool {
	u, ok := o.ids[child]
	if !ok {
		return false
	}
	v, ok := o.ids[parent]
	if !ok {
		return false
	}
	return o.g.HasEdgeFromTo(u, v)
}

// OutDegree counts edges leaving id, parallel edges included.
func (o *Graph) OutDegree(id string) int {
	nid, ok := o.ids[id]
	if !ok {
		return 0
	}
	deg := 0
	to := o.g.From(nid)
	for to.Next() {
		deg += o.g.Lines(nid, to.Node().ID()).Len()
	}
	return deg
}

// InDegree counts edges entering id, parallel edges included.
func (o *Graph) InDegree(id string) int {
	nid, ok := o.ids[id]
	if !ok {
		return 0
	}
	deg := 0
	from := o.g.To(nid)
	for from.Next() {
		deg += o.g.Lines(from.Node().ID(), nid).Len()
	}
	return deg
}

// NodeCount returns the number of concepts in the graph.
func (o *Graph) NodeCount() int { return len(o.ids) }

// EdgeCount returns the number of is-a edges, parallel edges included.
func (o *Graph) EdgeCount() int { return o.edges }
