// Package graph maintains a job shop graph: nodes for operations,
// machines and jobs, conjunctive edges for precedence within a job, and
// disjunctive edges between operations competing for a machine.
package graph

import (
	"fmt"

	"github.com/me/goshop/pkg/jobshop"
)

// NodeType classifies graph nodes.
type NodeType string

const (
	NodeOperation NodeType = "operation"
	NodeMachine   NodeType = "machine"
	NodeJob       NodeType = "job"
	NodeSource    NodeType = "source"
	NodeSink      NodeType = "sink"
)

// EdgeType classifies graph edges.
type EdgeType string

const (
	// EdgeConjunctive links consecutive operations of a job: a fixed
	// precedence.
	EdgeConjunctive EdgeType = "conjunctive"
	// EdgeDisjunctive links operations competing for the same machine:
	// an ordering still to be decided.
	EdgeDisjunctive EdgeType = "disjunctive"
)

// Node is a graph node. EntityID is the operation, machine or job id the
// node represents; -1 for source and sink.
type Node struct {
	ID       int
	Type     NodeType
	EntityID int
}

// Edge is a directed, typed edge between node ids.
type Edge struct {
	From int
	To   int
	Type EdgeType
}

// Graph stores nodes in an arena addressed by stable integer ids with a
// parallel removed set. Nodes are never physically deleted or
// reindexed, so node ids held by observers stay valid for the graph's
// lifetime.
type Graph struct {
	instance *jobshop.Instance
	nodes    []Node
	removed  []bool
	edges    []Edge // append-only log, survives node removal
	outgoing [][]Edge
	incoming [][]Edge

	operationNodes []int // operation id -> node id
	machineNodes   []int // machine id -> node id, -1 when absent
	jobNodes       []int // job id -> node id, -1 when absent
}

// NewGraph creates an empty graph for the instance.
func NewGraph(instance *jobshop.Instance) *Graph {
	g := &Graph{
		instance:     instance,
		machineNodes: make([]int, instance.NumMachines()),
		jobNodes:     make([]int, instance.NumJobs()),
	}
	for i := range g.machineNodes {
		g.machineNodes[i] = -1
	}
	for i := range g.jobNodes {
		g.jobNodes[i] = -1
	}
	return g
}

// Instance returns the instance the graph describes.
func (g *Graph) Instance() *jobshop.Instance { return g.instance }

// AddNode appends a node to the arena and returns its id.
func (g *Graph) AddNode(nodeType NodeType, entityID int) int {
	id := len(g.nodes)
	g.nodes = append(g.nodes, Node{ID: id, Type: nodeType, EntityID: entityID})
	g.removed = append(g.removed, false)
	g.outgoing = append(g.outgoing, nil)
	g.incoming = append(g.incoming, nil)

	switch nodeType {
	case NodeOperation:
		for len(g.operationNodes) <= entityID {
			g.operationNodes = append(g.operationNodes, -1)
		}
		g.operationNodes[entityID] = id
	case NodeMachine:
		g.machineNodes[entityID] = id
	case NodeJob:
		g.jobNodes[entityID] = id
	}
	return id
}

// AddEdge adds a directed edge between two live nodes.
func (g *Graph) AddEdge(from, to int, edgeType EdgeType) error {
	if err := g.checkNode(from); err != nil {
		return err
	}
	if err := g.checkNode(to); err != nil {
		return err
	}
	e := Edge{From: from, To: to, Type: edgeType}
	g.edges = append(g.edges, e)
	g.outgoing[from] = append(g.outgoing[from], e)
	g.incoming[to] = append(g.incoming[to], e)
	return nil
}

// RestoreAll clears every removed flag and rebuilds the adjacency lists
// from the full edge log, undoing all removals.
func (g *Graph) RestoreAll() {
	for i := range g.removed {
		g.removed[i] = false
		g.outgoing[i] = nil
		g.incoming[i] = nil
	}
	for _, e := range g.edges {
		g.outgoing[e.From] = append(g.outgoing[e.From], e)
		g.incoming[e.To] = append(g.incoming[e.To], e)
	}
}

func (g *Graph) checkNode(id int) error {
	if id < 0 || id >= len(g.nodes) {
		return fmt.Errorf("node %d does not exist", id)
	}
	if g.removed[id] {
		return fmt.Errorf("node %d is removed", id)
	}
	return nil
}

// Node returns the node with the given id. The node stays addressable
// after removal.
func (g *Graph) Node(id int) Node { return g.nodes[id] }

// NumNodes returns the arena size, removed nodes included.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumLiveNodes returns the number of non-removed nodes.
func (g *Graph) NumLiveNodes() int {
	n := 0
	for _, r := range g.removed {
		if !r {
			n++
		}
	}
	return n
}

// IsRemoved reports whether the node has been removed.
func (g *Graph) IsRemoved(id int) bool {
	return id < 0 || id >= len(g.nodes) || g.removed[id]
}

// RemoveNode marks the node removed and detaches its incident edges.
// Removing an already-removed node is a no-op.
func (g *Graph) RemoveNode(id int) {
	if g.IsRemoved(id) {
		return
	}
	g.removed[id] = true

	for _, e := range g.outgoing[id] {
		g.incoming[e.To] = dropEdges(g.incoming[e.To], id)
	}
	for _, e := range g.incoming[id] {
		g.outgoing[e.From] = dropEdges(g.outgoing[e.From], id)
	}
	g.outgoing[id] = nil
	g.incoming[id] = nil
}

// dropEdges filters out edges touching the removed node id.
func dropEdges(edges []Edge, removed int) []Edge {
	out := edges[:0]
	for _, e := range edges {
		if e.From != removed && e.To != removed {
			out = append(out, e)
		}
	}
	return out
}

// Outgoing returns the live outgoing edges of a node.
func (g *Graph) Outgoing(id int) []Edge { return g.outgoing[id] }

// Incoming returns the live incoming edges of a node.
func (g *Graph) Incoming(id int) []Edge { return g.incoming[id] }

// NodesByType returns the ids of live nodes of the given type.
func (g *Graph) NodesByType(nodeType NodeType) []int {
	var out []int
	for _, n := range g.nodes {
		if n.Type == nodeType && !g.removed[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}

// OperationNode returns the node id for an operation, or -1.
func (g *Graph) OperationNode(operationID int) int {
	if operationID < 0 || operationID >= len(g.operationNodes) {
		return -1
	}
	return g.operationNodes[operationID]
}

// MachineNode returns the node id for a machine, or -1 when machine
// nodes were not built.
func (g *Graph) MachineNode(machineID int) int { return g.machineNodes[machineID] }

// JobNode returns the node id for a job, or -1 when job nodes were not
// built.
func (g *Graph) JobNode(jobID int) int { return g.jobNodes[jobID] }

// HasMachineNodes reports whether any live machine node exists.
func (g *Graph) HasMachineNodes() bool { return len(g.NodesByType(NodeMachine)) > 0 }

// HasJobNodes reports whether any live job node exists.
func (g *Graph) HasJobNodes() bool { return len(g.NodesByType(NodeJob)) > 0 }
