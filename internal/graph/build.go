package graph

import "github.com/me/goshop/pkg/jobshop"

// BuildDisjunctiveGraph constructs the classic disjunctive graph of an
// instance: one node per operation, conjunctive edges chaining each
// job's operations from a source node to a sink node, and bidirectional
// disjunctive edges between every pair of operations sharing an eligible
// machine.
func BuildDisjunctiveGraph(instance *jobshop.Instance) (*Graph, error) {
	g := NewGraph(instance)

	for _, op := range instance.Operations() {
		g.AddNode(NodeOperation, op.OperationID)
	}

	if err := addDisjunctiveEdges(g); err != nil {
		return nil, err
	}
	if err := addConjunctiveEdges(g); err != nil {
		return nil, err
	}
	if err := addSourceSink(g); err != nil {
		return nil, err
	}
	return g, nil
}

// BuildResourceTaskGraph constructs a graph with machine and job nodes
// in addition to operation nodes: each operation links to its eligible
// machines and to its job. Residual maintainers prune machine and job
// nodes from this form as they complete.
func BuildResourceTaskGraph(instance *jobshop.Instance) (*Graph, error) {
	g := NewGraph(instance)

	for _, op := range instance.Operations() {
		g.AddNode(NodeOperation, op.OperationID)
	}
	if err := addConjunctiveEdges(g); err != nil {
		return nil, err
	}
	if err := AddMachineNodes(g); err != nil {
		return nil, err
	}
	if err := AddJobNodes(g); err != nil {
		return nil, err
	}
	return g, nil
}

// addDisjunctiveEdges adds a bidirectional disjunctive pair for every
// two operations eligible on the same machine.
func addDisjunctiveEdges(g *Graph) error {
	instance := g.Instance()
	for m := 0; m < instance.NumMachines(); m++ {
		ops := instance.OperationsByMachine(m)
		for i := 0; i < len(ops); i++ {
			for j := i + 1; j < len(ops); j++ {
				a := g.OperationNode(ops[i].OperationID)
				b := g.OperationNode(ops[j].OperationID)
				if err := g.AddEdge(a, b, EdgeDisjunctive); err != nil {
					return err
				}
				if err := g.AddEdge(b, a, EdgeDisjunctive); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// addConjunctiveEdges chains each job's operations in position order.
func addConjunctiveEdges(g *Graph) error {
	for _, job := range g.Instance().Jobs {
		for i := 1; i < len(job); i++ {
			prev := g.OperationNode(job[i-1].OperationID)
			next := g.OperationNode(job[i].OperationID)
			if err := g.AddEdge(prev, next, EdgeConjunctive); err != nil {
				return err
			}
		}
	}
	return nil
}

// addSourceSink adds the source and sink nodes and links them to the
// first and last operation of every job.
func addSourceSink(g *Graph) error {
	source := g.AddNode(NodeSource, -1)
	sink := g.AddNode(NodeSink, -1)

	for _, job := range g.Instance().Jobs {
		if len(job) == 0 {
			continue
		}
		first := g.OperationNode(job[0].OperationID)
		last := g.OperationNode(job[len(job)-1].OperationID)
		if err := g.AddEdge(source, first, EdgeConjunctive); err != nil {
			return err
		}
		if err := g.AddEdge(last, sink, EdgeConjunctive); err != nil {
			return err
		}
	}
	return nil
}

// AddMachineNodes adds one node per machine with edges to and from every
// eligible operation node.
func AddMachineNodes(g *Graph) error {
	instance := g.Instance()
	for m := 0; m < instance.NumMachines(); m++ {
		machineNode := g.AddNode(NodeMachine, m)
		for _, op := range instance.OperationsByMachine(m) {
			opNode := g.OperationNode(op.OperationID)
			if err := g.AddEdge(machineNode, opNode, EdgeDisjunctive); err != nil {
				return err
			}
			if err := g.AddEdge(opNode, machineNode, EdgeDisjunctive); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddJobNodes adds one node per job with edges to and from every one of
// its operation nodes.
func AddJobNodes(g *Graph) error {
	for jobID, job := range g.Instance().Jobs {
		jobNode := g.AddNode(NodeJob, jobID)
		for _, op := range job {
			opNode := g.OperationNode(op.OperationID)
			if err := g.AddEdge(jobNode, opNode, EdgeConjunctive); err != nil {
				return err
			}
			if err := g.AddEdge(opNode, jobNode, EdgeConjunctive); err != nil {
				return err
			}
		}
	}
	return nil
}
