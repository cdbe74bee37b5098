package loader

import (
	"encoding/json"
	"fmt"

	"github.com/me/goshop/pkg/jobshop"
)

// Document is the JSON representation of an instance. The machines
// matrix holds one eligible-machine list per operation; a plain integer
// matrix (the common non-flexible form) is accepted on decode.
type Document struct {
	Name           string           `json:"name"`
	DurationMatrix [][]int          `json:"duration_matrix"`
	MachinesMatrix json.RawMessage  `json:"machines_matrix"`
	Metadata       jobshop.Metadata `json:"metadata,omitempty"`
}

// EncodeJSON renders an instance as a JSON document. Non-flexible
// instances get the compact integer machines matrix.
func EncodeJSON(instance *jobshop.Instance) ([]byte, error) {
	doc := Document{
		Name:           instance.Name,
		DurationMatrix: instance.DurationsMatrix(),
		Metadata:       instance.Metadata,
	}

	var machines any = instance.MachinesMatrix()
	if !instance.IsFlexible() {
		compact := make([][]int, instance.NumJobs())
		for jobID, job := range instance.Jobs {
			compact[jobID] = make([]int, len(job))
			for pos, op := range job {
				compact[jobID][pos] = op.Machines[0]
			}
		}
		machines = compact
	}
	raw, err := json.Marshal(machines)
	if err != nil {
		return nil, fmt.Errorf("marshal machines matrix: %w", err)
	}
	doc.MachinesMatrix = raw

	return json.MarshalIndent(doc, "", "  ")
}

// DecodeJSON parses a JSON instance document.
func DecodeJSON(data []byte) (*jobshop.Instance, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode instance document: %w", err)
	}

	machines, err := decodeMachinesMatrix(doc.MachinesMatrix)
	if err != nil {
		return nil, err
	}

	name := doc.Name
	if name == "" {
		name = "instance"
	}
	return jobshop.FromMatrices(name, doc.DurationMatrix, machines, doc.Metadata)
}

// decodeMachinesMatrix accepts both the flexible form [[[0,1],[2]]] and
// the non-flexible form [[0,2]].
func decodeMachinesMatrix(raw json.RawMessage) ([][][]int, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing machines_matrix")
	}

	var flexible [][][]int
	if err := json.Unmarshal(raw, &flexible); err == nil {
		return flexible, nil
	}

	var flat [][]int
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("machines_matrix is neither [][]int nor [][][]int: %w", err)
	}
	out := make([][][]int, len(flat))
	for jobID, row := range flat {
		out[jobID] = make([][]int, len(row))
		for pos, machine := range row {
			out[jobID][pos] = []int{machine}
		}
	}
	return out, nil
}
