package jobshop

import "fmt"

// Operation is a task that must be performed on one of a set of eligible
// machines for a fixed duration. Operations are immutable once their
// instance is built; JobID, PositionInJob and OperationID are assigned by
// the Instance constructor in job-major, position-minor order.
type Operation struct {
	// Machines holds the ids of the machines that can perform the
	// operation. Always non-empty after instance construction.
	Machines []int
	// Duration is the processing time, identical on every eligible machine.
	Duration int

	JobID         int
	PositionInJob int
	OperationID   int
}

// NewOperation creates an operation eligible on the given machines.
// The identity fields stay -1 until an Instance adopts the operation.
func NewOperation(duration int, machines ...int) *Operation {
	return &Operation{
		Machines:      machines,
		Duration:      duration,
		JobID:         -1,
		PositionInJob: -1,
		OperationID:   -1,
	}
}

// MachineID returns the single eligible machine of a non-flexible
// operation. It fails when the operation can run on more than one machine;
// callers scheduling flexible operations must pick a machine explicitly.
func (o *Operation) MachineID() (int, error) {
	if len(o.Machines) != 1 {
		return 0, &UninitializedAttributeError{
			Attribute: "MachineID",
			Hint:      fmt.Sprintf("operation %d has %d eligible machines", o.OperationID, len(o.Machines)),
		}
	}
	return o.Machines[0], nil
}

// IsEligible reports whether machineID can process the operation.
func (o *Operation) IsEligible(machineID int) bool {
	for _, m := range o.Machines {
		if m == machineID {
			return true
		}
	}
	return false
}

func (o *Operation) String() string {
	return fmt.Sprintf("O(id=%d, j=%d, p=%d, d=%d, m=%v)",
		o.OperationID, o.JobID, o.PositionInJob, o.Duration, o.Machines)
}
