package jobshop

import "fmt"

// Metadata carries optional information about a benchmark instance. The
// dispatching engine never reads it; it exists for reporting and storage.
type Metadata struct {
	Optimum    int    `json:"optimum,omitempty"`
	LowerBound int    `json:"lower_bound,omitempty"`
	UpperBound int    `json:"upper_bound,omitempty"`
	Reference  string `json:"reference,omitempty"`
}

// Instance is an immutable job shop scheduling problem: a list of jobs,
// each an ordered sequence of operations. Aggregates that the engine and
// feature observers rely on are computed once at construction.
type Instance struct {
	Name     string
	Jobs     [][]*Operation
	Metadata Metadata

	numMachines         int
	numOperations       int
	maxDuration         int
	operationsByMachine [][]*Operation
	operationsByID      []*Operation
}

// New builds an instance from an explicit job list. It assigns JobID,
// PositionInJob and OperationID to every operation (job-major,
// position-minor) and validates that each operation has at least one
// eligible machine and a non-negative duration.
func New(name string, jobs [][]*Operation, meta Metadata) (*Instance, error) {
	inst := &Instance{Name: name, Jobs: jobs, Metadata: meta}

	operationID := 0
	maxMachineID := -1
	for jobID, job := range jobs {
		for position, op := range job {
			if len(op.Machines) == 0 {
				return nil, NewValidationError(
					"job %d position %d: operation has no eligible machines", jobID, position)
			}
			if op.Duration < 0 {
				return nil, NewValidationError(
					"job %d position %d: negative duration %d", jobID, position, op.Duration)
			}
			op.JobID = jobID
			op.PositionInJob = position
			op.OperationID = operationID
			operationID++

			for _, m := range op.Machines {
				if m < 0 {
					return nil, NewValidationError(
						"job %d position %d: negative machine id %d", jobID, position, m)
				}
				if m > maxMachineID {
					maxMachineID = m
				}
			}
			if op.Duration > inst.maxDuration {
				inst.maxDuration = op.Duration
			}
			inst.operationsByID = append(inst.operationsByID, op)
		}
	}

	inst.numOperations = operationID
	inst.numMachines = maxMachineID + 1

	inst.operationsByMachine = make([][]*Operation, inst.numMachines)
	for _, op := range inst.operationsByID {
		for _, m := range op.Machines {
			inst.operationsByMachine[m] = append(inst.operationsByMachine[m], op)
		}
	}

	return inst, nil
}

// FromMatrices builds an instance from a duration matrix D[job][pos] and a
// machines matrix M[job][pos] giving the eligible machines per operation.
// The matrices must have identical shapes.
func FromMatrices(name string, durations [][]int, machines [][][]int, meta Metadata) (*Instance, error) {
	if len(durations) != len(machines) {
		return nil, NewValidationError(
			"duration matrix has %d jobs, machines matrix has %d", len(durations), len(machines))
	}

	jobs := make([][]*Operation, len(durations))
	for jobID := range durations {
		if len(durations[jobID]) != len(machines[jobID]) {
			return nil, NewValidationError(
				"job %d: %d durations but %d machine sets", jobID, len(durations[jobID]), len(machines[jobID]))
		}
		for pos := range durations[jobID] {
			jobs[jobID] = append(jobs[jobID],
				NewOperation(durations[jobID][pos], machines[jobID][pos]...))
		}
	}
	return New(name, jobs, meta)
}

// NumJobs returns the number of jobs.
func (i *Instance) NumJobs() int { return len(i.Jobs) }

// NumMachines returns the number of machines, computed as the maximum
// machine id present in the instance plus one.
func (i *Instance) NumMachines() int { return i.numMachines }

// NumOperations returns the total number of operations over all jobs.
func (i *Instance) NumOperations() int { return i.numOperations }

// MaxDuration returns the maximum operation duration. Timing heuristics
// and feature normalization use it as an upper bound.
func (i *Instance) MaxDuration() int { return i.maxDuration }

// Operation looks up an operation by its dense id.
func (i *Instance) Operation(operationID int) (*Operation, error) {
	if operationID < 0 || operationID >= len(i.operationsByID) {
		return nil, NewValidationError("operation id %d out of range [0, %d)", operationID, len(i.operationsByID))
	}
	return i.operationsByID[operationID], nil
}

// Operations returns all operations in id order. The returned slice is
// shared; callers must not modify it.
func (i *Instance) Operations() []*Operation { return i.operationsByID }

// OperationsByMachine returns the operations eligible on machineID.
func (i *Instance) OperationsByMachine(machineID int) []*Operation {
	return i.operationsByMachine[machineID]
}

// IsFlexible reports whether any operation has more than one eligible
// machine.
func (i *Instance) IsFlexible() bool {
	for _, op := range i.operationsByID {
		if len(op.Machines) > 1 {
			return true
		}
	}
	return false
}

// JobDurations returns the sum of operation durations per job.
func (i *Instance) JobDurations() []int {
	out := make([]int, len(i.Jobs))
	for jobID, job := range i.Jobs {
		for _, op := range job {
			out[jobID] += op.Duration
		}
	}
	return out
}

// MachineLoads returns, per machine, the total duration of the operations
// eligible on it.
func (i *Instance) MachineLoads() []int {
	out := make([]int, i.numMachines)
	for _, op := range i.operationsByID {
		for _, m := range op.Machines {
			out[m] += op.Duration
		}
	}
	return out
}

// MaxDurationPerMachine returns the longest eligible operation per machine.
func (i *Instance) MaxDurationPerMachine() []int {
	out := make([]int, i.numMachines)
	for _, op := range i.operationsByID {
		for _, m := range op.Machines {
			if op.Duration > out[m] {
				out[m] = op.Duration
			}
		}
	}
	return out
}

// DurationsMatrix returns D[job][pos] for serialization.
func (i *Instance) DurationsMatrix() [][]int {
	out := make([][]int, len(i.Jobs))
	for jobID, job := range i.Jobs {
		out[jobID] = make([]int, len(job))
		for pos, op := range job {
			out[jobID][pos] = op.Duration
		}
	}
	return out
}

// MachinesMatrix returns M[job][pos] (one list of eligible machines per
// operation) for serialization.
func (i *Instance) MachinesMatrix() [][][]int {
	out := make([][][]int, len(i.Jobs))
	for jobID, job := range i.Jobs {
		out[jobID] = make([][]int, len(job))
		for pos, op := range job {
			machines := make([]int, len(op.Machines))
			copy(machines, op.Machines)
			out[jobID][pos] = machines
		}
	}
	return out
}

func (i *Instance) String() string {
	return fmt.Sprintf("Instance(name=%s, jobs=%d, machines=%d)", i.Name, i.NumJobs(), i.numMachines)
}
