package jobshop

import (
	"errors"
	"testing"
)

func mustScheduled(t *testing.T, op *Operation, machineID, start int) *ScheduledOperation {
	t.Helper()
	so, err := NewScheduledOperation(op, machineID, start)
	if err != nil {
		t.Fatalf("NewScheduledOperation(op=%d, m=%d, t=%d): %v", op.OperationID, machineID, start, err)
	}
	return so
}

func TestNewScheduledOperation_IneligibleMachine(t *testing.T) {
	inst := twoByTwo(t)
	op := inst.Jobs[0][0] // eligible only on machine 0

	_, err := NewScheduledOperation(op, 1, 0)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("NewScheduledOperation = %v, want ValidationError", err)
	}
}

func TestSchedule_MakespanEmptyIsZero(t *testing.T) {
	sched := NewSchedule(twoByTwo(t))
	if sched.Makespan() != 0 {
		t.Errorf("Makespan of empty schedule = %d, want 0", sched.Makespan())
	}
	if sched.IsComplete() {
		t.Error("IsComplete = true for empty schedule")
	}
}

func TestSchedule_AddRejectsMachineOverlap(t *testing.T) {
	inst := twoByTwo(t)
	sched := NewSchedule(inst)

	if err := sched.Add(mustScheduled(t, inst.Jobs[0][0], 0, 0)); err != nil {
		t.Fatalf("Add first: %v", err)
	}
	// Machine 0 is busy until t=3; job1-op1 cannot start at 2. Its job
	// predecessor is unscheduled here; Schedule only checks ordering, the
	// dispatcher enforces readiness.
	err := sched.Add(mustScheduled(t, inst.Jobs[1][1], 0, 2))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Add overlapping = %v, want ValidationError", err)
	}
}

func TestSchedule_AddRejectsJobOverlap(t *testing.T) {
	inst := twoByTwo(t)
	sched := NewSchedule(inst)

	if err := sched.Add(mustScheduled(t, inst.Jobs[0][0], 0, 0)); err != nil {
		t.Fatalf("Add first: %v", err)
	}
	// job0-op0 ends at 3; job0-op1 cannot start at 2 even though machine 1
	// is free.
	err := sched.Add(mustScheduled(t, inst.Jobs[0][1], 1, 2))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Add job-overlapping = %v, want ValidationError", err)
	}
}

func TestSchedule_CompleteAndMakespan(t *testing.T) {
	inst := twoByTwo(t)
	sched := NewSchedule(inst)

	commits := []*ScheduledOperation{
		mustScheduled(t, inst.Jobs[0][0], 0, 0),
		mustScheduled(t, inst.Jobs[1][0], 1, 0),
		mustScheduled(t, inst.Jobs[0][1], 1, 4),
		mustScheduled(t, inst.Jobs[1][1], 0, 4),
	}
	for _, so := range commits {
		if err := sched.Add(so); err != nil {
			t.Fatalf("Add %v: %v", so, err)
		}
	}

	if !sched.IsComplete() {
		t.Error("IsComplete = false after scheduling all operations")
	}

	// Brute-force makespan over every scheduled operation.
	want := 0
	for _, so := range sched.All() {
		if so.EndTime() > want {
			want = so.EndTime()
		}
	}
	if want != 6 {
		t.Fatalf("brute-force makespan = %d, want 6", want)
	}
	if sched.Makespan() != want {
		t.Errorf("Makespan = %d, want %d", sched.Makespan(), want)
	}

	// Per-machine sequences stay sorted and non-overlapping.
	for m := 0; m < inst.NumMachines(); m++ {
		seq := sched.MachineSequence(m)
		for i := 1; i < len(seq); i++ {
			if seq[i].StartTime < seq[i-1].EndTime() {
				t.Errorf("machine %d: %v overlaps %v", m, seq[i], seq[i-1])
			}
		}
	}
}
