// Defines Job, the unit of work flowing through the simulator, and
// IncomingSpec, the per-generator template used to materialize jobs on
// arrival.
package sim

import (
	"fmt"
	"math/rand"
)

// JobState is the lifecycle tag the kernel attaches to a Job. It is not part
// of the Job's own immutable identity.
type JobState string

const (
	JobPending JobState = "pending"
	JobRunning JobState = "running"
	JobDone    JobState = "done"
	JobDropped JobState = "dropped"
)

// Job is immutable after creation except for the lifecycle fields, which are
// written exactly once each by the kernel (never by a scheduler policy
// directly).
//
// Invariants: LengthSample >= 0; P99 >= 0; Deadline >= AdmittedAt; once
// State == JobRunning, StartedAt is set and never revised; once State ==
// JobDone, FinishedAt >= StartedAt + LengthSample.
type Job struct {
	ID           uint64
	AdmittedAt   float64
	Deadline     float64
	Budget       float64
	LengthSample float64
	P99          float64

	StartedAt  float64
	FinishedAt float64
	State      JobState
}

func (j *Job) String() string {
	return fmt.Sprintf("Job(%d, @%.2f<%.2f<%.2f)", j.ID, j.AdmittedAt, j.LengthSample, j.Deadline)
}

// FeasibleEnd returns the latest start time that still meets the deadline
// with the job's analytic P99 completion probability: Deadline - P99.
func (j *Job) FeasibleEnd() float64 {
	return j.Deadline - j.P99
}

// IncomingSpec is attached to each generator: the length distribution of the
// cohort it produces, and the soft budget used to compute each job's
// deadline.
type IncomingSpec struct {
	Length LengthSpec
	Budget float64
}

// jobFactory materializes fresh Jobs with monotonically increasing IDs,
// shared across every generator in a run so IDs never collide.
type jobFactory struct {
	nextID uint64
}

func (f *jobFactory) newJob(now float64, spec IncomingSpec, rng *rand.Rand) *Job {
	id := f.nextID
	f.nextID++
	length := spec.Length.Sample(rng)
	return &Job{
		ID:           id,
		AdmittedAt:   now,
		Budget:       spec.Budget,
		Deadline:     now + spec.Budget,
		LengthSample: length,
		P99:          spec.Length.P99(),
		State:        JobPending,
	}
}
