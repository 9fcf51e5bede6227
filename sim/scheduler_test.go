package sim

import (
	"sort"
	"testing"

	"github.com/infersim/infersim/sim/trace"
)

func s1Generator() Generator {
	return &OneBatchGenerator{
		Delay: 0,
		NJobs: 10,
		Spec:  IncomingSpec{Length: ExpLength{Lambda: 1.5, Offset: 10, Factor: 18}, Budget: 200},
	}
}

func TestFIFOScheduler_S1_TwoBatchesInAdmissionOrder(t *testing.T) {
	eng, sink := newTestEngine([]*Worker{NewWorker(0, 5)}, &FIFOScheduler{}, "stripy zebra", []Generator{s1Generator()})
	eng.Run(UntilConfig{Kind: UntilNoEvents})

	finished := sink.JobsFinished()
	if len(finished) != 10 {
		t.Fatalf("got %d JobFinished records, want 10 (job conservation)", len(finished))
	}

	var starts []trace.BatchStart
	for _, r := range sink.Records {
		if b, ok := r.(trace.BatchStart); ok {
			starts = append(starts, b)
		}
	}
	if len(starts) != 2 {
		t.Fatalf("got %d batches, want 2 (10 jobs / batch_size 5)", len(starts))
	}
	if starts[0].StartAt != 0 {
		t.Errorf("first batch start = %v, want 0", starts[0].StartAt)
	}
	if starts[1].StartAt != starts[0].PredictedEnd {
		t.Errorf("second batch start %v != first batch predicted end %v", starts[1].StartAt, starts[0].PredictedEnd)
	}
	// job 5 (the 6th job, 0-indexed) starts exactly when job 0's batch finishes
	found := false
	for _, id := range starts[1].JobIDs {
		if id == 5 {
			found = true
		}
	}
	if !found {
		t.Errorf("second batch job ids = %v, want to include job 5", starts[1].JobIDs)
	}
}

func TestFIFOvsRandom_S2_SameFinishTimesAsMultiset(t *testing.T) {
	fifoEng, fifoSink := newTestEngine([]*Worker{NewWorker(0, 5)}, &FIFOScheduler{}, "stripy zebra", []Generator{s1Generator()})
	fifoEng.Run(UntilConfig{Kind: UntilNoEvents})

	randEng, randSink := newTestEngine([]*Worker{NewWorker(0, 5)}, &RandomScheduler{}, "stripy zebra", []Generator{s1Generator()})
	randEng.Run(UntilConfig{Kind: UntilNoEvents})

	fifoTimes := finishTimes(fifoSink)
	randTimes := finishTimes(randSink)

	sort.Float64s(fifoTimes)
	sort.Float64s(randTimes)

	if len(fifoTimes) != len(randTimes) {
		t.Fatalf("fifo finished %d jobs, random finished %d", len(fifoTimes), len(randTimes))
	}
	for i := range fifoTimes {
		if fifoTimes[i] != randTimes[i] {
			t.Errorf("finish time multiset diverged at index %d: fifo=%v random=%v", i, fifoTimes[i], randTimes[i])
		}
	}
}

func finishTimes(sink *trace.MemorySink) []float64 {
	var out []float64
	for _, f := range sink.JobsFinished() {
		out = append(out, f.FinishedAt)
	}
	return out
}

func TestScheduler_IdempotentAgainstSpuriousWorkerIdle(t *testing.T) {
	eng, _ := newTestEngine([]*Worker{NewWorker(0, 4)}, &FIFOScheduler{}, "stripy zebra", nil)
	// No jobs ever arrive; a spurious OnWorkerIdle must do nothing and must
	// not panic.
	eng.Scheduler.OnWorkerIdle(eng, 0)
}

func TestWorkerSafety_BatchNeverExceedsBatchSize(t *testing.T) {
	// Worker safety invariant: every dispatched batch size <= batch_size.
	eng, sink := newTestEngine([]*Worker{NewWorker(0, 3)}, &FIFOScheduler{}, "stripy zebra",
		[]Generator{&OneBatchGenerator{NJobs: 11, Spec: IncomingSpec{Length: ConstantLength{Value: 1}, Budget: 50}}})
	eng.Run(UntilConfig{Kind: UntilNoEvents})

	for _, r := range sink.Records {
		if b, ok := r.(trace.BatchStart); ok {
			if len(b.JobIDs) > 3 {
				t.Errorf("batch on worker %d had %d jobs, want <= 3", b.WorkerID, len(b.JobIDs))
			}
		}
	}
}

func TestWorkerStarvation_S6_NoWorkersConfigured(t *testing.T) {
	eng, sink := newTestEngine(nil, &FIFOScheduler{}, "stripy zebra",
		[]Generator{&OneBatchGenerator{NJobs: 4, Spec: IncomingSpec{Length: ConstantLength{Value: 1}, Budget: 10}}})

	eng.Run(UntilConfig{Kind: UntilNoEvents})

	if len(sink.JobsFinished()) != 0 {
		t.Errorf("finished %d jobs with zero workers, want 0", len(sink.JobsFinished()))
	}
	if eng.PendingAdmitted() != 4 {
		t.Errorf("PendingAdmitted() = %d, want 4 (all admitted jobs remain pending forever)", eng.PendingAdmitted())
	}
}
