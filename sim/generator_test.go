package sim

import (
	"testing"

	"github.com/infersim/infersim/sim/trace"
)

func TestOneBatchGenerator_ZeroJobsIsNoOp(t *testing.T) {
	gen := &OneBatchGenerator{Delay: 0, NJobs: 0, Spec: IncomingSpec{Length: ConstantLength{Value: 1}, Budget: 10}}
	eng, sink := newTestEngine([]*Worker{NewWorker(0, 4)}, &FIFOScheduler{}, "stripy zebra", []Generator{gen})

	eng.Run(UntilConfig{Kind: UntilNoEvents})

	if len(sink.Records) != 0 {
		t.Errorf("zero-job OneBatch produced %d trace records, want 0", len(sink.Records))
	}
}

func TestOneBatchGenerator_EmitsAllJobsAtSameTimestamp(t *testing.T) {
	gen := &OneBatchGenerator{Delay: 3, NJobs: 5, Spec: IncomingSpec{Length: ConstantLength{Value: 1}, Budget: 10}}
	eng, sink := newTestEngine([]*Worker{NewWorker(0, 100)}, &FIFOScheduler{}, "stripy zebra", []Generator{gen})

	eng.Run(UntilConfig{Kind: UntilNoEvents})

	admitted := 0
	for _, r := range sink.Records {
		if a, ok := r.(trace.JobAdmitted); ok {
			admitted++
			if a.AdmittedAt != 3 {
				t.Errorf("job %d admitted_at = %v, want 3", a.ID, a.AdmittedAt)
			}
		}
	}
	if admitted != 5 {
		t.Errorf("admitted %d jobs, want 5", admitted)
	}
}

func TestRateGenerator_BurstyEmitsAtEveryPeriodBoundary(t *testing.T) {
	// S3: Rate{unit=250, per=5, bursty=true}, until=Time{max=20}: arrivals
	// at t=0,5,10,15 only (the t=20 burst must not fire), 250 admitted per
	// burst, 1000 total.
	gen := &RateGenerator{Unit: 250, Per: 5, Bursty: true, Spec: IncomingSpec{Length: ConstantLength{Value: 1}, Budget: 100}}
	eng, sink := newTestEngine(nil, &FIFOScheduler{}, "stripy zebra", []Generator{gen})

	eng.Run(UntilConfig{Kind: UntilTime, Max: 20})

	timestamps := map[float64]int{}
	for _, r := range sink.Records {
		if a, ok := r.(trace.JobAdmitted); ok {
			timestamps[a.AdmittedAt]++
		}
	}

	wantTimes := []float64{0, 5, 10, 15}
	total := 0
	for _, ts := range wantTimes {
		if timestamps[ts] != 250 {
			t.Errorf("burst at t=%v admitted %d jobs, want 250", ts, timestamps[ts])
		}
		total += timestamps[ts]
	}
	if timestamps[20] != 0 {
		t.Errorf("burst at t=20 admitted %d jobs, want 0 (Until{Time,max=20} must exclude it)", timestamps[20])
	}
	if total != 1000 {
		t.Errorf("total admitted = %d, want 1000", total)
	}
}

func TestRateGenerator_NonBurstySpacesArrivalsUniformly(t *testing.T) {
	gen := &RateGenerator{Unit: 2, Per: 10, Bursty: false, Spec: IncomingSpec{Length: ConstantLength{Value: 1}, Budget: 100}}
	eng, sink := newTestEngine(nil, &FIFOScheduler{}, "stripy zebra", []Generator{gen})

	eng.Run(UntilConfig{Kind: UntilTime, Max: 11})

	var times []float64
	for _, r := range sink.Records {
		if a, ok := r.(trace.JobAdmitted); ok {
			times = append(times, a.AdmittedAt)
		}
	}
	want := []float64{0, 5, 10}
	if len(times) != len(want) {
		t.Fatalf("admitted at %v, want %v", times, want)
	}
	for i := range want {
		if times[i] != want[i] {
			t.Errorf("times[%d] = %v, want %v", i, times[i], want[i])
		}
	}
}
