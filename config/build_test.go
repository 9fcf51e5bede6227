package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/infersim/infersim/sim/trace"
)

func TestBuildSink_CSVOnly(t *testing.T) {
	dir := t.TempDir()
	sink, err := BuildSink(dir, []string{"csv"})
	if err != nil {
		t.Fatalf("BuildSink: %v", err)
	}
	if _, ok := sink.(*trace.CSVSink); !ok {
		t.Fatalf("BuildSink([csv]) = %T, want *trace.CSVSink", sink)
	}
}

func TestBuildSink_ChromeOnly(t *testing.T) {
	dir := t.TempDir()
	sink, err := BuildSink(dir, []string{"chrome"})
	if err != nil {
		t.Fatalf("BuildSink: %v", err)
	}
	if _, ok := sink.(*trace.ChromeTraceSink); !ok {
		t.Fatalf("BuildSink([chrome]) = %T, want *trace.ChromeTraceSink", sink)
	}
	if err := sink.Emit(trace.JobAdmitted{ID: 1}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	closer := sink.(interface{ Close() error })
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "trace.json")); err != nil {
		t.Errorf("expected trace.json to be written: %v", err)
	}
}

func TestBuildSink_MultipleFormatsFanOut(t *testing.T) {
	dir := t.TempDir()
	sink, err := BuildSink(dir, []string{"csv", "chrome"})
	if err != nil {
		t.Fatalf("BuildSink: %v", err)
	}
	if _, ok := sink.(*trace.MultiSink); !ok {
		t.Fatalf("BuildSink([csv,chrome]) = %T, want *trace.MultiSink", sink)
	}
	if err := sink.Emit(trace.JobAdmitted{ID: 1}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	closer := sink.(interface{ Close() error })
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "jobs_admitted.csv")); err != nil {
		t.Errorf("expected jobs_admitted.csv to be written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "trace.json")); err != nil {
		t.Errorf("expected trace.json to be written: %v", err)
	}
}
