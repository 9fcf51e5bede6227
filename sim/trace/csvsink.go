package trace

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// CSVSink writes one CSV file per record kind under a directory, writing
// the header row immediately on open and one row per subsequent Emit.
type CSVSink struct {
	dir     string
	writers map[string]*csv.Writer
	files   map[string]*os.File
}

var csvColumns = map[string][]string{
	"jobs_admitted.csv": {"id", "admitted_at", "deadline", "length_sample", "p99"},
	"batch_starts.csv":  {"worker_id", "job_ids", "start_at", "predicted_end"},
	"jobs_finished.csv": {"id", "started_at", "finished_at", "late"},
	"jobs_dropped.csv":  {"id", "at", "reason"},
}

// NewCSVSink creates dir if needed and opens one CSV file per record kind,
// writing each header row immediately.
func NewCSVSink(dir string) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	s := &CSVSink{
		dir:     dir,
		writers: make(map[string]*csv.Writer),
		files:   make(map[string]*os.File),
	}
	for name, cols := range csvColumns {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("creating %s: %w", name, err)
		}
		w := csv.NewWriter(f)
		if err := w.Write(cols); err != nil {
			s.Close()
			return nil, fmt.Errorf("writing header for %s: %w", name, err)
		}
		s.files[name] = f
		s.writers[name] = w
	}
	return s, nil
}

func (s *CSVSink) Emit(record Record) error {
	switch r := record.(type) {
	case JobAdmitted:
		return s.write("jobs_admitted.csv", []string{
			strconv.FormatUint(r.ID, 10),
			strconv.FormatFloat(r.AdmittedAt, 'f', -1, 64),
			strconv.FormatFloat(r.Deadline, 'f', -1, 64),
			strconv.FormatFloat(r.LengthSample, 'f', -1, 64),
			strconv.FormatFloat(r.P99, 'f', -1, 64),
		})
	case BatchStart:
		return s.write("batch_starts.csv", []string{
			strconv.Itoa(r.WorkerID),
			formatJobIDs(r.JobIDs),
			strconv.FormatFloat(r.StartAt, 'f', -1, 64),
			strconv.FormatFloat(r.PredictedEnd, 'f', -1, 64),
		})
	case JobFinished:
		return s.write("jobs_finished.csv", []string{
			strconv.FormatUint(r.ID, 10),
			strconv.FormatFloat(r.StartedAt, 'f', -1, 64),
			strconv.FormatFloat(r.FinishedAt, 'f', -1, 64),
			strconv.FormatBool(r.Late),
		})
	case JobDropped:
		return s.write("jobs_dropped.csv", []string{
			strconv.FormatUint(r.ID, 10),
			strconv.FormatFloat(r.At, 'f', -1, 64),
			r.Reason,
		})
	default:
		return fmt.Errorf("csv sink: unknown record type %T", record)
	}
}

func (s *CSVSink) write(file string, row []string) error {
	w := s.writers[file]
	if err := w.Write(row); err != nil {
		return fmt.Errorf("writing row to %s: %w", file, err)
	}
	w.Flush()
	return w.Error()
}

func formatJobIDs(ids []uint64) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ";"
		}
		out += strconv.FormatUint(id, 10)
	}
	return out
}

// Close flushes and closes every open file. Errors from individual files are
// ignored beyond the first, since Close is best-effort cleanup at the end of
// a run.
func (s *CSVSink) Close() error {
	var firstErr error
	for name, w := range s.writers {
		w.Flush()
		if err := w.Error(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := s.files[name].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
