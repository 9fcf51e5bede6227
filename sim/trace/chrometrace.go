package trace

import (
	"encoding/json"
	"fmt"
	"os"
)

// chromeEvent is one entry in the Chrome Trace Event Format
// (https://chromium.googlesource.com/catapult, viewable at
// chrome://tracing). It is an alternative sink to CSVSink, interchangeable
// with it per the design notes.
type chromeEvent struct {
	Name string  `json:"name"`
	Cat  string  `json:"cat"`
	Ph   string  `json:"ph"` // "X" = complete duration event, "i" = instant
	Ts   float64 `json:"ts"` // microseconds
	Dur  float64 `json:"dur,omitempty"`
	Pid  int     `json:"pid"`
	Tid  int     `json:"tid"`
	Args any     `json:"args,omitempty"`
}

// ChromeTraceSink accumulates chrome trace events in memory and writes them
// out as a single JSON array on Close. Since the sim has no inherent time
// unit, one sim-time unit is rendered as one second (1e6 of the format's
// microseconds).
type ChromeTraceSink struct {
	path   string
	events []chromeEvent
}

// NewChromeTraceSink returns a sink that will write its accumulated events
// to path on Close.
func NewChromeTraceSink(path string) *ChromeTraceSink {
	return &ChromeTraceSink{path: path}
}

func (s *ChromeTraceSink) Emit(record Record) error {
	switch r := record.(type) {
	case JobAdmitted:
		s.events = append(s.events, chromeEvent{
			Name: fmt.Sprintf("job %d admitted", r.ID),
			Cat:  "admission",
			Ph:   "i",
			Ts:   r.AdmittedAt * 1e6,
			Pid:  0,
			Tid:  0,
			Args: map[string]any{"deadline": r.Deadline, "p99": r.P99},
		})
	case BatchStart:
		s.events = append(s.events, chromeEvent{
			Name: fmt.Sprintf("batch (%d jobs)", len(r.JobIDs)),
			Cat:  "batch",
			Ph:   "X",
			Ts:   r.StartAt * 1e6,
			Dur:  (r.PredictedEnd - r.StartAt) * 1e6,
			Pid:  0,
			Tid:  r.WorkerID,
			Args: map[string]any{"job_ids": r.JobIDs},
		})
	case JobFinished:
		s.events = append(s.events, chromeEvent{
			Name: fmt.Sprintf("job %d finished", r.ID),
			Cat:  "completion",
			Ph:   "i",
			Ts:   r.FinishedAt * 1e6,
			Pid:  0,
			Tid:  0,
			Args: map[string]any{"late": r.Late},
		})
	case JobDropped:
		s.events = append(s.events, chromeEvent{
			Name: fmt.Sprintf("job %d dropped", r.ID),
			Cat:  "drop",
			Ph:   "i",
			Ts:   r.At * 1e6,
			Pid:  0,
			Tid:  0,
			Args: map[string]any{"reason": r.Reason},
		})
	default:
		return fmt.Errorf("chrome trace sink: unknown record type %T", record)
	}
	return nil
}

// Close writes the accumulated events to disk as a Chrome Trace Event
// Format JSON array.
func (s *ChromeTraceSink) Close() error {
	data, err := json.Marshal(s.events)
	if err != nil {
		return fmt.Errorf("marshaling chrome trace: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing chrome trace: %w", err)
	}
	return nil
}
