package trace

import "fmt"

// MultiSink fans every emitted record out to a list of sinks. Emit reports
// the first error encountered but still forwards the record to every sink,
// since a single sink's failure marks the trace incomplete without ending
// the run — the same tolerance the engine applies to any single sink.
type MultiSink struct {
	sinks []EventSink
}

// NewMultiSink returns a sink that forwards every record to each of sinks
// in order.
func NewMultiSink(sinks ...EventSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) Emit(record Record) error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Emit(record); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("multisink: %w", err)
		}
	}
	return firstErr
}

// Close closes every sink that implements io.Closer-like Close() error,
// returning the first error encountered.
func (m *MultiSink) Close() error {
	var firstErr error
	for _, s := range m.sinks {
		if c, ok := s.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
