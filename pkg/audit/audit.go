// Package audit appends one JSON line per executed GAM command.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/limehawk/gam-multi/pkg/gam"
	"github.com/limehawk/gam-multi/pkg/logger"
)

// Buffer writes so command execution never blocks on slow filesystems.
const queueSize = 256

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Record is one line of the audit trail.
type Record struct {
	EventID    string    `json:"event_id"`
	Timestamp  time.Time `json:"timestamp"`
	Operation  string    `json:"operation,omitempty"`
	Command    string    `json:"command"`
	ExitCode   int       `json:"exit_code"`
	Status     string    `json:"status"`
	Kind       string    `json:"kind"`
	DurationMs int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
}

// FromRun converts an executor run into an audit record.
func FromRun(rec gam.RunRecord) Record {
	status := StatusFailure
	if rec.Kind == gam.OutcomeOK {
		status = StatusSuccess
	}
	return Record{
		EventID:    rec.EventID,
		Timestamp:  rec.Timestamp,
		Operation:  rec.Operation,
		Command:    rec.Command,
		ExitCode:   rec.ExitCode,
		Status:     status,
		Kind:       string(rec.Kind),
		DurationMs: rec.DurationMs,
		Error:      rec.Error,
	}
}

// JSONLSink appends records as JSONL from a single background writer.
type JSONLSink struct {
	path  string
	queue chan []byte
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewJSONLSink(path string) (*JSONLSink, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}
	sink := &JSONLSink{
		path:  path,
		queue: make(chan []byte, queueSize),
		done:  make(chan struct{}),
	}
	go sink.writeLoop()
	return sink, nil
}

func (s *JSONLSink) Path() string {
	return s.path
}

// Record implements gam.Recorder.
func (s *JSONLSink) Record(rec gam.RunRecord) {
	if err := s.Write(FromRun(rec)); err != nil {
		logger.WarnCF("audit", "Failed to encode audit record", map[string]interface{}{
			"event_id": rec.EventID,
			"error":    err.Error(),
		})
	}
}

func (s *JSONLSink) Write(rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	line := append(b, '\n')

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return fmt.Errorf("audit sink closed")
	}

	select {
	case s.queue <- line:
		return nil
	default:
	}

	// Queue full: drop the oldest pending line.
	select {
	case <-s.queue:
	default:
	}
	select {
	case s.queue <- line:
	default:
	}
	return nil
}

// Close flushes queued lines and stops the writer.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	<-s.done
	return nil
}

func (s *JSONLSink) writeLoop() {
	defer close(s.done)
	for line := range s.queue {
		if err := s.appendLine(line); err != nil {
			logger.WarnCF("audit", "Failed to append audit record", map[string]interface{}{
				"path":  s.path,
				"error": err.Error(),
			})
		}
	}
}

func (s *JSONLSink) appendLine(line []byte) error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(line)
	return err
}
