// Package events provides an event system for probe progress notifications.
package events

import "time"

// EventType represents the type of event
type EventType string

const (
	// EventOperation is emitted after every store operation
	EventOperation EventType = "operation"
	// EventSnapshot is emitted when a driver prints periodic statistics
	EventSnapshot EventType = "snapshot"
	// EventPhase is emitted when a driver enters a new phase
	EventPhase EventType = "phase"
	// EventFinished is emitted once when a driver completes or is interrupted
	EventFinished EventType = "finished"
)

// Event represents a probe event
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Test      string    `json:"test"`
	Data      EventData `json:"data,omitempty"`
}

// EventData contains event-specific data
type EventData struct {
	Op         string  `json:"op,omitempty"`
	DocumentID string  `json:"document_id,omitempty"`
	OK         bool    `json:"ok,omitempty"`
	Latency    string  `json:"latency,omitempty"`
	Error      string  `json:"error,omitempty"`
	Phase      string  `json:"phase,omitempty"`
	Successes  uint64  `json:"successes,omitempty"`
	Failures   uint64  `json:"failures,omitempty"`
	Value      float64 `json:"value,omitempty"`
}

// NewOperationEvent creates an event for one store operation
func NewOperationEvent(test, op, docID string, latency time.Duration, err error) Event {
	data := EventData{
		Op:         op,
		DocumentID: docID,
		OK:         err == nil,
		Latency:    latency.String(),
	}
	if err != nil {
		data.Error = err.Error()
	}
	return Event{
		Type:      EventOperation,
		Timestamp: time.Now(),
		Test:      test,
		Data:      data,
	}
}

// NewSnapshotEvent creates a periodic statistics event
func NewSnapshotEvent(test string, successes, failures uint64, value float64) Event {
	return Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Test:      test,
		Data: EventData{
			Successes: successes,
			Failures:  failures,
			Value:     value,
		},
	}
}

// NewPhaseEvent creates a phase transition event
func NewPhaseEvent(test, phase string) Event {
	return Event{
		Type:      EventPhase,
		Timestamp: time.Now(),
		Test:      test,
		Data: EventData{
			Phase: phase,
		},
	}
}

// NewFinishedEvent creates the final event of a run
func NewFinishedEvent(test string, value float64) Event {
	return Event{
		Type:      EventFinished,
		Timestamp: time.Now(),
		Test:      test,
		Data: EventData{
			Value: value,
		},
	}
}
