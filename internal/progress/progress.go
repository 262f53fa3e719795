package progress

import (
	"encoding/json"
	"sync"
	"time"
)

// Stage represents the current stage of a conversion
type Stage string

const (
	StageInitializing Stage = "initializing"
	StageImporting    Stage = "importing"
	StageParsing      Stage = "parsing"
	StageRendering    Stage = "rendering"
	StageSaving       Stage = "saving"
	StageComplete     Stage = "complete"
	StageError        Stage = "error"
)

// Event represents a progress event
type Event struct {
	Stage       Stage        `json:"stage"`
	Progress    float64      `json:"progress"`
	Message     string       `json:"message"`
	Timestamp   time.Time    `json:"timestamp"`
	LineDetails *LineDetails `json:"lineDetails,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// LineDetails reports how far the parser got through the listing
type LineDetails struct {
	ProcessedLines int `json:"processedLines"`
	TotalLines     int `json:"totalLines"`
	TracksFound    int `json:"tracksFound"`
}

// ProgressTracker manages progress tracking
type ProgressTracker struct {
	mu          sync.RWMutex
	stage       Stage
	progress    float64
	message     string
	lineDetails *LineDetails
	err         error
	nextID      int
	listeners   map[int]func(Event)
}

// NewProgressTracker creates a new ProgressTracker instance
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		stage:     StageInitializing,
		listeners: make(map[int]func(Event)),
	}
}

// AddListener registers a progress event listener and returns a function
// that removes it again.
func (pt *ProgressTracker) AddListener(listener func(Event)) (remove func()) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	id := pt.nextID
	pt.nextID++
	pt.listeners[id] = listener

	return func() {
		pt.mu.Lock()
		defer pt.mu.Unlock()
		delete(pt.listeners, id)
	}
}

// UpdateProgress updates the progress and notifies all listeners
func (pt *ProgressTracker) UpdateProgress(stage Stage, progress float64, message string) {
	pt.mu.Lock()
	pt.stage = stage
	pt.progress = progress
	pt.message = message
	pt.mu.Unlock()

	pt.notifyListeners(Event{
		Stage:     stage,
		Progress:  progress,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// UpdateLineProgress updates parser progress within the current stage
func (pt *ProgressTracker) UpdateLineProgress(processedLines, totalLines, tracksFound int) {
	details := &LineDetails{
		ProcessedLines: processedLines,
		TotalLines:     totalLines,
		TracksFound:    tracksFound,
	}

	pt.mu.Lock()
	pt.lineDetails = details
	event := Event{
		Stage:       pt.stage,
		Progress:    pt.progress,
		Message:     pt.message,
		Timestamp:   time.Now(),
		LineDetails: details,
	}
	pt.mu.Unlock()

	pt.notifyListeners(event)
}

// SetError sets an error state and notifies all listeners
func (pt *ProgressTracker) SetError(err error) {
	pt.mu.Lock()
	pt.stage = StageError
	pt.err = err
	progress := pt.progress
	pt.mu.Unlock()

	pt.notifyListeners(Event{
		Stage:     StageError,
		Progress:  progress,
		Message:   err.Error(),
		Timestamp: time.Now(),
		Error:     err.Error(),
	})
}

// notifyListeners sends an event to all registered listeners. Listeners run
// without the lock held so they may query the tracker.
func (pt *ProgressTracker) notifyListeners(event Event) {
	pt.mu.RLock()
	listeners := make([]func(Event), 0, len(pt.listeners))
	for _, listener := range pt.listeners {
		listeners = append(listeners, listener)
	}
	pt.mu.RUnlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// GetCurrentState returns the current progress state
func (pt *ProgressTracker) GetCurrentState() Event {
	pt.mu.RLock()
	defer pt.mu.RUnlock()

	state := Event{
		Stage:       pt.stage,
		Progress:    pt.progress,
		Message:     pt.message,
		Timestamp:   time.Now(),
		LineDetails: pt.lineDetails,
	}
	if pt.err != nil {
		state.Error = pt.err.Error()
	}
	return state
}

// MarshalJSON implements json.Marshaler for Event
func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	return json.Marshal(&struct {
		Timestamp string `json:"timestamp"`
		*Alias
	}{
		Timestamp: e.Timestamp.Format(time.RFC3339),
		Alias:     (*Alias)(&e),
	})
}

// UnmarshalJSON implements json.Unmarshaler for Event
func (e *Event) UnmarshalJSON(data []byte) error {
	type Alias Event
	aux := &struct {
		Timestamp string `json:"timestamp"`
		*Alias
	}{
		Alias: (*Alias)(e),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t, err := time.Parse(time.RFC3339, aux.Timestamp)
	if err != nil {
		return err
	}
	e.Timestamp = t
	return nil
}
