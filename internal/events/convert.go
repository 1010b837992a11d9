// internal/events/convert.go
package events

// Event types published while a batch converts.
const (
	EventConversionStarted  = "conversion.started"
	EventJobCompleted       = "job.completed"
	EventConversionFinished = "conversion.finished"
)

// EntityBatch identifies events that belong to one conversion batch.
const EntityBatch = "batch"

// ConversionStarted is emitted before the first job of a batch runs.
type ConversionStarted struct {
	BaseEvent
	Jobs int `json:"jobs"`
}

// JobCompleted is emitted when a job reaches a terminal state.
type JobCompleted struct {
	BaseEvent
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ConversionFinished is emitted after every job of a batch has completed.
type ConversionFinished struct {
	BaseEvent
	OK         int   `json:"ok"`
	Skipped    int   `json:"skipped"`
	Failed     int   `json:"failed"`
	DurationMs int64 `json:"duration_ms"`
}
