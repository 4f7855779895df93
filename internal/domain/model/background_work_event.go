package model

import "time"

// BackgroundWorkEventType identifies which background work action produced an event
type BackgroundWorkEventType string

const (
	BackgroundWorkStart BackgroundWorkEventType = "start"
	BackgroundWorkStop  BackgroundWorkEventType = "stop"
)

// BackgroundWorkEvent is published for every line the background work writes
type BackgroundWorkEvent struct {
	Type    BackgroundWorkEventType `json:"type"`
	Time    time.Time               `json:"time"`
	RunID   string                  `json:"runId"`
	Message string                  `json:"message"`
}
