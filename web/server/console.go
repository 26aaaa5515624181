package server

import (
	"fmt"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// ConsoleMessage is one line of render progress shown in the browser console
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger, copying progress lines to stdout and to
// the SSE console stream of one render
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a logger for a single render
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

// Printf never blocks: messages are dropped when the console stream is full
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	fmt.Printf("[%s] %s", wl.renderID, message)

	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		RenderID:  wl.renderID,
		Message:   message,
		Timestamp: time.Now(),
		Level:     "info",
	}:
	default:
	}
}
