package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// ConsoleMessage represents a log line streamed to the client console
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
}

// consoleHook mirrors log events onto the SSE stream of a running
// simulation. Sends never block; messages are dropped when the client
// cannot keep up.
type consoleHook struct {
	ctx    context.Context
	events chan<- sseEvent
}

// Run implements zerolog.Hook
func (h consoleHook) Run(e *zerolog.Event, level zerolog.Level, message string) {
	if message == "" {
		return
	}

	data, err := json.Marshal(ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     level.String(),
	})
	if err != nil {
		return
	}

	select {
	case h.events <- sseEvent{Type: "console", Data: string(data)}:
	case <-h.ctx.Done():
	default:
		// Channel full, skip (don't block)
	}
}
