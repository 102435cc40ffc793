package server

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleHook_ForwardsMessages(t *testing.T) {
	events := make(chan sseEvent, 10)
	logger := zerolog.New(io.Discard).Hook(consoleHook{ctx: context.Background(), events: events})

	logger.Info().Int("photons", 5000).Msg("starting run")

	select {
	case ev := <-events:
		assert.Equal(t, "console", ev.Type)

		var msg ConsoleMessage
		require.NoError(t, json.Unmarshal([]byte(ev.Data), &msg))
		assert.Equal(t, "starting run", msg.Message)
		assert.Equal(t, "info", msg.Level)
		assert.Less(t, time.Since(msg.Timestamp), time.Second)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for console event")
	}
}

func TestConsoleHook_DropsWhenFull(t *testing.T) {
	events := make(chan sseEvent, 1)
	logger := zerolog.New(io.Discard).Hook(consoleHook{ctx: context.Background(), events: events})

	// Only the first message fits; the rest must be dropped, not block
	logger.Info().Msg("first")
	logger.Info().Msg("second")
	logger.Info().Msg("third")

	require.Len(t, events, 1)

	var msg ConsoleMessage
	ev := <-events
	require.NoError(t, json.Unmarshal([]byte(ev.Data), &msg))
	assert.Equal(t, "first", msg.Message)
}

func TestConsoleHook_SkipsEmptyMessages(t *testing.T) {
	events := make(chan sseEvent, 10)
	logger := zerolog.New(io.Discard).Hook(consoleHook{ctx: context.Background(), events: events})

	logger.Info().Send()

	assert.Empty(t, events)
}

func TestConsoleHook_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := make(chan sseEvent) // Unbuffered, nothing receiving
	logger := zerolog.New(io.Discard).Hook(consoleHook{ctx: ctx, events: events})

	// Must not block even though no receiver exists
	logger.Info().Msg("after disconnect")
}
