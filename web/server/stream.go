package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/df07/go-twostream-rt/pkg/atmosphere"
	"github.com/df07/go-twostream-rt/pkg/ensemble"
)

// sseEvent is a unified SSE event for single-writer streaming
type sseEvent struct {
	Type string // "console", "pass", "error", "complete"
	Data string
}

// StreamRequest represents a progressive simulation request
type StreamRequest struct {
	Atmosphere  atmosphere.Atmosphere
	Config      ensemble.Config
	Progressive ensemble.ProgressiveConfig
}

// passUpdate is the payload of a pass SSE event
type passUpdate struct {
	PassNumber  int              `json:"passNumber"`
	TotalPasses int              `json:"totalPasses"`
	Photons     int              `json:"photons"`
	IsLast      bool             `json:"isLast"`
	Result      *ensemble.Result `json:"result"`
}

// parseStreamRequest parses progressive parameters on top of the simulate
// parameters. The photons parameter sets the final pass total.
func (s *Server) parseStreamRequest(r *http.Request) (*StreamRequest, error) {
	atm, err := s.parseAtmosphereParams(r.URL.Query())
	if err != nil {
		return nil, err
	}
	cfg, err := s.parseConfigParams(r.URL.Query())
	if err != nil {
		return nil, err
	}

	pcfg := ensemble.DefaultProgressiveConfig()
	pcfg.MaxPhotons = cfg.NumPhotons
	if pcfg.InitialPhotons, err = parseIntParam(r.URL.Query(), "initialPhotons", pcfg.InitialPhotons, 1, maxWebPhotons); err != nil {
		return nil, err
	}
	if pcfg.MaxPasses, err = parseIntParam(r.URL.Query(), "maxPasses", pcfg.MaxPasses, 1, 100); err != nil {
		return nil, err
	}
	if pcfg.InitialPhotons > pcfg.MaxPhotons {
		pcfg.InitialPhotons = pcfg.MaxPhotons
	}

	return &StreamRequest{Atmosphere: atm, Config: cfg, Progressive: pcfg}, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// handleSimulateStream runs a progressive simulation and streams each
// cumulative pass result to the client via SSE
func (s *Server) handleSimulateStream(w http.ResponseWriter, r *http.Request) {
	setSSEHeaders(w)

	ctx := r.Context()

	// A single writer goroutine owns the response; everything else
	// queues events on the channel
	events := make(chan sseEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writeSSEEvents(ctx, w, events)
	}()

	// By the time the handler returns every sender has stopped, so the
	// queue can be closed and flushed
	defer func() {
		close(events)
		<-writerDone
	}()

	req, err := s.parseStreamRequest(r)
	if err != nil {
		sendEvent(ctx, events, sseEvent{Type: "error", Data: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	// Mirror run logging onto the client console
	runLogger := s.logger.Hook(consoleHook{ctx: ctx, events: events})

	sim, err := ensemble.NewProgressiveSimulator(req.Atmosphere, req.Config, req.Progressive, runLogger)
	if err != nil {
		sendEvent(ctx, events, sseEvent{Type: "error", Data: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	passChan, errChan := sim.RunProgressive(ctx)

	for pass := range passChan {
		update := passUpdate{
			PassNumber:  pass.PassNumber,
			TotalPasses: req.Progressive.MaxPasses,
			Photons:     pass.Photons,
			IsLast:      pass.IsLast,
			Result:      pass.Result,
		}
		data, err := json.Marshal(update)
		if err != nil {
			s.logger.Error().Err(err).Msg("marshal pass update")
			continue
		}
		sendEvent(ctx, events, sseEvent{Type: "pass", Data: string(data)})
	}

	if err := <-errChan; err != nil {
		// Once the client is gone there is nobody left to tell
		if ctx.Err() != nil {
			return
		}
		sendEvent(ctx, events, sseEvent{Type: "error", Data: fmt.Sprintf("simulation failed: %v", err)})
		return
	}

	sendEvent(ctx, events, sseEvent{Type: "complete", Data: "simulation complete"})
}

// sendEvent queues an SSE event unless the client has disconnected
func sendEvent(ctx context.Context, events chan<- sseEvent, ev sseEvent) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

// writeSSEEvents writes queued events to the response in a single
// goroutine so no two events interleave on the wire
func writeSSEEvents(ctx context.Context, w http.ResponseWriter, events <-chan sseEvent) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				// Queue closed, stream finished
				return
			}

			// Check if the client is still connected before writing
			select {
			case <-ctx.Done():
				return
			default:
			}

			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, ev.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			return
		}
	}
}
