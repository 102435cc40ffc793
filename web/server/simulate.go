package server

import (
	"net/http"

	"github.com/df07/go-twostream-rt/pkg/atmosphere"
	"github.com/df07/go-twostream-rt/pkg/ensemble"
)

// maxWebPhotons bounds a single web-triggered run
const maxWebPhotons = 1_000_000

// SimulateRequest represents a simulate request from the client
type SimulateRequest struct {
	Atmosphere atmosphere.Atmosphere
	Config     ensemble.Config
}

// parseSimulateRequest parses and validates request parameters
func (s *Server) parseSimulateRequest(r *http.Request) (*SimulateRequest, error) {
	atm, err := s.parseAtmosphereParams(r.URL.Query())
	if err != nil {
		return nil, err
	}
	cfg, err := s.parseConfigParams(r.URL.Query())
	if err != nil {
		return nil, err
	}
	return &SimulateRequest{Atmosphere: atm, Config: cfg}, nil
}

// handleSimulate runs a complete ensemble and returns the result as JSON
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseSimulateRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	sim, err := ensemble.NewSimulator(req.Atmosphere, req.Config, s.logger)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := sim.Run(r.Context())
	if err != nil {
		// Nothing to answer once the client has gone away
		if r.Context().Err() != nil {
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}
