package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/df07/go-twostream-rt/pkg/atmosphere"
	"github.com/df07/go-twostream-rt/pkg/ensemble"
	"github.com/df07/go-twostream-rt/pkg/integrator"
	"github.com/df07/go-twostream-rt/pkg/phase"
)

// Config holds the web server settings
type Config struct {
	Port            int
	StaticDir       string        // Directory served at /, empty disables static files
	RateLimit       int           // Requests per window per client IP, 0 disables limiting
	RateLimitWindow time.Duration // Window for the rate limit
}

// Server handles web requests for the photon simulator
type Server struct {
	cfg    Config
	logger zerolog.Logger
}

// NewServer creates a new web server
func NewServer(cfg Config, logger zerolog.Logger) *Server {
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Minute
	}
	return &Server{cfg: cfg, logger: logger}
}

// Router builds the HTTP handler with the full middleware stack
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(recoverer(s.logger))
	if s.cfg.RateLimit > 0 {
		r.Use(httprate.Limit(
			s.cfg.RateLimit,
			s.cfg.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByRealIP),
		))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/presets", s.handlePresets)
		r.Get("/atmosphere", s.handleAtmosphere)
		r.Get("/simulate", s.handleSimulate)
		r.Get("/simulate/stream", s.handleSimulateStream)
	})

	if s.cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}

	return r
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "twostream-web",
	})
}

// presetInfo describes one named atmosphere for the client
type presetInfo struct {
	Name          string  `json:"name"`
	TauMax        float64 `json:"tauMax"`
	Omega0        float64 `json:"omega0"`
	G             float64 `json:"g"`
	SurfaceAlbedo float64 `json:"surfaceAlbedo"`
}

// handlePresets lists the built-in atmospheres
func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	names := atmosphere.PresetNames()
	presets := make([]presetInfo, 0, len(names))
	for _, name := range names {
		atm, err := atmosphere.Preset(name)
		if err != nil {
			continue
		}
		presets = append(presets, presetInfo{
			Name:          name,
			TauMax:        atm.TauMax,
			Omega0:        atm.Omega0,
			G:             atm.G,
			SurfaceAlbedo: atm.SurfaceAlbedo,
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"default": atmosphere.DefaultPreset,
		"presets": presets,
	})
}

// handleAtmosphere resolves the atmosphere a request describes and
// returns it with its derived quantities and the validation limits
func (s *Server) handleAtmosphere(w http.ResponseWriter, r *http.Request) {
	atm, err := s.parseAtmosphereParams(r.URL.Query())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	response := map[string]interface{}{
		"atmosphere": map[string]float64{
			"tauMax":        atm.TauMax,
			"omega0":        atm.Omega0,
			"g":             atm.G,
			"surfaceAlbedo": atm.SurfaceAlbedo,
		},
		"derived": map[string]interface{}{
			"pureAbsorption":      atm.IsPureAbsorption(),
			"conservative":        atm.IsConservative(),
			"directTransmittance": atm.DirectTransmittance(),
		},
		"limits": map[string]interface{}{
			"tauMax": map[string]float64{
				"min": 1e-6,
				"max": 1e4,
			},
			"omega0": map[string]float64{
				"min": 0,
				"max": 1,
			},
			"g": map[string]float64{
				"min": -0.999,
				"max": 0.999,
			},
			"surfaceAlbedo": map[string]float64{
				"min": 0,
				"max": 1,
			},
			"photons": map[string]int{
				"min": 1,
				"max": maxWebPhotons,
			},
		},
	}

	s.writeJSON(w, http.StatusOK, response)
}

// parseAtmosphereParams builds the atmosphere from query parameters,
// starting from a preset and applying explicit overrides
func (s *Server) parseAtmosphereParams(values url.Values) (atmosphere.Atmosphere, error) {
	name := values.Get("preset")
	if name == "" {
		name = atmosphere.DefaultPreset
	}
	base, err := atmosphere.Preset(name)
	if err != nil {
		return atmosphere.Atmosphere{}, err
	}

	tauMax, err := parseFloatParam(values, "tauMax", base.TauMax, 1e-6, 1e4)
	if err != nil {
		return atmosphere.Atmosphere{}, err
	}
	omega0, err := parseFloatParam(values, "omega0", base.Omega0, 0, 1)
	if err != nil {
		return atmosphere.Atmosphere{}, err
	}
	g, err := parseFloatParam(values, "g", base.G, -0.999, 0.999)
	if err != nil {
		return atmosphere.Atmosphere{}, err
	}
	surfaceAlbedo, err := parseFloatParam(values, "surfaceAlbedo", base.SurfaceAlbedo, 0, 1)
	if err != nil {
		return atmosphere.Atmosphere{}, err
	}

	return atmosphere.New(tauMax, omega0, g, surfaceAlbedo)
}

// parseConfigParams builds the run configuration from query parameters
func (s *Server) parseConfigParams(values url.Values) (ensemble.Config, error) {
	cfg := ensemble.DefaultConfig()

	var err error
	if cfg.NumPhotons, err = parseIntParam(values, "photons", cfg.NumPhotons, 1, maxWebPhotons); err != nil {
		return cfg, err
	}
	if cfg.Seed, err = parseInt64Param(values, "seed", cfg.Seed); err != nil {
		return cfg, err
	}
	if cfg.HistogramBins, err = parseIntParam(values, "bins", cfg.HistogramBins, 1, 500); err != nil {
		return cfg, err
	}
	if cfg.SamplePaths, err = parseIntParam(values, "paths", cfg.SamplePaths, 0, 500); err != nil {
		return cfg, err
	}
	if cfg.NumWorkers, err = parseIntParam(values, "workers", 0, 0, 256); err != nil {
		return cfg, err
	}
	if cfg.WeightCutoff, err = parseFloatParam(values, "cutoff", cfg.WeightCutoff, 1e-9, 0.5); err != nil {
		return cfg, err
	}

	if model := values.Get("model"); model != "" {
		if cfg.PhaseModel, err = phase.ParseModel(model); err != nil {
			return cfg, err
		}
	}
	if mode := values.Get("mode"); mode != "" {
		if cfg.Mode, err = integrator.ParseTerminationMode(mode); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseInt64Param parses a 64-bit integer parameter from URL query
func parseInt64Param(values url.Values, key string, defaultValue int64) (int64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// writeJSON writes a JSON response with the given status
func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("encode response")
	}
}

// writeError writes a JSON error response
func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
