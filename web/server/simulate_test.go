package server

import (
	"encoding/json"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-twostream-rt/pkg/ensemble"
)

func TestServer_Simulate(t *testing.T) {
	w := doRequest(t, newTestServer(), "/api/simulate?photons=2000")
	require.Equal(t, http.StatusOK, w.Code)

	var result ensemble.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.Equal(t, 2000, result.NumPhotons)
	assert.Equal(t, int64(2000), result.ReflectedCount+result.TransmittedCount+result.AbsorbedCount)
	assert.InDelta(t, 1.0, result.Reflectance+result.Transmittance+result.Absorptance, 1e-9)
}

func TestServer_SimulateBeerLambert(t *testing.T) {
	// Pure absorption with a black surface: transmittance follows exp(-tau)
	// and nothing can turn around
	w := doRequest(t, newTestServer(), "/api/simulate?tauMax=1.0&omega0=0&g=0&surfaceAlbedo=0&photons=5000")
	require.Equal(t, http.StatusOK, w.Code)

	var result ensemble.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.InDelta(t, math.Exp(-1.0), result.Transmittance, 0.05)
	assert.Zero(t, result.ReflectedCount)
}

func TestServer_SimulateDeterministic(t *testing.T) {
	srv := newTestServer()
	first := doRequest(t, srv, "/api/simulate?photons=1000&seed=7")
	second := doRequest(t, srv, "/api/simulate?photons=1000&seed=7")
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestServer_SimulateSamplePaths(t *testing.T) {
	w := doRequest(t, newTestServer(), "/api/simulate?photons=200&paths=3")
	require.Equal(t, http.StatusOK, w.Code)

	var result ensemble.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	require.Len(t, result.SamplePaths, 3)
	for _, path := range result.SamplePaths {
		assert.NotEmpty(t, path.Positions)
		assert.Equal(t, 0.0, path.Positions[0])
	}
}
