package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/adjust/rmq/v5"
	"github.com/geotracker/geotracker/pkg/consumer"
	"github.com/geotracker/geotracker/pkg/database"
	"github.com/geotracker/geotracker/pkg/trackdata"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	activities map[string]*trackdata.Activity
	locations  map[string][]trackdata.LocationSample
}

func (s *memoryStore) GetActivity(_ context.Context, identifier string) (*trackdata.Activity, error) {
	activity, ok := s.activities[identifier]
	if !ok {
		return nil, database.ErrNotFound
	}

	return activity, nil
}

func (s *memoryStore) GetLocations(_ context.Context, identifier string) ([]trackdata.LocationSample, error) {
	return s.locations[identifier], nil
}

func (s *memoryStore) GetMetrics(_ context.Context, _ string) ([]trackdata.MetricSample, error) {
	return nil, nil
}

// Roughly 2.2 km due north in 0.001 degree steps
func northboundLocations() []trackdata.LocationSample {
	locations := []trackdata.LocationSample{}
	for i := 0; i <= 20; i++ {
		locations = append(locations, trackdata.LocationSample{Latitude: 51.5 + float64(i)*0.001, Longitude: -0.12})
	}

	return locations
}

func newTestServer(t *testing.T) (*Server, rmq.TestConnection) {
	connection := rmq.NewTestConnection()
	queue, err := connection.OpenQueue(consumer.ExportQueueName)
	require.NoError(t, err)

	store := &memoryStore{
		activities: map[string]*trackdata.Activity{
			"morning-run": {PrimaryIdentifier: "morning-run", Name: "Morning Run", Date: "2024:01:05"},
		},
		locations: map[string][]trackdata.LocationSample{
			"morning-run": northboundLocations(),
		},
	}

	return &Server{Store: store, ExportQueue: queue, DisplayDensity: 2}, connection
}

func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&decoded))

	return decoded
}

func TestVersion(t *testing.T) {
	server, _ := newTestServer(t)

	response, err := server.App().Test(httptest.NewRequest("GET", "/core/version", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, response.StatusCode)
	assert.Equal(t, "v0.1", decodeBody(t, response.Body)["version"])
}

func TestGetActivity(t *testing.T) {
	server, _ := newTestServer(t)
	app := server.App()

	response, err := app.Test(httptest.NewRequest("GET", "/core/activities/morning-run", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, response.StatusCode)

	body := decodeBody(t, response.Body)
	assert.Equal(t, "Morning Run", body["Name"])
	assert.Equal(t, "2024:01:05", body["Date"])

	response, err = app.Test(httptest.NewRequest("GET", "/core/activities/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, response.StatusCode)
}

func TestExportActivityQueuesRequest(t *testing.T) {
	server, connection := newTestServer(t)

	response, err := server.App().Test(httptest.NewRequest("POST", "/core/activities/morning-run/export?target_user=user-1", nil))
	require.NoError(t, err)
	assert.Equal(t, 202, response.StatusCode)

	deliveries := connection.GetDeliveries(consumer.ExportQueueName)
	require.Len(t, deliveries, 1)

	var request consumer.ExportRequest
	require.NoError(t, json.Unmarshal([]byte(deliveries[0]), &request))
	assert.Equal(t, consumer.ExportRequest{ActivityID: "morning-run", TargetUser: "user-1"}, request)
}

func TestExportMissingActivityIsNotQueued(t *testing.T) {
	server, connection := newTestServer(t)

	response, err := server.App().Test(httptest.NewRequest("POST", "/core/activities/missing/export", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, response.StatusCode)
	assert.Empty(t, connection.GetDeliveries(consumer.ExportQueueName))
}

func TestActivityMarkers(t *testing.T) {
	server, _ := newTestServer(t)
	app := server.App()

	response, err := app.Test(httptest.NewRequest("GET", "/core/activities/morning-run/markers", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, response.StatusCode)

	body := decodeBody(t, response.Body)
	markers, ok := body["markers"].([]interface{})
	require.True(t, ok)
	assert.Len(t, markers, 2)
	assert.EqualValues(t, 2, body["overlays"])

	first := markers[0].(map[string]interface{})
	assert.InDelta(t, 0, first["heading"].(float64), 1e-6)

	response, err = app.Test(httptest.NewRequest("GET", "/core/activities/morning-run/markers?density=-1", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, response.StatusCode)
}

func TestGlyph(t *testing.T) {
	server, _ := newTestServer(t)
	app := server.App()

	response, err := app.Test(httptest.NewRequest("GET", "/core/markers/glyph.png", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, response.StatusCode)
	assert.Equal(t, "image/png", response.Header.Get("Content-Type"))

	decoded, err := png.Decode(response.Body)
	require.NoError(t, err)
	assert.Equal(t, 48, decoded.Bounds().Dx())

	response, err = app.Test(httptest.NewRequest("GET", "/core/markers/glyph.png?density=3", nil))
	require.NoError(t, err)
	decoded, err = png.Decode(response.Body)
	require.NoError(t, err)
	assert.Equal(t, 72, decoded.Bounds().Dx())
}

func TestDensityUpperBound(t *testing.T) {
	server, _ := newTestServer(t)
	app := server.App()

	for _, path := range []string{
		"/core/markers/glyph.png?density=300",
		"/core/markers/glyph.png?density=100000",
		"/core/activities/morning-run/markers?density=4.5",
	} {
		response, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, 400, response.StatusCode, path)
	}

	response, err := app.Test(httptest.NewRequest("GET", "/core/markers/glyph.png?density=4", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, response.StatusCode)
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	var logOutput bytes.Buffer
	previousLogger := log.Logger
	log.Logger = zerolog.New(&logOutput)
	t.Cleanup(func() { log.Logger = previousLogger })

	server, _ := newTestServer(t)

	response, err := server.App().Test(httptest.NewRequest("GET", "/core/does-not-exist", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, response.StatusCode)

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	assert.Equal(t, "Cannot GET /core/does-not-exist", string(body))

	var logLine map[string]interface{}
	require.NoError(t, json.Unmarshal(logOutput.Bytes(), &logLine))
	assert.EqualValues(t, 404, logLine["status"])
	assert.Equal(t, "warn", logLine["level"])
}
