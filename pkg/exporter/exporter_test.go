package exporter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/geotracker/geotracker/pkg/database"
	"github.com/geotracker/geotracker/pkg/trackdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gpxgo "github.com/tkrajina/gpxgo/gpx"
)

type memoryStore struct {
	activities map[string]*trackdata.Activity
	locations  map[string][]trackdata.LocationSample
	metrics    map[string][]trackdata.MetricSample

	err error
}

func (s *memoryStore) GetActivity(_ context.Context, identifier string) (*trackdata.Activity, error) {
	if s.err != nil {
		return nil, s.err
	}

	activity, ok := s.activities[identifier]
	if !ok {
		return nil, database.ErrNotFound
	}

	return activity, nil
}

func (s *memoryStore) GetLocations(_ context.Context, identifier string) ([]trackdata.LocationSample, error) {
	return s.locations[identifier], nil
}

func (s *memoryStore) GetMetrics(_ context.Context, identifier string) ([]trackdata.MetricSample, error) {
	return s.metrics[identifier], nil
}

type recordingUploader struct {
	uploaded []string
	err      error
}

func (u *recordingUploader) Upload(_ context.Context, localPath string, objectName string) (string, error) {
	if u.err != nil {
		return "", u.err
	}

	u.uploaded = append(u.uploaded, localPath)
	return "gs://bucket/" + objectName, nil
}

func newTestStore() *memoryStore {
	return &memoryStore{
		activities: map[string]*trackdata.Activity{
			"morning-run": {PrimaryIdentifier: "morning-run", Name: "Morning Run", Date: "2024:01:05"},
			"empty":       {PrimaryIdentifier: "empty", Name: "Empty", Date: "2024-01-06"},
		},
		locations: map[string][]trackdata.LocationSample{
			"morning-run": {
				{Latitude: 51.5, Longitude: -0.12, Altitude: 11},
				{Latitude: 51.501, Longitude: -0.121, Altitude: 12},
				{Latitude: 51.502, Longitude: -0.122, Altitude: 13},
			},
		},
		metrics: map[string][]trackdata.MetricSample{
			"morning-run": {
				{ElapsedMillis: 1704441600000},
				{ElapsedMillis: 1704441601000},
			},
		},
	}
}

func TestExportWritesFile(t *testing.T) {
	outputDirectory := filepath.Join(t.TempDir(), "exports")
	exporter := &Exporter{Store: newTestStore(), OutputDirectory: outputDirectory, Location: time.UTC}

	result, err := exporter.Export(context.Background(), "morning-run")
	require.NoError(t, err)

	assert.Equal(t, StatusWritten, result.Status)
	assert.Equal(t, 3, result.PointCount)
	assert.Equal(t, filepath.Join(outputDirectory, "GeoTracker_Morning_Run_2024-01-05.gpx"), result.Path)

	contents, err := os.ReadFile(result.Path)
	require.NoError(t, err)

	parsed, err := gpxgo.ParseBytes(contents)
	require.NoError(t, err)
	require.Len(t, parsed.Tracks, 1)
	require.Len(t, parsed.Tracks[0].Segments, 1)
	assert.Len(t, parsed.Tracks[0].Segments[0].Points, 3)
}

func TestExportOverwritesExistingFile(t *testing.T) {
	outputDirectory := t.TempDir()
	existing := filepath.Join(outputDirectory, "GeoTracker_Morning_Run_2024-01-05.gpx")
	require.NoError(t, os.WriteFile(existing, []byte("stale contents that are longer than nothing"), 0o644))

	exporter := &Exporter{Store: newTestStore(), OutputDirectory: outputDirectory, Location: time.UTC}
	result, err := exporter.Export(context.Background(), "morning-run")
	require.NoError(t, err)
	assert.Equal(t, existing, result.Path)

	contents, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.NotContains(t, string(contents), "stale")
}

func TestExportNoData(t *testing.T) {
	outputDirectory := t.TempDir()
	exporter := &Exporter{Store: newTestStore(), OutputDirectory: outputDirectory}

	result, err := exporter.Export(context.Background(), "empty")
	require.NoError(t, err)
	assert.Equal(t, StatusNoData, result.Status)
	assert.Empty(t, result.Path)

	entries, err := os.ReadDir(outputDirectory)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportErrorKinds(t *testing.T) {
	exporter := &Exporter{Store: newTestStore(), OutputDirectory: t.TempDir()}

	_, err := exporter.Export(context.Background(), "missing")
	var exportError *ExportError
	require.True(t, errors.As(err, &exportError))
	assert.Equal(t, ErrorKindNotFound, exportError.Kind)
	assert.Equal(t, "missing", exportError.ActivityID)
	assert.True(t, errors.Is(err, database.ErrNotFound))

	storeErr := errors.New("connection reset")
	exporter.Store = &memoryStore{err: storeErr}
	_, err = exporter.Export(context.Background(), "morning-run")
	require.True(t, errors.As(err, &exportError))
	assert.Equal(t, ErrorKindStore, exportError.Kind)
	assert.True(t, errors.Is(err, storeErr))
}

func TestExportIOError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-directory")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	exporter := &Exporter{Store: newTestStore(), OutputDirectory: blocker}

	_, err := exporter.Export(context.Background(), "morning-run")
	var exportError *ExportError
	require.True(t, errors.As(err, &exportError))
	assert.Equal(t, ErrorKindIO, exportError.Kind)
}

func TestExportUploads(t *testing.T) {
	uploader := &recordingUploader{}
	exporter := &Exporter{Store: newTestStore(), OutputDirectory: t.TempDir(), Uploader: uploader}

	result, err := exporter.Export(context.Background(), "morning-run")
	require.NoError(t, err)
	assert.Equal(t, []string{result.Path}, uploader.uploaded)
	assert.Equal(t, "gs://bucket/GeoTracker_Morning_Run_2024-01-05.gpx", result.UploadedObject)

	uploader.err = errors.New("bucket unavailable")
	result, err = exporter.Export(context.Background(), "morning-run")
	var exportError *ExportError
	require.True(t, errors.As(err, &exportError))
	assert.Equal(t, ErrorKindUpload, exportError.Kind)
	assert.FileExists(t, result.Path)
}
