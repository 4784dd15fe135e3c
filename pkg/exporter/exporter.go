// Package exporter turns a stored activity into a GPX file in the shared export directory
package exporter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/geotracker/geotracker/pkg/database"
	"github.com/geotracker/geotracker/pkg/gpx"
	"github.com/rs/zerolog/log"
)

type Status string

const (
	StatusWritten Status = "Written"
	StatusNoData  Status = "NoData"
)

type Result struct {
	ActivityID string
	Status     Status

	Path       string
	PointCount int

	UploadedObject string
}

type Uploader interface {
	Upload(ctx context.Context, localPath string, objectName string) (string, error)
}

type Exporter struct {
	Store           database.Store
	OutputDirectory string
	Location        *time.Location

	// Optional
	Uploader Uploader
}

// Export writes the activity's track to <OutputDirectory>/GeoTracker_<name>_<date>.gpx, replacing
// any existing file. An activity without location samples produces StatusNoData and no file.
func (e *Exporter) Export(ctx context.Context, activityID string) (Result, error) {
	result := Result{ActivityID: activityID}

	activity, err := e.Store.GetActivity(ctx, activityID)
	if errors.Is(err, database.ErrNotFound) {
		return result, newExportError(ErrorKindNotFound, activityID, err)
	} else if err != nil {
		return result, newExportError(ErrorKindStore, activityID, err)
	}

	locations, err := e.Store.GetLocations(ctx, activityID)
	if err != nil {
		return result, newExportError(ErrorKindStore, activityID, err)
	}

	if len(locations) == 0 {
		result.Status = StatusNoData
		return result, nil
	}

	metrics, err := e.Store.GetMetrics(ctx, activityID)
	if err != nil {
		return result, newExportError(ErrorKindStore, activityID, err)
	}

	document, err := gpx.BuildDocument(activity, locations, metrics, e.Location)
	if err != nil {
		return result, newExportError(ErrorKindStore, activityID, err)
	}

	// The whole document is encoded before the destination is touched
	var buffer bytes.Buffer
	if _, err := document.WriteTo(&buffer); err != nil {
		return result, newExportError(ErrorKindIO, activityID, err)
	}

	filename := gpx.Filename(activity.Name, activity.Date)
	fullPath := filepath.Join(e.OutputDirectory, filename)

	if err := writeFile(e.OutputDirectory, fullPath, buffer.Bytes()); err != nil {
		return result, newExportError(ErrorKindIO, activityID, err)
	}

	result.Status = StatusWritten
	result.Path = fullPath
	result.PointCount = len(locations)

	log.Info().Str("activity", activityID).Str("path", fullPath).Int("points", result.PointCount).Msg("Exported activity")

	if e.Uploader != nil {
		objectName, err := e.Uploader.Upload(ctx, fullPath, filename)
		if err != nil {
			return result, newExportError(ErrorKindUpload, activityID, err)
		}

		result.UploadedObject = objectName
	}

	return result, nil
}

func writeFile(directory string, fullPath string, contents []byte) error {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	if _, err := file.Write(contents); err != nil {
		file.Close()
		return fmt.Errorf("failed to write to file: %w", err)
	}

	return file.Close()
}
