package exporter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/geotracker/geotracker/pkg/mainloop"
	"github.com/geotracker/geotracker/pkg/notify"
	"github.com/geotracker/geotracker/pkg/trackdata"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

const notificationTitle = "GPX export"

// Runner performs exports in the background. Each export reports back with exactly one
// notification, delivered on the main loop.
type Runner struct {
	Exporter *Exporter
	Loop     *mainloop.Loop
	Notifier notify.Notifier

	inFlightMutex sync.Mutex
	inFlight      map[string]struct{}

	workers conc.WaitGroup
}

func NewRunner(exporter *Exporter, loop *mainloop.Loop, notifier notify.Notifier) *Runner {
	return &Runner{
		Exporter: exporter,
		Loop:     loop,
		Notifier: notifier,
		inFlight: map[string]struct{}{},
	}
}

// Trigger starts an export unless one for the same activity is still running
func (r *Runner) Trigger(ctx context.Context, activityID string, targetUser string) bool {
	if !r.claim(activityID) {
		log.Debug().Str("activity", activityID).Msg("Export already in progress")
		return false
	}

	r.workers.Go(func() {
		defer r.release(activityID)

		notification := r.run(ctx, activityID)
		notification.TargetUser = targetUser

		r.post(ctx, notification)
	})

	return true
}

// Wait blocks until every triggered export has posted its notification
func (r *Runner) Wait() {
	r.workers.Wait()
}

func (r *Runner) claim(activityID string) bool {
	r.inFlightMutex.Lock()
	defer r.inFlightMutex.Unlock()

	if r.inFlight == nil {
		r.inFlight = map[string]struct{}{}
	}

	if _, exists := r.inFlight[activityID]; exists {
		return false
	}

	r.inFlight[activityID] = struct{}{}
	return true
}

func (r *Runner) release(activityID string) {
	r.inFlightMutex.Lock()
	defer r.inFlightMutex.Unlock()

	delete(r.inFlight, activityID)
}

func (r *Runner) run(ctx context.Context, activityID string) trackdata.Notification {
	var result Result
	var exportErr error

	var catcher panics.Catcher
	catcher.Try(func() {
		result, exportErr = r.Exporter.Export(ctx, activityID)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		exportErr = newExportError(ErrorKindIO, activityID, recovered.AsError())
	}

	var exportError *ExportError
	if errors.As(exportErr, &exportError) && exportError.Kind == ErrorKindUpload && result.Status == StatusWritten {
		log.Warn().Err(exportErr).Str("activity", activityID).Str("path", result.Path).Msg("Exported activity but cloud copy failed")

		return trackdata.Notification{
			Level:   trackdata.NotificationLevelWarning,
			Title:   notificationTitle,
			Message: fmt.Sprintf("Exported to %s (cloud copy failed: %s)", result.Path, exportError.Err),
		}
	}

	if exportErr != nil {
		log.Error().Err(exportErr).Str("activity", activityID).Msg("Failed to export activity")

		return trackdata.Notification{
			Level:   trackdata.NotificationLevelError,
			Title:   notificationTitle,
			Message: failureMessage(exportErr),
		}
	}

	if result.Status == StatusNoData {
		log.Info().Str("activity", activityID).Msg("Activity has no location data to export")

		return trackdata.Notification{
			Level:   trackdata.NotificationLevelInfo,
			Title:   notificationTitle,
			Message: "No data to export",
		}
	}

	return trackdata.Notification{
		Level:   trackdata.NotificationLevelInfo,
		Title:   notificationTitle,
		Message: fmt.Sprintf("Exported to %s", result.Path),
	}
}

func failureMessage(err error) string {
	var exportError *ExportError
	if errors.As(err, &exportError) && exportError.Err != nil {
		return fmt.Sprintf("Export failed: %s", exportError.Err)
	}

	return fmt.Sprintf("Export failed: %s", err)
}

func (r *Runner) post(ctx context.Context, notification trackdata.Notification) {
	delivered := r.Loop.Post(func() {
		if err := r.Notifier.Notify(ctx, notification); err != nil {
			log.Error().Err(err).Str("title", notification.Title).Msg("Failed to deliver notification")
		}
	})

	if !delivered {
		log.Warn().Str("message", notification.Message).Msg("Main loop stopped, dropping notification")
	}
}
