package notify

import (
	"context"
	"errors"

	"github.com/geotracker/geotracker/pkg/trackdata"
	"github.com/rs/zerolog/log"
)

// Notifier delivers a short user facing message. Callers only invoke it from the main loop.
type Notifier interface {
	Notify(ctx context.Context, notification trackdata.Notification) error
}

type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, notification trackdata.Notification) error {
	event := log.Info()
	switch notification.Level {
	case trackdata.NotificationLevelWarning:
		event = log.Warn()
	case trackdata.NotificationLevelError:
		event = log.Error()
	}

	event.Str("target", notification.TargetUser).Str("title", notification.Title).Msg(notification.Message)

	return nil
}

// Multi fans a notification out to every notifier and joins their errors
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, notification trackdata.Notification) error {
	var errs []error

	for _, notifier := range m {
		if err := notifier.Notify(ctx, notification); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
