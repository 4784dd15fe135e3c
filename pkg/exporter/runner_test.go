package exporter

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/geotracker/geotracker/pkg/database"
	"github.com/geotracker/geotracker/pkg/mainloop"
	"github.com/geotracker/geotracker/pkg/trackdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mutex         sync.Mutex
	notifications []trackdata.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, notification trackdata.Notification) error {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	n.notifications = append(n.notifications, notification)
	return nil
}

func (n *recordingNotifier) received() []trackdata.Notification {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	return append([]trackdata.Notification(nil), n.notifications...)
}

type blockingStore struct {
	*memoryStore
	release chan struct{}
}

func (s *blockingStore) GetActivity(ctx context.Context, identifier string) (*trackdata.Activity, error) {
	<-s.release
	return s.memoryStore.GetActivity(ctx, identifier)
}

type panickingStore struct{ *memoryStore }

func (panickingStore) GetActivity(context.Context, string) (*trackdata.Activity, error) {
	panic("store exploded")
}

func newTestRunner(t *testing.T, store database.Store) (*Runner, *mainloop.Loop, *recordingNotifier) {
	loop := mainloop.New()
	notifier := &recordingNotifier{}
	exporter := &Exporter{Store: store, OutputDirectory: t.TempDir(), Location: time.UTC}

	return NewRunner(exporter, loop, notifier), loop, notifier
}

func TestRunnerNotifiesOnMainLoop(t *testing.T) {
	runner, loop, notifier := newTestRunner(t, newTestStore())

	require.True(t, runner.Trigger(context.Background(), "morning-run", "user-1"))
	runner.Wait()

	assert.Empty(t, notifier.received())
	assert.Equal(t, 1, loop.RunPending())

	notifications := notifier.received()
	require.Len(t, notifications, 1)
	assert.Equal(t, "user-1", notifications[0].TargetUser)
	assert.Equal(t, trackdata.NotificationLevelInfo, notifications[0].Level)
	assert.Equal(t, "Exported to "+filepath.Join(runner.Exporter.OutputDirectory, "GeoTracker_Morning_Run_2024-01-05.gpx"), notifications[0].Message)
}

func TestRunnerNoData(t *testing.T) {
	runner, loop, notifier := newTestRunner(t, newTestStore())

	require.True(t, runner.Trigger(context.Background(), "empty", ""))
	runner.Wait()
	loop.RunPending()

	notifications := notifier.received()
	require.Len(t, notifications, 1)
	assert.Equal(t, "No data to export", notifications[0].Message)
}

func TestRunnerFailure(t *testing.T) {
	runner, loop, notifier := newTestRunner(t, newTestStore())

	require.True(t, runner.Trigger(context.Background(), "missing", ""))
	runner.Wait()
	loop.RunPending()

	notifications := notifier.received()
	require.Len(t, notifications, 1)
	assert.Equal(t, trackdata.NotificationLevelError, notifications[0].Level)
	assert.True(t, strings.HasPrefix(notifications[0].Message, "Export failed: "))
}

func TestRunnerRecoversPanics(t *testing.T) {
	runner, loop, notifier := newTestRunner(t, panickingStore{newTestStore()})

	require.True(t, runner.Trigger(context.Background(), "morning-run", ""))
	runner.Wait()
	loop.RunPending()

	notifications := notifier.received()
	require.Len(t, notifications, 1)
	assert.Equal(t, trackdata.NotificationLevelError, notifications[0].Level)
	assert.Contains(t, notifications[0].Message, "store exploded")
}

func TestRunnerRejectsDuplicateInFlight(t *testing.T) {
	store := &blockingStore{memoryStore: newTestStore(), release: make(chan struct{})}
	runner, loop, notifier := newTestRunner(t, store)

	require.True(t, runner.Trigger(context.Background(), "morning-run", ""))
	assert.False(t, runner.Trigger(context.Background(), "morning-run", ""))

	close(store.release)
	runner.Wait()
	loop.RunPending()
	assert.Len(t, notifier.received(), 1)

	assert.True(t, runner.Trigger(context.Background(), "morning-run", ""))
	runner.Wait()
	loop.RunPending()
	assert.Len(t, notifier.received(), 2)
}

func TestRunnerUploadFailureStillReportsPath(t *testing.T) {
	runner, loop, notifier := newTestRunner(t, newTestStore())
	runner.Exporter.Uploader = &recordingUploader{err: errors.New("bucket unavailable")}

	require.True(t, runner.Trigger(context.Background(), "morning-run", ""))
	runner.Wait()
	loop.RunPending()

	path := filepath.Join(runner.Exporter.OutputDirectory, "GeoTracker_Morning_Run_2024-01-05.gpx")
	assert.FileExists(t, path)

	notifications := notifier.received()
	require.Len(t, notifications, 1)
	assert.Equal(t, trackdata.NotificationLevelWarning, notifications[0].Level)
	assert.Equal(t, "Exported to "+path+" (cloud copy failed: bucket unavailable)", notifications[0].Message)
}
