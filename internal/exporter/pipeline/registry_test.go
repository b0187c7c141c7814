package pipeline

import (
	"errors"
	"testing"
	"time"

	"design-exporter/internal/exporter/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryTracksRun(t *testing.T) {
	r := NewRegistry()
	id := r.Begin("room", "ai")
	require.NotEmpty(t, id)

	r.Observer(id)(Transition{From: StateIdle, To: StateCapturing})
	r.Notifier(id).Notify("working", SeverityInfo)

	status, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StateCapturing, status.State)
	assert.Len(t, status.History, 1)
	assert.Len(t, status.Notifications, 1)
	assert.Nil(t, status.FinishedAt)

	r.Finish(id, &Outcome{
		State:   StateFailed,
		Failure: &Failure{Stage: StateCapturing, Err: models.NewError(models.ErrCodeCaptureUnavailable, "no design surface found", nil)},
	})
	status, err = r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StateFailed, status.State)
	assert.Equal(t, StateCapturing, status.FailedStage)
	assert.Equal(t, "no design surface found", status.Error)
	assert.NotNil(t, status.FinishedAt)
}

func TestRegistryGetReturnsCopy(t *testing.T) {
	r := NewRegistry()
	id := r.Begin("room", "template")
	r.Notifier(id).Notify("one", SeverityInfo)

	status, _ := r.Get(id)
	status.Notifications[0].Message = "changed"

	again, _ := r.Get(id)
	assert.Equal(t, "one", again.Notifications[0].Message)
}

func TestRegistryUnknownRun(t *testing.T) {
	_, err := NewRegistry().Get("missing")
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestRegistrySweep(t *testing.T) {
	r := NewRegistry()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	old := r.Begin("a", "ai")
	r.Finish(old, &Outcome{State: StateDone})
	running := r.Begin("b", "ai")

	now = now.Add(2 * time.Hour)
	fresh := r.Begin("c", "template")
	r.Finish(fresh, &Outcome{State: StateDone})

	assert.Equal(t, 1, r.Sweep(time.Hour))

	_, err := r.Get(old)
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = r.Get(running)
	assert.NoError(t, err, "unfinished runs are kept")
	_, err = r.Get(fresh)
	assert.NoError(t, err)
}

func TestRegistryStartSweeperRejectsBadSchedule(t *testing.T) {
	_, err := NewRegistry().StartSweeper("not a schedule", time.Hour)
	assert.Error(t, err)

	c, err := NewRegistry().StartSweeper("@every 1m", time.Hour)
	require.NoError(t, err)
	c.Stop()
}
