package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/domain"
)

type captured struct {
	via, title, message string
}

func newTestNotifier(cfg config.NotificationConfig, got *[]captured, err error) *Notifier {
	n := New(cfg, nil)
	n.notify = func(title, message string, icon any) error {
		*got = append(*got, captured{"notify", title, message})
		return err
	}
	n.alert = func(title, message string, icon any) error {
		*got = append(*got, captured{"alert", title, message})
		return err
	}
	return n
}

func TestNotifier_Disabled(t *testing.T) {
	var got []captured
	n := newTestNotifier(config.NotificationConfig{Enabled: false}, &got, nil)

	n.OnSessionRecorded(context.Background(), domain.Session{TaskName: "coding", Completed: true})
	assert.Empty(t, got)
	assert.False(t, n.IsEnabled())
}

func TestNotifier_SoundChoosesAlert(t *testing.T) {
	var got []captured
	n := newTestNotifier(config.NotificationConfig{Enabled: true, Sound: true}, &got, nil)

	n.OnSessionRecorded(context.Background(), domain.Session{
		TaskName:        "coding",
		PlannedDuration: 25 * time.Minute,
		ActualDuration:  25 * time.Minute,
		Completed:       true,
	})

	if assert.Len(t, got, 1) {
		assert.Equal(t, "alert", got[0].via)
		assert.Contains(t, got[0].title, "Complete")
		assert.Contains(t, got[0].message, "25m of coding")
	}
}

func TestNotifier_InterruptedMessage(t *testing.T) {
	var got []captured
	n := newTestNotifier(config.NotificationConfig{Enabled: true}, &got, errors.New("no dbus"))

	// Errors are logged, not propagated.
	n.OnSessionRecorded(context.Background(), domain.Session{
		TaskName:        "reading",
		PlannedDuration: 25 * time.Minute,
		ActualDuration:  10 * time.Minute,
	})

	if assert.Len(t, got, 1) {
		assert.Equal(t, "notify", got[0].via)
		assert.Contains(t, got[0].message, "10m of reading")
		assert.Contains(t, got[0].message, "planned 25m")
	}
}
