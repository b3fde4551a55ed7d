package tui

import (
	"time"

	"github.com/sadopc/focusos/internal/store"
)

const defaultFocusLength = 25 * time.Minute

// timerModel counts down an open focus session. Elapsed time is derived from
// the session's started_at so a restarted client picks up where the server is.
// Pausing only freezes the local display; the server keeps the session open.
type timerModel struct {
	now func() time.Time

	session   *store.FocusSession
	taskTitle string
	length    time.Duration

	pausedAt time.Time
	pauseGap time.Duration
	expired  bool
}

func newTimerModel(now func() time.Time) timerModel {
	if now == nil {
		now = time.Now
	}
	return timerModel{now: now, length: defaultFocusLength}
}

func (t *timerModel) setLength(minutes int) {
	if minutes < store.MinFocusMinutes || minutes > store.MaxFocusMinutes {
		return
	}
	t.length = time.Duration(minutes) * time.Minute
}

func (t *timerModel) attach(s *store.FocusSession, taskTitle string) {
	t.session = s
	t.taskTitle = taskTitle
	t.pausedAt = time.Time{}
	t.pauseGap = 0
	t.expired = false
}

func (t *timerModel) detach() {
	t.session = nil
	t.taskTitle = ""
	t.pausedAt = time.Time{}
	t.pauseGap = 0
	t.expired = false
}

func (t timerModel) running() bool { return t.session != nil }
func (t timerModel) paused() bool  { return t.session != nil && !t.pausedAt.IsZero() }

func (t *timerModel) toggle() {
	if t.session == nil {
		return
	}
	if t.pausedAt.IsZero() {
		t.pausedAt = t.now()
		return
	}
	t.pauseGap += t.now().Sub(t.pausedAt)
	t.pausedAt = time.Time{}
}

func (t timerModel) elapsed() time.Duration {
	if t.session == nil {
		return 0
	}
	end := t.now()
	if !t.pausedAt.IsZero() {
		end = t.pausedAt
	}
	d := end.Sub(t.session.StartedAt) - t.pauseGap
	if d < 0 {
		return 0
	}
	return d
}

func (t timerModel) remaining() time.Duration {
	if t.session == nil {
		return t.length
	}
	return max(t.length-t.elapsed(), 0)
}

// progress is the completed fraction of the countdown in [0, 1].
func (t timerModel) progress() float64 {
	if t.length <= 0 {
		return 0
	}
	return min(float64(t.elapsed())/float64(t.length), 1)
}

// tick reports true exactly once, on the first tick at or past the end of
// the countdown.
func (t *timerModel) tick() bool {
	if t.session == nil || t.expired || t.paused() {
		return false
	}
	if t.remaining() > 0 {
		return false
	}
	t.expired = true
	return true
}
