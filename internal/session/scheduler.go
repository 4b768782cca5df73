package session

import "time"

// Task is a pending deferred callback.
type Task interface {
	Cancel()
}

// Scheduler runs one-shot deferred callbacks.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

// Clock returns the current time.
type Clock func() time.Time

// SystemScheduler schedules callbacks on runtime timers.
func SystemScheduler() Scheduler {
	return timerScheduler{}
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) Task {
	return timerTask{t: time.AfterFunc(d, f)}
}

type timerTask struct {
	t *time.Timer
}

func (t timerTask) Cancel() {
	t.t.Stop()
}
